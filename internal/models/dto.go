package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"alfredoptarigan/vocalize/internal/rubric"
)

// ErrInvalidPayload is returned when a request body is not a JSON object.
var ErrInvalidPayload = errors.New("invalid request payload")

// ParseScoreRequest reads the body of POST /api/score: a JSON object with the
// nine rubric fields. It fails on the first field, in rubric order, that is
// absent, not a number, fractional or out of range.
func ParseScoreRequest(body []byte) (rubric.Ratings, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return rubric.Ratings{}, ErrInvalidPayload
	}

	var values [9]int
	for i, name := range rubric.FieldNames {
		raw, ok := fields[name]
		if !ok || string(raw) == "null" {
			return rubric.Ratings{}, &rubric.ValidationError{Field: name, Reason: "missing"}
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return rubric.Ratings{}, &rubric.ValidationError{Field: name, Reason: "must be a number"}
		}
		if v != math.Trunc(v) {
			return rubric.Ratings{}, &rubric.ValidationError{Field: name, Reason: "must be an integer"}
		}
		if v < rubric.MinRating || v > rubric.MaxRating {
			return rubric.Ratings{}, &rubric.ValidationError{
				Field:  name,
				Reason: fmt.Sprintf("%v is outside [%d,%d]", v, rubric.MinRating, rubric.MaxRating),
			}
		}
		values[i] = int(v)
	}

	return rubric.RatingsFromValues(values), nil
}

type AIScoreRequest struct {
	Transcription string `json:"transcription"`
}

type CategoryInput struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type SuggestionsRequest struct {
	Categories []CategoryInput `json:"categories"`
}

type SuggestionsResponse struct {
	Suggestions []rubric.Suggestion `json:"suggestions"`
}

type TranscribeRequest struct {
	Audio string `json:"audio"`
}

type TranscribeResponse struct {
	Transcription string `json:"transcription"`
}

type SubmitAttemptRequest struct {
	Audio string `json:"audio"`
}

// AttemptResponse is an Attempt as served by the API, with a playable clip URL.
type AttemptResponse struct {
	ID           string              `json:"id"`
	Version      int                 `json:"version"`
	Status       string              `json:"status"`
	Transcript   *string             `json:"transcript"`
	AudioURL     string              `json:"audio_url"`
	ScoreReport  *rubric.ScoreReport `json:"score_report"`
	Suggestions  []rubric.Suggestion `json:"suggestions"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	ScoredAt     *time.Time          `json:"scored_at,omitempty"`
}

func NewAttemptResponse(a *Attempt) AttemptResponse {
	suggestions := a.Suggestions
	if suggestions == nil {
		suggestions = []rubric.Suggestion{}
	}
	return AttemptResponse{
		ID:           a.ID.String(),
		Version:      a.Version,
		Status:       string(a.Status),
		Transcript:   a.Transcript,
		AudioURL:     fmt.Sprintf("/api/attempts/%d/audio", a.Version),
		ScoreReport:  a.ScoreReport,
		Suggestions:  suggestions,
		ErrorMessage: a.ErrorMessage,
		CreatedAt:    a.CreatedAt,
		ScoredAt:     a.ScoredAt,
	}
}
