package models

import (
	"errors"
	"testing"

	"alfredoptarigan/vocalize/internal/rubric"
)

const fullScoreBody = `{"thesisClarity":3,"organization":4,"supportEvidence":5,"pacingPausing":2,"volumeClarity":3,"vocalVariety":4,"grammarSyntax":5,"appropriateness":2,"wordChoiceRhetoric":3}`

func TestParseScoreRequest(t *testing.T) {
	r, err := ParseScoreRequest([]byte(fullScoreBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != rubric.RatingsFromValues([9]int{3, 4, 5, 2, 3, 4, 5, 2, 3}) {
		t.Fatalf("unexpected ratings: %+v", r)
	}
}

func TestParseScoreRequestFieldErrors(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing", `{"organization":4,"supportEvidence":5,"pacingPausing":2,"volumeClarity":3,"vocalVariety":4,"grammarSyntax":5,"appropriateness":2,"wordChoiceRhetoric":3}`, "thesisClarity"},
		{"fractional", `{"thesisClarity":3,"organization":4.5,"supportEvidence":5,"pacingPausing":2,"volumeClarity":3,"vocalVariety":4,"grammarSyntax":5,"appropriateness":2,"wordChoiceRhetoric":3}`, "organization"},
		{"too high", `{"thesisClarity":3,"organization":4,"supportEvidence":5,"pacingPausing":2,"volumeClarity":3,"vocalVariety":4,"grammarSyntax":5,"appropriateness":2,"wordChoiceRhetoric":6}`, "wordChoiceRhetoric"},
		{"zero", `{"thesisClarity":3,"organization":4,"supportEvidence":5,"pacingPausing":0,"volumeClarity":3,"vocalVariety":4,"grammarSyntax":5,"appropriateness":2,"wordChoiceRhetoric":3}`, "pacingPausing"},
		{"string", `{"thesisClarity":3,"organization":4,"supportEvidence":"five","pacingPausing":2,"volumeClarity":3,"vocalVariety":4,"grammarSyntax":5,"appropriateness":2,"wordChoiceRhetoric":3}`, "supportEvidence"},
		{"null", `{"thesisClarity":null,"organization":4,"supportEvidence":5,"pacingPausing":2,"volumeClarity":3,"vocalVariety":4,"grammarSyntax":5,"appropriateness":2,"wordChoiceRhetoric":3}`, "thesisClarity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScoreRequest([]byte(tc.body))
			var verr *rubric.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %s, got %s", tc.field, verr.Field)
			}
		})
	}
}

func TestParseScoreRequestInvalidPayload(t *testing.T) {
	for _, body := range []string{"", "[]", "null", "{"} {
		if _, err := ParseScoreRequest([]byte(body)); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("%q: expected ErrInvalidPayload, got %v", body, err)
		}
	}
}

func TestNewAttemptResponse(t *testing.T) {
	resp := NewAttemptResponse(&Attempt{Version: 3, Status: StatusQueued})
	if resp.AudioURL != "/api/attempts/3/audio" {
		t.Fatalf("unexpected audio url %q", resp.AudioURL)
	}
	if resp.Suggestions == nil {
		t.Fatal("expected empty suggestions slice, got nil")
	}
	if AudioKeyFor(3) != "audio_v3" {
		t.Fatalf("unexpected audio key %q", AudioKeyFor(3))
	}
}
