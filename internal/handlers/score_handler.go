package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/vocalize/internal/models"
	"alfredoptarigan/vocalize/internal/rubric"
	"alfredoptarigan/vocalize/internal/services"
)

type ScoreHandler struct {
	scorer    services.AIScorer
	suggester services.SuggestionService
}

func NewScoreHandler(scorer services.AIScorer, suggester services.SuggestionService) *ScoreHandler {
	return &ScoreHandler{
		scorer:    scorer,
		suggester: suggester,
	}
}

// HandleScore handles POST /score with nine human-entered ratings.
func (h *ScoreHandler) HandleScore(c *fiber.Ctx) error {
	ratings, err := models.ParseScoreRequest(c.Body())
	if err != nil {
		if errors.Is(err, models.ErrInvalidPayload) {
			return badRequest("Invalid request payload")
		}
		return badRequest(err.Error())
	}

	report, err := rubric.Compute(ratings)
	if err != nil {
		var verr *rubric.ValidationError
		if errors.As(err, &verr) {
			return badRequest(verr.Error())
		}
		return err
	}

	return c.JSON(report)
}

// HandleAIScore handles POST /ai-score.
func (h *ScoreHandler) HandleAIScore(c *fiber.Ctx) error {
	var req models.AIScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request payload")
	}

	if strings.TrimSpace(req.Transcription) == "" {
		return badRequest("Transcription is required")
	}

	report, err := h.scorer.ScoreTranscript(c.UserContext(), req.Transcription)
	if err != nil {
		return err
	}

	return c.JSON(report)
}

// HandleGenerateSuggestions handles POST /generate-suggestions.
func (h *ScoreHandler) HandleGenerateSuggestions(c *fiber.Ctx) error {
	var req models.SuggestionsRequest
	if err := c.BodyParser(&req); err != nil || req.Categories == nil {
		return badRequest("Categories are required and must be an array")
	}

	categories := make([]rubric.CategoryScore, 0, len(req.Categories))
	for _, in := range req.Categories {
		category, err := rubric.ParseCategory(in.Name)
		if err != nil {
			return badRequest(err.Error())
		}
		// Scores pass through unscaled; some clients send raw category totals.
		categories = append(categories, rubric.CategoryScore{Category: category, Score: in.Score})
	}
	if len(categories) == 0 {
		return c.JSON(models.SuggestionsResponse{Suggestions: []rubric.Suggestion{}})
	}

	suggestions, err := h.suggester.RequestSuggestions(c.UserContext(), categories)
	if err != nil {
		return err
	}

	return c.JSON(models.SuggestionsResponse{Suggestions: suggestions})
}
