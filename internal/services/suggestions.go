package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"alfredoptarigan/vocalize/internal/apperrors"
	"alfredoptarigan/vocalize/internal/rubric"
)

const (
	suggestionTemperature = 0.7
	suggestionMaxTokens   = 500
)

type SuggestionService interface {
	RequestSuggestions(ctx context.Context, categories []rubric.CategoryScore) ([]rubric.Suggestion, error)
}

type suggestionService struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
}

func NewSuggestionService(generator TextGenerator) SuggestionService {
	return &suggestionService{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
	}
}

// RequestSuggestions returns at most rubric.MaxSuggestions suggestions. Every
// returned suggestion names a known category.
func (s *suggestionService) RequestSuggestions(ctx context.Context, categories []rubric.CategoryScore) ([]rubric.Suggestion, error) {
	if len(categories) == 0 {
		return nil, apperrors.Errorf(apperrors.KindValidation, "suggestions", "categories are required")
	}

	prompt := s.promptBuilder.BuildSuggestionsPrompt(categories)
	response, err := s.generator.GenerateText(ctx, prompt, GenerateOptions{
		Temperature:     suggestionTemperature,
		MaxOutputTokens: suggestionMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestions: %w", err)
	}

	if strings.TrimSpace(response) == "" {
		return []rubric.Suggestion{}, nil
	}

	// Category.UnmarshalJSON rejects names outside the rubric but never runs
	// for a missing key.
	var suggestions []rubric.Suggestion
	if err := parseJSONResponse(response, &suggestions); err != nil {
		log.Printf("❌ Failed to parse suggestions response: %v", err)
		return nil, apperrors.E(apperrors.KindUpstreamFormat, "suggestions", err)
	}
	for i, sug := range suggestions {
		if !sug.Category.Valid() {
			log.Printf("❌ Suggestion %d has no category", i+1)
			return nil, apperrors.Errorf(apperrors.KindUpstreamFormat, "suggestions", "suggestion %d has no valid category", i+1)
		}
	}

	if len(suggestions) > rubric.MaxSuggestions {
		suggestions = suggestions[:rubric.MaxSuggestions]
	}
	if suggestions == nil {
		suggestions = []rubric.Suggestion{}
	}

	return suggestions, nil
}
