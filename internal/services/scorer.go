package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"alfredoptarigan/vocalize/internal/apperrors"
	"alfredoptarigan/vocalize/internal/rubric"
)

// AIScorer rates a transcript with the language model and reduces the
// ratings to a score report.
type AIScorer interface {
	ScoreTranscript(ctx context.Context, transcript string) (*rubric.ScoreReport, error)
}

// TextGenerator is the slice of GeminiService the scorer and suggestion
// requester need.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

type aiScorer struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
}

func NewAIScorer(generator TextGenerator) AIScorer {
	return &aiScorer{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
	}
}

func (s *aiScorer) ScoreTranscript(ctx context.Context, transcript string) (*rubric.ScoreReport, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, apperrors.Errorf(apperrors.KindValidation, "ai-score", "transcription is required")
	}

	prompt := s.promptBuilder.BuildRubricRatingPrompt(transcript)
	log.Printf("📝 Rubric rating prompt length: %d characters", len(prompt))

	response, err := s.generator.GenerateText(ctx, prompt, GenerateOptions{Temperature: 0.2})
	if err != nil {
		return nil, fmt.Errorf("failed to generate ratings: %w", err)
	}

	ratings, err := rubric.ParseRatings(response)
	if err != nil {
		log.Printf("❌ Unusable rating response (%d characters): %v", len(response), err)
		return nil, apperrors.E(apperrors.KindUpstreamFormat, "ai-score", err)
	}

	report, err := rubric.Compute(ratings)
	if err != nil {
		var verr *rubric.ValidationError
		if errors.As(err, &verr) {
			return nil, apperrors.E(apperrors.KindUpstreamFormat, "ai-score", err)
		}
		return nil, fmt.Errorf("failed to compute score: %w", err)
	}

	return report, nil
}
