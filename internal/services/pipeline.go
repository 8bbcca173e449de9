package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"alfredoptarigan/vocalize/internal/repositories"
	"alfredoptarigan/vocalize/internal/rubric"
)

// PipelineService scores an appended attempt and then attaches suggestions.
type PipelineService interface {
	ProcessAttempt(ctx context.Context, version int) error
}

type pipelineService struct {
	attemptRepo repositories.AttemptRepository
	scorer      AIScorer
	suggester   SuggestionService
}

func NewPipelineService(
	attemptRepo repositories.AttemptRepository,
	scorer AIScorer,
	suggester SuggestionService,
) PipelineService {
	return &pipelineService{
		attemptRepo: attemptRepo,
		scorer:      scorer,
		suggester:   suggester,
	}
}

func (p *pipelineService) ProcessAttempt(ctx context.Context, version int) error {
	claimed, err := p.attemptRepo.ClaimQueued(version)
	if err != nil {
		return fmt.Errorf("failed to claim attempt: %w", err)
	}
	if !claimed {
		log.Printf("⏭️  Attempt #%d is not queued, skipping", version)
		return nil
	}

	log.Printf("🔄 Scoring attempt #%d", version)

	attempt, err := p.attemptRepo.FindByVersion(version)
	if err != nil {
		return fmt.Errorf("failed to get attempt: %w", err)
	}

	if attempt.Transcript == nil {
		p.markFailed(version, "attempt has no transcript")
		return fmt.Errorf("attempt #%d has no transcript", version)
	}

	// Step 1: rate the transcript and compute the report
	log.Println("🤖 Rating transcript with LLM...")
	report, err := p.scorer.ScoreTranscript(ctx, *attempt.Transcript)
	if err != nil {
		p.markFailed(version, fmt.Sprintf("Failed to score transcript: %v", err))
		return fmt.Errorf("failed to score transcript: %w", err)
	}

	// Step 2: store it, once
	if err := p.attemptRepo.FillScore(version, report); err != nil {
		if errors.Is(err, repositories.ErrAlreadyScored) {
			log.Printf("⚠️  Attempt #%d was already scored", version)
			return nil
		}
		return fmt.Errorf("failed to save score: %w", err)
	}
	log.Printf("💯 Attempt #%d scored %.2f", version, report.FinalScore)

	// Step 3: suggestions. A failure here keeps the score.
	log.Println("🤖 Requesting suggestions...")
	suggestions, err := p.suggester.RequestSuggestions(ctx, report.CategoryScores())
	if err != nil {
		log.Printf("⚠️  Suggestions unavailable for attempt #%d: %v", version, err)
		suggestions = []rubric.Suggestion{}
	}

	if err := p.attemptRepo.SetSuggestions(version, suggestions); err != nil {
		log.Printf("⚠️  Failed to save suggestions for attempt #%d: %v", version, err)
		if len(suggestions) > 0 {
			if retryErr := p.attemptRepo.SetSuggestions(version, []rubric.Suggestion{}); retryErr == nil {
				log.Printf("✅ Attempt #%d completed without suggestions", version)
				return nil
			}
		}
		p.markFailed(version, fmt.Sprintf("Failed to save suggestions: %v", err))
		return fmt.Errorf("failed to save suggestions: %w", err)
	}

	log.Printf("✅ Attempt #%d completed with %d suggestions", version, len(suggestions))
	return nil
}

func (p *pipelineService) markFailed(version int, msg string) {
	if err := p.attemptRepo.UpdateError(version, msg); err != nil {
		log.Printf("⚠️  Failed to mark attempt #%d as failed: %v", version, err)
	}
}
