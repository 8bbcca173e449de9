package services

import (
	"context"
	"fmt"
	"log"

	"alfredoptarigan/vocalize/internal/apperrors"
	"alfredoptarigan/vocalize/internal/models"
	"alfredoptarigan/vocalize/internal/repositories"
)

// JobQueue accepts attempt versions for background scoring.
type JobQueue interface {
	EnqueueJob(version int)
}

// AttemptService turns a finished recording into an entry of the history.
type AttemptService interface {
	Submit(ctx context.Context, audio []byte) (*models.Attempt, error)
}

type attemptService struct {
	attemptRepo repositories.AttemptRepository
	clipStore   ClipStore
	transcriber Transcriber
	queue       JobQueue
}

func NewAttemptService(
	attemptRepo repositories.AttemptRepository,
	clipStore ClipStore,
	transcriber Transcriber,
	queue JobQueue,
) AttemptService {
	return &attemptService{
		attemptRepo: attemptRepo,
		clipStore:   clipStore,
		transcriber: transcriber,
		queue:       queue,
	}
}

// Submit transcribes the clip, appends an attempt, stores the clip under the
// attempt's audio key and queues scoring. A failed transcription still
// appends the attempt, marked failed and without a transcript, and the
// transcription error is returned.
func (s *attemptService) Submit(ctx context.Context, audio []byte) (*models.Attempt, error) {
	if len(audio) == 0 {
		return nil, apperrors.Errorf(apperrors.KindValidation, "submit attempt", "audio is required")
	}

	log.Printf("🎙️  Transcribing clip (%d bytes)...", len(audio))
	transcript, transcribeErr := s.transcriber.Transcribe(ctx, audio)

	attempt := &models.Attempt{}
	if transcribeErr != nil {
		msg := fmt.Sprintf("transcription failed: %v", transcribeErr)
		attempt.Status = models.StatusFailed
		attempt.ErrorMessage = &msg
	} else {
		attempt.Transcript = &transcript
	}

	if err := s.attemptRepo.Append(attempt); err != nil {
		return nil, err
	}

	if err := s.clipStore.Save(ctx, attempt.AudioKey, audio); err != nil {
		log.Printf("❌ Failed to store clip for attempt #%d: %v", attempt.Version, err)
		if transcribeErr == nil {
			msg := fmt.Sprintf("failed to store clip: %v", err)
			if updateErr := s.attemptRepo.UpdateError(attempt.Version, msg); updateErr != nil {
				log.Printf("⚠️  Failed to mark attempt #%d as failed: %v", attempt.Version, updateErr)
			}
			attempt.Status = models.StatusFailed
			attempt.ErrorMessage = &msg
		}
		return attempt, fmt.Errorf("failed to store clip: %w", err)
	}

	if transcribeErr != nil {
		log.Printf("❌ Transcription failed for attempt #%d: %v", attempt.Version, transcribeErr)
		return attempt, fmt.Errorf("failed to transcribe clip: %w", transcribeErr)
	}

	log.Printf("✅ Attempt #%d recorded", attempt.Version)
	s.queue.EnqueueJob(attempt.Version)

	return attempt, nil
}
