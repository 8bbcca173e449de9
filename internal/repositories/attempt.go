package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/vocalize/internal/models"
	"alfredoptarigan/vocalize/internal/rubric"
)

var (
	ErrAttemptNotFound = errors.New("attempt not found")
	ErrAlreadyScored   = errors.New("attempt already scored")
)

// AttemptRepository is the append-only attempt history. There is no delete
// and no general update: each mutation targets one pipeline stage.
type AttemptRepository interface {
	Append(attempt *models.Attempt) error
	FindByVersion(version int) (*models.Attempt, error)
	List() ([]models.Attempt, error)
	ClaimQueued(version int) (bool, error)
	FillScore(version int, report *rubric.ScoreReport) error
	SetSuggestions(version int, suggestions []rubric.Suggestion) error
	UpdateError(version int, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Attempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

// Append assigns the next dense version and the matching audio key, then
// inserts the attempt.
func (r *attemptRepository) Append(attempt *models.Attempt) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var last int
		if err := tx.Model(&models.Attempt{}).
			Select("COALESCE(MAX(version), 0)").
			Scan(&last).Error; err != nil {
			return fmt.Errorf("failed to read last version: %w", err)
		}

		now := time.Now()
		attempt.Version = last + 1
		attempt.AudioKey = models.AudioKeyFor(attempt.Version)
		if attempt.ID == uuid.Nil {
			attempt.ID = uuid.New()
		}
		if attempt.Status == "" {
			attempt.Status = models.StatusQueued
		}
		attempt.CreatedAt = now
		attempt.UpdatedAt = now

		return tx.Create(attempt).Error
	})
	if err != nil {
		return fmt.Errorf("failed to append attempt: %w", err)
	}
	return nil
}

func (r *attemptRepository) FindByVersion(version int) (*models.Attempt, error) {
	var attempt models.Attempt
	if err := r.db.Where("version = ?", version).First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to find attempt: %w", err)
	}
	return &attempt, nil
}

func (r *attemptRepository) List() ([]models.Attempt, error) {
	var attempts []models.Attempt
	if err := r.db.Order("version ASC").Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

// ClaimQueued moves a queued attempt to processing. It returns false when the
// attempt was already claimed or is not queued.
func (r *attemptRepository) ClaimQueued(version int) (bool, error) {
	result := r.db.Model(&models.Attempt{}).
		Where("version = ? AND status = ?", version, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim attempt: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// FillScore stores the score report. It succeeds only once per attempt.
func (r *attemptRepository) FillScore(version int, report *rubric.ScoreReport) error {
	if report == nil {
		return fmt.Errorf("failed to fill score: report is nil")
	}

	now := time.Now()
	result := r.db.Model(&models.Attempt{}).
		Where("version = ? AND scored_at IS NULL", version).
		Select("score_report", "scored_at", "updated_at").
		Updates(&models.Attempt{
			ScoreReport: report,
			ScoredAt:    &now,
			UpdatedAt:   now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to fill score: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		if _, err := r.FindByVersion(version); err != nil {
			return err
		}
		return ErrAlreadyScored
	}

	return nil
}

// SetSuggestions stores the suggestions and completes the attempt.
func (r *attemptRepository) SetSuggestions(version int, suggestions []rubric.Suggestion) error {
	if suggestions == nil {
		suggestions = []rubric.Suggestion{}
	}
	for i, s := range suggestions {
		if !s.Category.Valid() {
			return fmt.Errorf("failed to set suggestions: suggestion %d has invalid category %d", i+1, int(s.Category))
		}
	}

	result := r.db.Model(&models.Attempt{}).
		Where("version = ? AND scored_at IS NOT NULL", version).
		Select("suggestions", "status", "updated_at").
		Updates(&models.Attempt{
			Suggestions: suggestions,
			Status:      models.StatusCompleted,
			UpdatedAt:   time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to set suggestions: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		if _, err := r.FindByVersion(version); err != nil {
			return err
		}
		return fmt.Errorf("failed to set suggestions: attempt %d has no score", version)
	}

	return nil
}

func (r *attemptRepository) UpdateError(version int, errorMsg string) error {
	result := r.db.Model(&models.Attempt{}).
		Where("version = ?", version).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrAttemptNotFound
	}

	return nil
}

func (r *attemptRepository) FindPendingJobs(limit int) ([]models.Attempt, error) {
	var attempts []models.Attempt
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("version ASC").
		Limit(limit).
		Find(&attempts).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return attempts, nil
}
