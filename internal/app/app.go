// Package app wires repositories and services from configuration. It is shared
// by the HTTP server and the terminal client.
package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"gorm.io/gorm"

	"alfredoptarigan/vocalize/internal/config"
	"alfredoptarigan/vocalize/internal/repositories"
	"alfredoptarigan/vocalize/internal/services"
)

// App holds the wired components of one vocalize process.
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	Attempts    repositories.AttemptRepository
	ClipStore   services.ClipStore
	Transcriber services.Transcriber
	Scorer      services.AIScorer
	Suggester   services.SuggestionService
	Pipeline    services.PipelineService
	Worker      services.Worker
	Submitter   services.AttemptService

	closers []io.Closer
}

// New builds every component. The worker is created but not started.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db
	a.Attempts = repositories.NewAttemptRepository(db)
	log.Println("✅ Repositories initialized successfully")

	clipStore, err := newClipStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.ClipStore = clipStore

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini AI: %w", err)
	}
	log.Printf("✅ Gemini AI initialized (model %s)", cfg.Gemini.Model)

	if err := a.initTranscriber(ctx, geminiService); err != nil {
		return nil, err
	}

	a.Scorer = services.NewAIScorer(geminiService)
	a.Suggester = services.NewSuggestionService(geminiService)
	a.Pipeline = services.NewPipelineService(a.Attempts, a.Scorer, a.Suggester)
	a.Worker = services.NewWorker(a.Attempts, a.Pipeline, services.WorkerOptions{
		Concurrency:  cfg.Worker.Concurrency,
		QueueSize:    cfg.Worker.QueueSize,
		PollInterval: cfg.Worker.PollInterval,
	})
	a.Submitter = services.NewAttemptService(a.Attempts, a.ClipStore, a.Transcriber, a.Worker)
	log.Println("✅ Services initialized successfully")

	return a, nil
}

func newClipStore(ctx context.Context, cfg *config.Config) (services.ClipStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageS3:
		client, err := services.NewS3Client(ctx, services.S3Settings{
			Endpoint:     cfg.Storage.S3.Endpoint,
			Bucket:       cfg.Storage.S3.Bucket,
			AccessKey:    cfg.Storage.S3.AccessKey,
			SecretKey:    cfg.Storage.S3.SecretKey,
			Region:       cfg.Storage.S3.Region,
			UsePathStyle: cfg.Storage.S3.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		log.Printf("✅ Clip storage: s3 bucket %s", cfg.Storage.S3.Bucket)
		return services.NewS3ClipStore(client, cfg.Storage.S3.Bucket), nil
	default:
		store := services.NewLocalClipStore(cfg.Storage.UploadPath)
		if err := services.EnsureUploadDir(store); err != nil {
			return nil, err
		}
		log.Printf("✅ Clip storage: %s", cfg.Storage.UploadPath)
		return store, nil
	}
}

func (a *App) initTranscriber(ctx context.Context, geminiService services.GeminiService) error {
	cfg := a.Config
	if cfg.Speech.Backend == config.TranscriberGemini {
		a.Transcriber = services.NewGeminiTranscriber(geminiService, cfg.Speech.Language)
		log.Println("✅ Transcriber: gemini")
		return nil
	}

	settings := services.SpeechSettings{
		Encoding:    cfg.Speech.Encoding,
		SampleRate:  cfg.Speech.SampleRate,
		Language:    cfg.Speech.Language,
		ProjectID:   cfg.Speech.ProjectID,
		ClientEmail: cfg.Speech.ClientEmail,
		PrivateKey:  cfg.Speech.PrivateKey,
		APIKey:      cfg.Speech.APIKey,
	}
	client, err := services.NewSpeechClient(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to initialize speech client: %w", err)
	}
	a.closers = append(a.closers, client)

	transcriber, err := services.NewSpeechTranscriber(client, settings)
	if err != nil {
		return fmt.Errorf("failed to initialize speech transcriber: %w", err)
	}
	a.Transcriber = transcriber
	log.Printf("✅ Transcriber: google speech (%s, %d Hz, %s)", cfg.Speech.Encoding, cfg.Speech.SampleRate, cfg.Speech.Language)
	return nil
}

// Close stops the worker and releases clients and the database.
func (a *App) Close() {
	if a.Worker != nil {
		a.Worker.Stop()
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			log.Printf("⚠️  Failed to close client: %v", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️  Failed to close database: %v", err)
			}
		}
	}
}
