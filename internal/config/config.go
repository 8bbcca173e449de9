package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	TranscriberSpeech = "speech"
	TranscriberGemini = "gemini"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	Speech   SpeechConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Capture  CaptureConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	DSN string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// SpeechConfig selects and configures the transcription backend.
type SpeechConfig struct {
	Backend     string
	ProjectID   string
	ClientEmail string
	PrivateKey  string
	APIKey      string
	Encoding    string
	SampleRate  int
	Language    string
}

type StorageConfig struct {
	Driver      string
	UploadPath  string
	MaxClipSize int64
	S3          S3Config
}

type S3Config struct {
	Endpoint     string
	Bucket       string
	AccessKey    string
	SecretKey    string
	Region       string
	UsePathStyle bool
}

type WorkerConfig struct {
	Concurrency  int
	QueueSize    int
	PollInterval time.Duration
}

type CaptureConfig struct {
	TimeLimit time.Duration
	Format    string
	Device    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_DSN", "file::memory:?cache=shared"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Speech: SpeechConfig{
			Backend:     strings.ToLower(getEnv("TRANSCRIBER", TranscriberSpeech)),
			ProjectID:   getEnv("GOOGLE_PROJECT_ID", ""),
			ClientEmail: getEnv("GOOGLE_CLIENT_EMAIL", ""),
			PrivateKey:  getEnv("GOOGLE_PRIVATE_KEY", ""),
			APIKey:      getEnv("GOOGLE_SPEECH_API_KEY", ""),
			Encoding:    getEnv("SPEECH_ENCODING", "WEBM_OPUS"),
			SampleRate:  getEnvAsInt("SPEECH_SAMPLE_RATE", 48000),
			Language:    getEnv("SPEECH_LANGUAGE", "en-US"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageLocal)),
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxClipSize: getEnvAsInt64("MAX_CLIP_SIZE", 10485760),
			S3: S3Config{
				Endpoint:     getEnv("S3_ENDPOINT", ""),
				Bucket:       getEnv("S3_BUCKET", ""),
				AccessKey:    getEnv("S3_ACCESS_KEY", ""),
				SecretKey:    getEnv("S3_SECRET_KEY", ""),
				Region:       getEnv("S3_REGION", "us-east-1"),
				UsePathStyle: getEnvAsBool("S3_USE_PATH_STYLE", true),
			},
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 2),
			QueueSize:    getEnvAsInt("WORKER_QUEUE_SIZE", 100),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
		},
		Capture: CaptureConfig{
			TimeLimit: getEnvAsDuration("CAPTURE_TIME_LIMIT", "30s"),
			Format:    getEnv("CAPTURE_FORMAT", defaultCaptureFormat()),
			Device:    getEnv("CAPTURE_DEVICE", defaultCaptureDevice()),
		},
	}
}

// Validate reports the first setting that would make the service unusable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return errors.New("GEMINI_API_KEY is required")
	}
	switch c.Speech.Backend {
	case TranscriberSpeech, TranscriberGemini:
	default:
		return fmt.Errorf("TRANSCRIBER must be %q or %q, got %q", TranscriberSpeech, TranscriberGemini, c.Speech.Backend)
	}
	if c.Speech.SampleRate <= 0 {
		return fmt.Errorf("SPEECH_SAMPLE_RATE must be positive, got %d", c.Speech.SampleRate)
	}
	switch c.Storage.Driver {
	case StorageLocal:
		if c.Storage.UploadPath == "" {
			return errors.New("UPLOAD_PATH is required for local storage")
		}
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("S3_BUCKET is required for s3 storage")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageLocal, StorageS3, c.Storage.Driver)
	}
	if c.Storage.MaxClipSize <= 0 {
		return fmt.Errorf("MAX_CLIP_SIZE must be positive, got %d", c.Storage.MaxClipSize)
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1, got %d", c.Worker.Concurrency)
	}
	if c.Worker.QueueSize < 1 {
		return fmt.Errorf("WORKER_QUEUE_SIZE must be at least 1, got %d", c.Worker.QueueSize)
	}
	if c.Capture.TimeLimit < 0 {
		return fmt.Errorf("CAPTURE_TIME_LIMIT must not be negative, got %s", c.Capture.TimeLimit)
	}
	return nil
}

// HasServiceAccount reports whether explicit Google credentials were provided.
func (s SpeechConfig) HasServiceAccount() bool {
	return s.ClientEmail != "" && s.PrivateKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
