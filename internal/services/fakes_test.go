package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"gorm.io/gorm"

	"alfredoptarigan/vocalize/internal/config"
	"alfredoptarigan/vocalize/internal/repositories"
)

// fakeGenerator returns canned responses in order, repeating the last one.
type fakeGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
	opts      []GenerateOptions
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string, opts GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

type fakeRecognizer struct {
	resp *speechpb.RecognizeResponse
	err  error
	reqs []*speechpb.RecognizeRequest
}

func (f *fakeRecognizer) Recognize(_ context.Context, req *speechpb.RecognizeRequest, _ ...gax.CallOption) (*speechpb.RecognizeResponse, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeAudioModel struct {
	text     string
	err      error
	mimeType string
}

func (f *fakeAudioModel) TranscribeAudio(_ context.Context, _ []byte, mimeType, _ string) (string, error) {
	f.mimeType = mimeType
	return f.text, f.err
}

type recordingQueue struct {
	mu       sync.Mutex
	versions []int
}

func (q *recordingQueue) EnqueueJob(version int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.versions = append(q.versions, version)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		Server:   config.ServerConfig{Env: "test"},
		Database: config.DatabaseConfig{DSN: fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)},
	}
	db, err := config.InitDatabase(cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestRepo(t *testing.T) repositories.AttemptRepository {
	t.Helper()
	return repositories.NewAttemptRepository(openTestDB(t))
}
