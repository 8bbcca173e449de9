package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrClipNotFound = errors.New("clip not found")

// ClipStore keeps recorded audio keyed by attempt, e.g. "audio_v3".
type ClipStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Location(key string) string
}

type localClipStore struct {
	uploadPath string
}

func NewLocalClipStore(uploadPath string) ClipStore {
	return &localClipStore{
		uploadPath: uploadPath,
	}
}

// EnsureUploadDir creates the clip directory of a local store. Other stores
// are left alone.
func EnsureUploadDir(store ClipStore) error {
	local, ok := store.(*localClipStore)
	if !ok {
		return nil
	}
	if err := os.MkdirAll(local.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

func (s *localClipStore) Save(_ context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	// Write to a temp file first so readers never see a partial clip.
	tmp, err := os.CreateTemp(s.uploadPath, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save clip: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save clip: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save clip: %w", err)
	}

	return nil
}

func (s *localClipStore) Load(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrClipNotFound
		}
		return nil, fmt.Errorf("failed to read clip: %w", err)
	}
	return data, nil
}

func (s *localClipStore) Location(key string) string {
	return filepath.Join(s.uploadPath, key+".webm")
}

func (s *localClipStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid clip key %q", key)
	}
	return s.Location(key), nil
}
