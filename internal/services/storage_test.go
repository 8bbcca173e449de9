package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestLocalClipStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "clips")
	store := NewLocalClipStore(dir)
	if err := EnsureUploadDir(store); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}

	ctx := context.Background()
	if err := store.Save(ctx, "audio_v1", []byte("opus")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "audio_v1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "opus" {
		t.Fatalf("unexpected clip %q", got)
	}
	if store.Location("audio_v1") != filepath.Join(dir, "audio_v1.webm") {
		t.Fatalf("unexpected location %q", store.Location("audio_v1"))
	}

	if _, err := store.Load(ctx, "audio_v2"); !errors.Is(err, ErrClipNotFound) {
		t.Fatalf("expected ErrClipNotFound, got %v", err)
	}
	if err := store.Save(ctx, "../escape", []byte("x")); err == nil {
		t.Fatal("expected error for path traversal key")
	}
}

type fakeObjectAPI struct {
	objects map[string][]byte
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3ClipStore(t *testing.T) {
	api := &fakeObjectAPI{objects: map[string][]byte{}}
	store := NewS3ClipStore(api, "speeches")
	ctx := context.Background()

	if err := store.Save(ctx, "audio_v3", []byte("opus")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := api.objects["speeches/clips/audio_v3.webm"]; !ok {
		t.Fatalf("unexpected object keys: %v", api.objects)
	}
	got, err := store.Load(ctx, "audio_v3")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "opus" {
		t.Fatalf("unexpected clip %q", got)
	}
	if _, err := store.Load(ctx, "audio_v4"); !errors.Is(err, ErrClipNotFound) {
		t.Fatalf("expected ErrClipNotFound, got %v", err)
	}
	if store.Location("audio_v3") != "s3://speeches/clips/audio_v3.webm" {
		t.Fatalf("unexpected location %q", store.Location("audio_v3"))
	}
}
