package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"alfredoptarigan/vocalize/internal/apperrors"
	"alfredoptarigan/vocalize/internal/models"
)

type fakeCapture struct {
	data []byte
	err  error
}

func (f *fakeCapture) Stop() ([]byte, error) {
	return f.data, f.err
}

type fakeCapturer struct {
	mu     sync.Mutex
	starts int
	err    error
}

func (f *fakeCapturer) Start(context.Context) (Capture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.err != nil {
		return nil, f.err
	}
	return &fakeCapture{data: []byte("opus")}, nil
}

func (f *fakeCapturer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

// gatedSubmitter blocks each Submit until release is closed.
type gatedSubmitter struct {
	release  chan struct{}
	err      error
	received chan []byte
}

func newGatedSubmitter() *gatedSubmitter {
	return &gatedSubmitter{release: make(chan struct{}), received: make(chan []byte, 4)}
}

func (g *gatedSubmitter) Submit(_ context.Context, audio []byte) (*models.Attempt, error) {
	g.received <- audio
	<-g.release
	if g.err != nil {
		return nil, g.err
	}
	return &models.Attempt{Version: 1}, nil
}

func waitForState(t *testing.T, c *Controller, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state never became %s, still %s", want, c.State())
}

func TestStartIsNoOpWhileBusy(t *testing.T) {
	capturer := &fakeCapturer{}
	submitter := newGatedSubmitter()
	c := NewController(capturer, submitter, Options{})
	ctx := context.Background()

	started, err := c.Start(ctx)
	if err != nil || !started {
		t.Fatalf("expected start, got %v %v", started, err)
	}

	// Recording
	started, err = c.Start(ctx)
	if err != nil || started {
		t.Fatalf("expected no-op while recording, got %v %v", started, err)
	}
	if capturer.count() != 1 {
		t.Fatalf("expected one capture session, got %d", capturer.count())
	}

	if !c.Stop() {
		t.Fatal("expected stop to succeed")
	}
	<-submitter.received

	// Transcribing
	if c.State() != Transcribing {
		t.Fatalf("expected transcribing, got %s", c.State())
	}
	started, err = c.Start(ctx)
	if err != nil || started {
		t.Fatalf("expected no-op while transcribing, got %v %v", started, err)
	}
	if capturer.count() != 1 {
		t.Fatalf("expected one capture session, got %d", capturer.count())
	}

	close(submitter.release)
	c.Wait()
	if c.State() != Ready {
		t.Fatalf("expected ready, got %s", c.State())
	}
}

func TestStopWithoutRecording(t *testing.T) {
	c := NewController(&fakeCapturer{}, newGatedSubmitter(), Options{})
	if c.Stop() {
		t.Fatal("expected stop to be a no-op when ready")
	}
}

func TestCaptureFailureStaysReady(t *testing.T) {
	capturer := &fakeCapturer{err: errors.New("no input device")}
	c := NewController(capturer, newGatedSubmitter(), Options{})

	started, err := c.Start(context.Background())
	if started {
		t.Fatal("expected start to fail")
	}
	if !errors.Is(err, ErrCaptureFailed) {
		t.Fatalf("expected ErrCaptureFailed, got %v", err)
	}
	if !apperrors.Is(err, apperrors.KindCaptureFailed) {
		t.Fatalf("expected capture failed kind, got %v", err)
	}
	if c.State() != Ready {
		t.Fatalf("expected ready, got %s", c.State())
	}

	ev := <-c.Events()
	if ev.Type != EventCaptureFailed {
		t.Fatalf("expected capture failed event, got %+v", ev)
	}
}

func TestTimeLimitStopsRecording(t *testing.T) {
	submitter := newGatedSubmitter()
	close(submitter.release)
	c := NewController(&fakeCapturer{}, submitter, Options{TimeLimit: 20 * time.Millisecond})

	if _, err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case audio := <-submitter.received:
		if string(audio) != "opus" {
			t.Fatalf("unexpected audio %q", audio)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("time limit never stopped the recording")
	}
	waitForState(t, c, Ready)
}

func TestSubmitFailureReturnsToReady(t *testing.T) {
	submitter := newGatedSubmitter()
	submitter.err = errors.New("transcription failed")
	close(submitter.release)
	c := NewController(&fakeCapturer{}, submitter, Options{})

	if _, err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Stop()
	c.Wait()

	if c.State() != Ready {
		t.Fatalf("expected ready, got %s", c.State())
	}

	var types []EventType
	for len(c.Events()) > 0 {
		types = append(types, (<-c.Events()).Type)
	}
	want := []EventType{EventStateChanged, EventStateChanged, EventAttemptFailed, EventStateChanged}
	if len(types) != len(want) {
		t.Fatalf("unexpected events %v", types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("unexpected events %v", types)
		}
	}

	// A new recording can begin.
	started, err := c.Start(context.Background())
	if err != nil || !started {
		t.Fatalf("expected restart, got %v %v", started, err)
	}
}
