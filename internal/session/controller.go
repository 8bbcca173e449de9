// Package session drives one microphone recording at a time through
// Ready, Recording and Transcribing.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"alfredoptarigan/vocalize/internal/apperrors"
	"alfredoptarigan/vocalize/internal/models"
)

// ErrCaptureFailed means the microphone could not be opened or read.
var ErrCaptureFailed = errors.New("could not record")

type State int

const (
	Ready State = iota
	Recording
	Transcribing
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Recording:
		return "recording"
	case Transcribing:
		return "transcribing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Capturer opens the microphone.
type Capturer interface {
	Start(ctx context.Context) (Capture, error)
}

// Capture is a running recording. Stop ends it and returns the encoded clip.
type Capture interface {
	Stop() ([]byte, error)
}

// AttemptSubmitter receives finished clips.
type AttemptSubmitter interface {
	Submit(ctx context.Context, audio []byte) (*models.Attempt, error)
}

type EventType int

const (
	EventStateChanged EventType = iota
	EventCaptureFailed
	EventAttemptRecorded
	EventAttemptFailed
)

// Event reports a state change or the outcome of one recording.
type Event struct {
	Type    EventType
	State   State
	Attempt *models.Attempt
	Err     error
}

type Options struct {
	// TimeLimit stops a recording automatically. Zero disables it.
	TimeLimit time.Duration
}

type Controller struct {
	capturer  Capturer
	submitter AttemptSubmitter
	timeLimit time.Duration

	mu        sync.Mutex
	state     State
	capture   Capture
	timer     *time.Timer
	startedAt time.Time
	ctx       context.Context

	events chan Event
	wg     sync.WaitGroup
}

func NewController(capturer Capturer, submitter AttemptSubmitter, opts Options) *Controller {
	return &Controller{
		capturer:  capturer,
		submitter: submitter,
		timeLimit: opts.TimeLimit,
		state:     Ready,
		events:    make(chan Event, 64),
	}
}

// Events delivers state changes and per-recording outcomes.
func (c *Controller) Events() <-chan Event {
	return c.events
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) TimeLimit() time.Duration {
	return c.timeLimit
}

// Elapsed is the running time of the current recording, or zero.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Recording {
		return 0
	}
	return time.Since(c.startedAt)
}

// Start opens a capture when Ready. In any other state it does nothing and
// returns false. A capture failure leaves the controller Ready.
func (c *Controller) Start(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.state != Ready {
		c.mu.Unlock()
		return false, nil
	}

	capture, err := c.capturer.Start(ctx)
	if err != nil {
		c.mu.Unlock()
		wrapped := apperrors.E(apperrors.KindCaptureFailed, "start capture", fmt.Errorf("%w: %w", ErrCaptureFailed, err))
		c.emit(Event{Type: EventCaptureFailed, State: Ready, Err: wrapped})
		return false, wrapped
	}

	c.capture = capture
	c.state = Recording
	c.startedAt = time.Now()
	c.ctx = ctx
	if c.timeLimit > 0 {
		c.timer = time.AfterFunc(c.timeLimit, func() {
			if c.Stop() {
				log.Printf("⏱️  Time limit of %s reached, recording stopped", c.timeLimit)
			}
		})
	}
	c.mu.Unlock()

	c.emit(Event{Type: EventStateChanged, State: Recording})
	return true, nil
}

// Stop ends the current recording and hands the clip to the submitter in
// the background. It returns false when nothing was recording.
func (c *Controller) Stop() bool {
	c.mu.Lock()
	if c.state != Recording {
		c.mu.Unlock()
		return false
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	capture := c.capture
	ctx := c.ctx
	c.capture = nil
	c.state = Transcribing
	c.wg.Add(1)
	c.mu.Unlock()

	c.emit(Event{Type: EventStateChanged, State: Transcribing})
	go c.finish(ctx, capture)
	return true
}

// Wait blocks until in-flight submissions settle.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) finish(ctx context.Context, capture Capture) {
	defer c.wg.Done()

	audio, err := capture.Stop()
	if err != nil {
		err = apperrors.E(apperrors.KindCaptureFailed, "stop capture", fmt.Errorf("%w: %w", ErrCaptureFailed, err))
		c.emit(Event{Type: EventAttemptFailed, State: Transcribing, Err: err})
	} else {
		attempt, err := c.submitter.Submit(ctx, audio)
		if err != nil {
			c.emit(Event{Type: EventAttemptFailed, State: Transcribing, Attempt: attempt, Err: err})
		} else {
			c.emit(Event{Type: EventAttemptRecorded, State: Transcribing, Attempt: attempt})
		}
	}

	c.mu.Lock()
	c.state = Ready
	c.mu.Unlock()
	c.emit(Event{Type: EventStateChanged, State: Ready})
}

func (c *Controller) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		log.Printf("⚠️  Session event dropped: type=%d state=%s", ev.Type, ev.State)
	}
}
