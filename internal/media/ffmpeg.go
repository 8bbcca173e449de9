// Package media records microphone audio with ffmpeg.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"alfredoptarigan/vocalize/internal/session"
)

// FFmpegCapturer records mono Opus in a WebM container, matching what the
// transcription backends expect.
type FFmpegCapturer struct {
	Binary     string
	Format     string
	Device     string
	SampleRate int
	// StartupGrace is how long Start waits for ffmpeg to fail on a bad device.
	StartupGrace time.Duration
}

func NewFFmpegCapturer(format, device string) *FFmpegCapturer {
	return &FFmpegCapturer{
		Binary:       "ffmpeg",
		Format:       format,
		Device:       device,
		SampleRate:   48000,
		StartupGrace: 300 * time.Millisecond,
	}
}

func (f *FFmpegCapturer) args() []string {
	// ffmpeg -f <fmt> -i <device> -ac 1 -ar 48000 -c:a libopus -f webm pipe:1
	return []string{
		"-hide_banner", "-loglevel", "error", "-nostats",
		"-f", f.Format,
		"-i", f.Device,
		"-ac", "1",
		"-ar", strconv.Itoa(f.SampleRate),
		"-c:a", "libopus",
		"-f", "webm",
		"pipe:1",
	}
}

// Start implements session.Capturer.
func (f *FFmpegCapturer) Start(ctx context.Context) (session.Capture, error) {
	binary, err := exec.LookPath(f.Binary)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	// The recording outlives the caller's request; Stop ends it.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	cmd := exec.CommandContext(runCtx, binary, f.args()...)

	rec := &recording{cancel: cancel, done: make(chan struct{})}
	cmd.Stdout = &rec.stdout
	cmd.Stderr = &rec.stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	rec.stdin = stdin

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}

	go func() {
		rec.waitErr = cmd.Wait()
		close(rec.done)
	}()

	select {
	case <-rec.done:
		cancel()
		return nil, fmt.Errorf("ffmpeg exited early: %s", rec.stderrText(rec.waitErr))
	case <-time.After(f.StartupGrace):
	}

	return rec, nil
}

type recording struct {
	stdin   io.WriteCloser
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	cancel  context.CancelFunc
	done    chan struct{}
	waitErr error
	once    sync.Once
}

// Stop asks ffmpeg to finish the file and returns the clip.
func (r *recording) Stop() ([]byte, error) {
	r.once.Do(func() {
		// "q" on stdin makes ffmpeg flush and close the container.
		_, _ = io.WriteString(r.stdin, "q")
		_ = r.stdin.Close()
	})

	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		r.cancel()
		<-r.done
	}
	r.cancel()

	data := r.stdout.Bytes()
	if len(data) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no audio: %s", r.stderrText(r.waitErr))
	}
	return data, nil
}

func (r *recording) stderrText(err error) string {
	msg := strings.TrimSpace(r.stderr.String())
	if msg == "" && err != nil {
		return err.Error()
	}
	if msg == "" {
		return "no output"
	}
	return msg
}
