package media

import (
	"context"
	"strings"
	"testing"
)

func TestArgsRecordWebmOpus(t *testing.T) {
	f := NewFFmpegCapturer("pulse", "default")
	got := strings.Join(f.args(), " ")
	for _, want := range []string{"-f pulse", "-i default", "-ac 1", "-ar 48000", "-c:a libopus", "-f webm", "pipe:1"} {
		if !strings.Contains(got, want) {
			t.Fatalf("args missing %q: %s", want, got)
		}
	}
}

func TestStartMissingBinary(t *testing.T) {
	f := NewFFmpegCapturer("pulse", "default")
	f.Binary = "vocalize-no-such-ffmpeg"
	if _, err := f.Start(context.Background()); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
