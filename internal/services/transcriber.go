package services

import (
	"context"
	"strings"
)

// NoTranscription is returned in place of a transcript when the recognizer
// heard nothing. It is not an error.
const NoTranscription = "No transcription available"

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// joinSegments joins recognized segments with newlines, falling back to
// NoTranscription when nothing was recognized.
func joinSegments(segments []string) string {
	text := strings.Join(segments, "\n")
	if strings.TrimSpace(text) == "" {
		return NoTranscription
	}
	return text
}
