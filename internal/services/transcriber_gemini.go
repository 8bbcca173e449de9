package services

import (
	"context"
	"fmt"
	"strings"

	"alfredoptarigan/vocalize/internal/apperrors"
)

// AudioModel transcribes inline audio with an instruction prompt.
type AudioModel interface {
	TranscribeAudio(ctx context.Context, audio []byte, mimeType, instruction string) (string, error)
}

type geminiTranscriber struct {
	model         AudioModel
	mimeType      string
	language      string
	promptBuilder *PromptBuilder
}

func NewGeminiTranscriber(model AudioModel, language string) Transcriber {
	return &geminiTranscriber{
		model:         model,
		mimeType:      "audio/webm",
		language:      language,
		promptBuilder: NewPromptBuilder(),
	}
}

// Transcribe implements Transcriber.
func (g *geminiTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", apperrors.Errorf(apperrors.KindValidation, "transcribe", "audio is empty")
	}

	text, err := g.model.TranscribeAudio(ctx, audio, g.mimeType, g.promptBuilder.BuildTranscriptionPrompt(g.language))
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	var segments []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			segments = append(segments, line)
		}
	}
	return joinSegments(segments), nil
}
