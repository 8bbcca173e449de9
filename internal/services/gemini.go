package services

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"

	"alfredoptarigan/vocalize/internal/apperrors"
)

// GenerateOptions tunes a single text generation call.
type GenerateOptions struct {
	Temperature     float32
	MaxOutputTokens int32
}

type GeminiService interface {
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	TranscribeAudio(ctx context.Context, audio []byte, mimeType, instruction string) (string, error)
}

type geminiService struct {
	client    *genai.Client
	modelName string
}

func NewGeminiService(ctx context.Context, apiKey, modelName string) (GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &geminiService{
		client:    client,
		modelName: modelName,
	}, nil
}

// GenerateText implements GeminiService. Calls are made once; there is no retry.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	temperature := opts.Temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = opts.MaxOutputTokens
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v", err)
		return "", apperrors.E(apperrors.KindUpstreamTransport, "gemini.generate", err)
	}

	return responseText(resp)
}

// TranscribeAudio implements GeminiService.
func (g *geminiService) TranscribeAudio(ctx context.Context, audio []byte, mimeType, instruction string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(instruction),
			genai.NewPartFromBytes(audio, mimeType),
		}, genai.RoleUser),
	}

	temperature := float32(0)
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		log.Printf("❌ Gemini transcription error: %v", err)
		return "", apperrors.E(apperrors.KindUpstreamTransport, "gemini.transcribe", err)
	}

	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", apperrors.Errorf(apperrors.KindUpstreamFormat, "gemini", "no response generated (nil response)")
	}

	// An empty text is returned as is; callers decide whether that is an error.
	return resp.Text(), nil
}
