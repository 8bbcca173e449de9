package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"alfredoptarigan/vocalize/internal/apperrors"
)

// SpeechRecognizer is the part of the Cloud Speech client used here.
type SpeechRecognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
}

// SpeechSettings configures recognition and credentials. Credential fields
// are secrets and must never be logged.
type SpeechSettings struct {
	Encoding    string
	SampleRate  int
	Language    string
	ProjectID   string
	ClientEmail string
	PrivateKey  string
	APIKey      string
}

type speechTranscriber struct {
	recognizer SpeechRecognizer
	config     *speechpb.RecognitionConfig
}

// NewSpeechClient opens a Cloud Speech client. Explicit service-account
// fields win over an API key, which wins over application default credentials.
func NewSpeechClient(ctx context.Context, settings SpeechSettings) (*speech.Client, error) {
	var opts []option.ClientOption
	switch {
	case settings.ClientEmail != "" && settings.PrivateKey != "":
		creds, err := serviceAccountJSON(settings)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	case settings.APIKey != "":
		opts = append(opts, option.WithAPIKey(settings.APIKey))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return client, nil
}

func NewSpeechTranscriber(recognizer SpeechRecognizer, settings SpeechSettings) (Transcriber, error) {
	encoding, err := parseEncoding(settings.Encoding)
	if err != nil {
		return nil, err
	}
	if settings.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", settings.SampleRate)
	}

	return &speechTranscriber{
		recognizer: recognizer,
		config: &speechpb.RecognitionConfig{
			Encoding:        encoding,
			SampleRateHertz: int32(settings.SampleRate),
			LanguageCode:    settings.Language,
		},
	}, nil
}

// Transcribe implements Transcriber.
func (s *speechTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", apperrors.Errorf(apperrors.KindValidation, "transcribe", "audio is empty")
	}

	resp, err := s.recognizer.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: s.config,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", apperrors.E(apperrors.KindUpstreamTransport, "speech.recognize", err)
	}

	segments := make([]string, 0, len(resp.GetResults()))
	for _, result := range resp.GetResults() {
		alternatives := result.GetAlternatives()
		if len(alternatives) == 0 {
			segments = append(segments, "")
			continue
		}
		segments = append(segments, alternatives[0].GetTranscript())
	}

	return joinSegments(segments), nil
}

func parseEncoding(name string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	if name == "" {
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	}
	value, ok := speechpb.RecognitionConfig_AudioEncoding_value[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("unknown speech encoding %q", name)
	}
	return speechpb.RecognitionConfig_AudioEncoding(value), nil
}

func serviceAccountJSON(settings SpeechSettings) ([]byte, error) {
	creds := map[string]string{
		"type":         "service_account",
		"project_id":   settings.ProjectID,
		"client_email": settings.ClientEmail,
		// Keys pasted into env files carry escaped newlines.
		"private_key": strings.ReplaceAll(settings.PrivateKey, `\n`, "\n"),
		"token_uri":   "https://oauth2.googleapis.com/token",
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode service account credentials: %w", err)
	}
	return data, nil
}
