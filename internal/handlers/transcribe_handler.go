package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/vocalize/internal/models"
	"alfredoptarigan/vocalize/internal/services"
)

type TranscribeHandler struct {
	transcriber services.Transcriber
	maxClipSize int64
}

func NewTranscribeHandler(transcriber services.Transcriber, maxClipSize int64) *TranscribeHandler {
	return &TranscribeHandler{
		transcriber: transcriber,
		maxClipSize: maxClipSize,
	}
}

// HandleTranscribe handles POST /transcribe with a base64 data URL.
func (h *TranscribeHandler) HandleTranscribe(c *fiber.Ctx) error {
	var req models.TranscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request payload")
	}

	audio, err := decodeClip(req.Audio, h.maxClipSize)
	if err != nil {
		return err
	}

	transcription, err := h.transcriber.Transcribe(c.UserContext(), audio)
	if err != nil {
		return err
	}

	return c.JSON(models.TranscribeResponse{Transcription: transcription})
}

func decodeClip(dataURL string, maxClipSize int64) ([]byte, error) {
	audio, err := services.DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	if maxClipSize > 0 && int64(len(audio)) > maxClipSize {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "Audio clip too large")
	}
	return audio, nil
}
