package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/vocalize/internal/models"
	"alfredoptarigan/vocalize/internal/repositories"
	"alfredoptarigan/vocalize/internal/services"
)

type AttemptHandler struct {
	attemptRepo    repositories.AttemptRepository
	attemptService services.AttemptService
	clipStore      services.ClipStore
	maxClipSize    int64
}

func NewAttemptHandler(
	attemptRepo repositories.AttemptRepository,
	attemptService services.AttemptService,
	clipStore services.ClipStore,
	maxClipSize int64,
) *AttemptHandler {
	return &AttemptHandler{
		attemptRepo:    attemptRepo,
		attemptService: attemptService,
		clipStore:      clipStore,
		maxClipSize:    maxClipSize,
	}
}

// HandleSubmit handles POST /attempts. Scoring continues in the background.
func (h *AttemptHandler) HandleSubmit(c *fiber.Ctx) error {
	var req models.SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request payload")
	}

	audio, err := decodeClip(req.Audio, h.maxClipSize)
	if err != nil {
		return err
	}

	attempt, err := h.attemptService.Submit(c.UserContext(), audio)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(models.NewAttemptResponse(attempt))
}

// HandleList handles GET /attempts.
func (h *AttemptHandler) HandleList(c *fiber.Ctx) error {
	attempts, err := h.attemptRepo.List()
	if err != nil {
		return err
	}

	response := make([]models.AttemptResponse, 0, len(attempts))
	for i := range attempts {
		response = append(response, models.NewAttemptResponse(&attempts[i]))
	}

	return c.JSON(fiber.Map{"attempts": response})
}

// HandleGet handles GET /attempts/:version.
func (h *AttemptHandler) HandleGet(c *fiber.Ctx) error {
	attempt, err := h.findAttempt(c)
	if err != nil {
		return err
	}
	return c.JSON(models.NewAttemptResponse(attempt))
}

// HandleAudio handles GET /attempts/:version/audio.
func (h *AttemptHandler) HandleAudio(c *fiber.Ctx) error {
	attempt, err := h.findAttempt(c)
	if err != nil {
		return err
	}

	data, err := h.clipStore.Load(c.UserContext(), attempt.AudioKey)
	if err != nil {
		if errors.Is(err, services.ErrClipNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Audio not found")
		}
		return err
	}

	c.Set(fiber.HeaderContentType, "audio/webm")
	return c.Send(data)
}

func (h *AttemptHandler) findAttempt(c *fiber.Ctx) (*models.Attempt, error) {
	version, err := strconv.Atoi(c.Params("version"))
	if err != nil || version < 1 {
		return nil, badRequest("Invalid attempt version")
	}

	attempt, err := h.attemptRepo.FindByVersion(version)
	if err != nil {
		if errors.Is(err, repositories.ErrAttemptNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Attempt not found")
		}
		return nil, err
	}
	return attempt, nil
}
