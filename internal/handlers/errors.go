package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/vocalize/internal/apperrors"
)

// ErrorHandler renders every failure as {"error": message, "code": status}.
// Caller mistakes keep their message; upstream failures get a generic one.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	case apperrors.KindOf(err) != apperrors.KindUnknown:
		code = apperrors.Status(err)
		message = publicMessage(err)
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

func publicMessage(err error) string {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindNotFound:
		var ae *apperrors.Error
		if errors.As(err, &ae) {
			return ae.Err.Error()
		}
		return err.Error()
	case apperrors.KindUpstreamFormat:
		return "Invalid response from AI"
	case apperrors.KindUpstreamTransport:
		return "Upstream service request failed"
	case apperrors.KindCaptureFailed:
		return "Could not record"
	}
	return "Internal server error"
}

func badRequest(message string) error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}
