package handlers

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

var validate = validator.New()

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is returned by operations without a payload
type MessageResponse struct {
	Message string `json:"message"`
}

func respondError(c *fiber.Ctx, err error) error {
	status := ierr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		utils.LogError("request failed", err, map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		})
	}
	return c.Status(status).JSON(ErrorResponse{Error: ierr.UserMessage(err)})
}

// parseBody decodes and validates a JSON request body
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid request body.").
			Mark(ierr.ErrValidation)
	}
	if err := validate.Struct(out); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ierr.WithError(err).Mark(ierr.ErrValidation)
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return ierr.WithError(err).
		WithHintf("Invalid fields: %s.", strings.Join(fields, ", ")).
		Mark(ierr.ErrValidation)
}
