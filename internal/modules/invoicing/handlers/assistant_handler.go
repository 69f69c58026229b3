package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/assistant"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

type AssistantHandler struct {
	session *assistant.Session
}

func NewAssistantHandler(session *assistant.Session) *AssistantHandler {
	return &AssistantHandler{session: session}
}

// AssistantRequest is one user utterance
type AssistantRequest struct {
	Message string         `json:"message" validate:"required,max=4000"`
	Mode    assistant.Mode `json:"mode" validate:"omitempty,oneof=chat voice"`
}

// AssistantResponse is the applied outcome plus the updated transcript
type AssistantResponse struct {
	Outcome    assistant.Outcome       `json:"outcome"`
	Transcript []assistant.ChatMessage `json:"transcript"`
}

// SendMessage godoc
// @Summary Send a command to the assistant
// @Description Asks the configured model, applies the returned action and replies
// @Tags Assistant
// @Accept json
// @Produce json
// @Param message body AssistantRequest true "User message"
// @Success 200 {object} AssistantResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /assistant/messages [post]
func (h *AssistantHandler) SendMessage(c *fiber.Ctx) error {
	var req AssistantRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	out, err := h.session.Send(c.UserContext(), req.Message, req.Mode)
	if err != nil {
		return c.Status(ierr.HTTPStatus(err)).JSON(fiber.Map{
			"error":      ierr.UserMessage(err),
			"transcript": h.session.Transcript(),
		})
	}
	return c.JSON(AssistantResponse{Outcome: out, Transcript: h.session.Transcript()})
}

// GetTranscript godoc
// @Summary Chat transcript
// @Tags Assistant
// @Produce json
// @Success 200 {array} assistant.ChatMessage
// @Router /assistant/messages [get]
func (h *AssistantHandler) GetTranscript(c *fiber.Ctx) error {
	return c.JSON(h.session.Transcript())
}
