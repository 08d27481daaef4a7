// internal/handlers/assistant/assistant_handler.go
package assistant

import (
	"net/http"

	"automate-service/internal/middleware"
	"automate-service/internal/pkg/response"
	"automate-service/internal/service/assistant"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	assistant *assistant.Service
}

func NewAssistantHandler(svc *assistant.Service) *AssistantHandler {
	return &AssistantHandler{
		assistant: svc,
	}
}

// Greeting opens a chat for the signed-in account.
func (h *AssistantHandler) Greeting(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	name := sc.Account().Identity().Name

	response.Success(c, http.StatusOK, "assistant ready", gin.H{
		"greeting":   assistant.Greeting(name),
		"configured": h.assistant.Configured(),
		"context":    assistant.BuildContext(name, sc.Vehicles()),
	})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat answers a message with the fleet as context. The reply is always
// displayable text; failures come back as canned replies.
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sc := middleware.MustGetContainer(c)
	contextData := assistant.BuildContext(sc.Account().Identity().Name, sc.Vehicles())
	reply := h.assistant.Reply(c.Request.Context(), req.Message, contextData)

	response.Success(c, http.StatusOK, "reply generated", gin.H{
		"reply": reply,
	})
}
