package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectflow/projectflow-api/internal/dto"
	apierrors "github.com/projectflow/projectflow-api/internal/errors"
	"github.com/projectflow/projectflow-api/internal/middleware"
	"github.com/projectflow/projectflow-api/internal/policy"
	"github.com/projectflow/projectflow-api/internal/realtime"
	"github.com/projectflow/projectflow-api/internal/services"
)

// MessageHandler handles team chat history and posting.
type MessageHandler struct {
	messages    *services.MessageService
	authz       policy.Evaluator
	broadcaster realtime.Broadcaster
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages *services.MessageService, authz policy.Evaluator, broadcaster realtime.Broadcaster) *MessageHandler {
	return &MessageHandler{
		messages:    messages,
		authz:       authz,
		broadcaster: broadcaster,
	}
}

// ListMessages returns a team's message history, oldest first.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	teamID := c.Param("teamId")
	if err := h.authz.Authorize(user, policy.ActionMessageRead, policy.Resource{TeamID: teamID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	messages, err := h.messages.ListMessages(teamID)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMessageDTOs(messages))
}

// PostMessage stores a chat message and broadcasts new-message on the
// team's channel. Membership is checked before any write.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	teamID := c.Param("teamId")
	if err := h.authz.Authorize(user, policy.ActionMessagePost, policy.Resource{TeamID: teamID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	type PostMessageRequest struct {
		Content string `json:"content"`
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.messages.PostMessage(teamID, user.ID, req.Content)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	messageDTO := dto.ToMessageDTO(*message)
	publish(h.broadcaster, realtime.TeamChannel(teamID), realtime.EventNewMessage, messageDTO)

	c.JSON(http.StatusCreated, messageDTO)
}

func respondPolicyError(c *gin.Context, err error) {
	if errors.Is(err, policy.ErrForbidden) {
		apierrors.Forbidden(c, "")
		return
	}
	apierrors.InternalError(c, "")
}

func respondMessageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrContentRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTeamNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
