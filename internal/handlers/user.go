package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectflow/projectflow-api/internal/dto"
	apierrors "github.com/projectflow/projectflow-api/internal/errors"
	"github.com/projectflow/projectflow-api/internal/middleware"
	"github.com/projectflow/projectflow-api/internal/policy"
	"github.com/projectflow/projectflow-api/internal/services"
)

// UserHandler handles the user directory.
type UserHandler struct {
	users *services.UserService
	authz policy.Evaluator
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, authz policy.Evaluator) *UserHandler {
	return &UserHandler{
		users: users,
		authz: authz,
	}
}

// ListUsers returns all provisioned users, for assignee and member pickers.
func (h *UserHandler) ListUsers(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authz.Authorize(user, policy.ActionUserList, policy.Resource{}); err != nil {
		apierrors.Forbidden(c, "")
		return
	}

	users, err := h.users.ListUsers()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserAccountDTOs(users))
}
