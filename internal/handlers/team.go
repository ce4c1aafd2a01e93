package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectflow/projectflow-api/internal/dto"
	apierrors "github.com/projectflow/projectflow-api/internal/errors"
	"github.com/projectflow/projectflow-api/internal/middleware"
	"github.com/projectflow/projectflow-api/internal/policy"
	"github.com/projectflow/projectflow-api/internal/services"
	"github.com/projectflow/projectflow-api/internal/utils"
)

// TeamHandler handles team listing and creation.
type TeamHandler struct {
	teams *services.TeamService
	authz policy.Evaluator
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teams *services.TeamService, authz policy.Evaluator) *TeamHandler {
	return &TeamHandler{
		teams: teams,
		authz: authz,
	}
}

// ListTeams returns all teams with their members.
func (h *TeamHandler) ListTeams(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authz.Authorize(user, policy.ActionTeamList, policy.Resource{}); err != nil {
		apierrors.Forbidden(c, "")
		return
	}

	teams, err := h.teams.ListTeams()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch teams")
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTOs(teams))
}

// CreateTeam creates a team. Admin only.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authz.Authorize(user, policy.ActionTeamCreate, policy.Resource{}); err != nil {
		apierrors.Forbidden(c, "Admin role required")
		return
	}

	type CreateTeamRequest struct {
		Name        string   `json:"name" validate:"max=100"`
		Description string   `json:"description" validate:"max=1000"`
		Color       string   `json:"color" validate:"max=30"`
		MemberIDs   []string `json:"member_ids"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	team, err := h.teams.CreateTeam(services.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		MemberIDs:   req.MemberIDs,
		CreatorID:   user.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNameRequired),
			errors.Is(err, services.ErrInvalidTeamMember):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}
