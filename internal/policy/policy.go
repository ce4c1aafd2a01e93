// Package policy centralizes authorization. Handlers ask one evaluator
// whether a subject may perform an action on a resource instead of each
// reimplementing its own role and membership checks.
package policy

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/projectflow/projectflow-api/internal/models"
	"github.com/projectflow/projectflow-api/internal/repository"
)

// Action names an operation a subject wants to perform.
type Action string

const (
	ActionTaskList   Action = "task:list"
	ActionTaskCreate Action = "task:create"
	ActionTaskUpdate Action = "task:update"
	ActionTaskDelete Action = "task:delete"

	ActionTeamList   Action = "team:list"
	ActionTeamCreate Action = "team:create"

	ActionMessageRead Action = "message:read"
	ActionMessagePost Action = "message:post"

	ActionUserList Action = "user:list"
)

// Resource identifies what the action targets. TeamID is set for
// team-scoped actions and empty otherwise.
type Resource struct {
	TeamID string
}

var (
	// ErrForbidden is returned when the subject may not perform the action.
	ErrForbidden = errors.New("policy: forbidden")
	// ErrAdminRequired wraps ErrForbidden for admin-only actions.
	ErrAdminRequired = fmt.Errorf("%w: admin role required", ErrForbidden)
	// ErrMembershipRequired wraps ErrForbidden for team-scoped actions.
	ErrMembershipRequired = fmt.Errorf("%w: team membership required", ErrForbidden)
)

// Evaluator decides whether a subject may perform an action on a resource.
type Evaluator interface {
	Authorize(user *models.User, action Action, resource Resource) error
}

// MembershipEvaluator is the production Evaluator. Rules:
//   - any authenticated user: task operations, team list, user list
//   - team creation: global ADMIN only
//   - message read/post: membership in the target team, or global ADMIN
type MembershipEvaluator struct {
	teamRepo repository.TeamRepository
}

// NewEvaluator creates a MembershipEvaluator.
func NewEvaluator(teamRepo repository.TeamRepository) *MembershipEvaluator {
	return &MembershipEvaluator{teamRepo: teamRepo}
}

// Authorize implements Evaluator.
func (e *MembershipEvaluator) Authorize(user *models.User, action Action, resource Resource) error {
	if user == nil {
		return ErrForbidden
	}

	switch action {
	case ActionTaskList, ActionTaskCreate, ActionTaskUpdate, ActionTaskDelete,
		ActionTeamList, ActionUserList:
		// Any authenticated user.
		return nil

	case ActionTeamCreate:
		if !user.IsAdmin() {
			return ErrAdminRequired
		}
		return nil

	case ActionMessageRead, ActionMessagePost:
		if user.IsAdmin() {
			return nil
		}
		_, err := e.teamRepo.FindMember(resource.TeamID, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipRequired
			}
			return fmt.Errorf("policy: membership lookup failed: %w", err)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown action %q", ErrForbidden, action)
}
