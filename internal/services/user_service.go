package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/projectflow/projectflow-api/internal/identity"
	"github.com/projectflow/projectflow-api/internal/models"
	"github.com/projectflow/projectflow-api/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UserService handles local user provisioning and lookup.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// EnsureLocalUser resolves the local user row for a provider identity,
// creating it on first sight. Every authenticated entry point goes through
// here; the upsert plus the unique subject index keep concurrent first
// requests from the same identity safe.
func (s *UserService) EnsureLocalUser(claims *identity.Claims) (*models.User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, fmt.Errorf("ensure local user: missing subject")
	}

	user, err := s.userRepo.FindBySubjectID(claims.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = "New User"
	}
	email := strings.TrimSpace(claims.Email)
	if email == "" {
		email = claims.Subject + "@placeholder.local"
	}

	user, err = s.userRepo.UpsertBySubject(&models.User{
		SubjectID:      claims.Subject,
		Name:           name,
		Email:          email,
		ProfilePicture: claims.Picture,
		Role:           models.RoleMember,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by local ID.
func (s *UserService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users ordered by name.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
