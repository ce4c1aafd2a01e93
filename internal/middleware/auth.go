package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/projectflow/projectflow-api/internal/constants"
	apierrors "github.com/projectflow/projectflow-api/internal/errors"
	"github.com/projectflow/projectflow-api/internal/identity"
	"github.com/projectflow/projectflow-api/internal/models"
	"github.com/projectflow/projectflow-api/internal/services"
)

// RequireAuth resolves the caller's identity on every request. A session
// established by the auth callback wins; otherwise a provider bearer token
// is accepted directly, in which case the local user row is provisioned
// lazily. Either way the resolved *models.User lands in the context.
func RequireAuth(users *services.UserService, verifier *identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := fromSession(c, users); user != nil {
			setCurrentUser(c, user)
			c.Next()
			return
		}

		if user := fromBearer(c, users, verifier); user != nil {
			setCurrentUser(c, user)
			c.Next()
			return
		}

		apierrors.Unauthorized(c, "")
		c.Abort()
	}
}

func fromSession(c *gin.Context, users *services.UserService) *models.User {
	session := sessions.Default(c)
	raw := session.Get(constants.ContextKeyUserID)
	userID, ok := raw.(string)
	if !ok || userID == "" {
		return nil
	}

	user, err := users.GetUser(userID)
	if err != nil {
		return nil
	}
	return user
}

func fromBearer(c *gin.Context, users *services.UserService, verifier *identity.Verifier) *models.User {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil
	}

	claims, err := verifier.VerifyToken(token)
	if err != nil {
		return nil
	}

	user, err := users.EnsureLocalUser(claims)
	if err != nil {
		return nil
	}
	return user
}

func setCurrentUser(c *gin.Context, user *models.User) {
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyUser, user)
}

// GetUserID retrieves the current local user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	raw, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := raw.(string)
	return id, ok && id != ""
}

// GetCurrentUser retrieves the resolved user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	raw, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := raw.(*models.User)
	return user, ok && user != nil
}
