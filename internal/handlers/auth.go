package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/projectflow/projectflow-api/internal/constants"
	"github.com/projectflow/projectflow-api/internal/dto"
	apierrors "github.com/projectflow/projectflow-api/internal/errors"
	"github.com/projectflow/projectflow-api/internal/identity"
	"github.com/projectflow/projectflow-api/internal/middleware"
	"github.com/projectflow/projectflow-api/internal/services"
)

const sessionKeyState = "oauth_state"

// AuthHandler runs the hosted-provider login flow and session lifecycle.
type AuthHandler struct {
	users    *services.UserService
	provider *identity.Provider
	verifier *identity.Verifier
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *services.UserService, provider *identity.Provider, verifier *identity.Verifier) *AuthHandler {
	return &AuthHandler{
		users:    users,
		provider: provider,
		verifier: verifier,
	}
}

// Login redirects the browser to the provider's consent page.
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.provider.IsConfigured() {
		apierrors.ServiceUnavailable(c, "Identity provider is not configured")
		return
	}

	state, err := randomState()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKeyState, state)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// Callback completes the code exchange, provisions the local user, and
// establishes the session.
func (h *AuthHandler) Callback(c *gin.Context) {
	session := sessions.Default(c)

	wantState, _ := session.Get(sessionKeyState).(string)
	session.Delete(sessionKeyState)

	state := c.Query("state")
	if wantState == "" || state != wantState {
		apierrors.BadRequest(c, "Invalid state parameter")
		return
	}

	code := c.Query("code")
	if code == "" {
		apierrors.BadRequest(c, "Missing authorization code")
		return
	}

	rawIDToken, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		logrus.WithError(err).Warn("authorization code exchange failed")
		apierrors.Unauthorized(c, "Authentication failed")
		return
	}

	claims, err := h.verifier.VerifyToken(rawIDToken)
	if err != nil {
		logrus.WithError(err).Warn("id_token verification failed")
		apierrors.Unauthorized(c, "Authentication failed")
		return
	}

	user, err := h.users.EnsureLocalUser(claims)
	if err != nil {
		apierrors.InternalError(c, "Failed to provision user")
		return
	}

	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout clears the local session. The provider keeps its own session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to clear session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the authenticated user's own account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserAccountDTO(*user))
}

func randomState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
