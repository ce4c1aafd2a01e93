package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectflow/projectflow-api/internal/config"
)

func testVerifier() *Verifier {
	return NewVerifier(&config.Config{
		IdentitySigningKey: "test-key",
		IdentityIssuer:     "https://identity.test",
	})
}

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func validClaims() Claims {
	return Claims{
		Email:   "alice@example.com",
		Name:    "Alice",
		Picture: "https://cdn.test/alice.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "provider|1",
			Issuer:    "https://identity.test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerifyToken_Valid(t *testing.T) {
	raw := sign(t, jwt.SigningMethodHS256, []byte("test-key"), validClaims())

	claims, err := testVerifier().VerifyToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "provider|1", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
}

func TestVerifyToken_WrongKey(t *testing.T) {
	raw := sign(t, jwt.SigningMethodHS256, []byte("other-key"), validClaims())

	_, err := testVerifier().VerifyToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_WrongIssuer(t *testing.T) {
	claims := validClaims()
	claims.Issuer = "https://evil.test"
	raw := sign(t, jwt.SigningMethodHS256, []byte("test-key"), claims)

	_, err := testVerifier().VerifyToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_WrongAlgorithm(t *testing.T) {
	raw := sign(t, jwt.SigningMethodHS384, []byte("test-key"), validClaims())

	_, err := testVerifier().VerifyToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_MissingSubject(t *testing.T) {
	claims := validClaims()
	claims.Subject = ""
	raw := sign(t, jwt.SigningMethodHS256, []byte("test-key"), claims)

	_, err := testVerifier().VerifyToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	raw := sign(t, jwt.SigningMethodHS256, []byte("test-key"), claims)

	_, err := testVerifier().VerifyToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	_, err := testVerifier().VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProviderIsConfigured(t *testing.T) {
	assert.False(t, NewProvider(&config.Config{}).IsConfigured())
	assert.True(t, NewProvider(&config.Config{
		IdentityClientID:     "id",
		IdentityClientSecret: "secret",
	}).IsConfigured())
}

func TestAuthCodeURLCarriesState(t *testing.T) {
	provider := NewProvider(&config.Config{
		IdentityAuthURL:     "https://identity.test/authorize",
		IdentityClientID:    "id",
		IdentityRedirectURL: "http://localhost/callback",
	})

	url := provider.AuthCodeURL("csrf-state")
	assert.Contains(t, url, "state=csrf-state")
	assert.Contains(t, url, "client_id=id")
	assert.Contains(t, url, "scope=openid+email+profile")
}
