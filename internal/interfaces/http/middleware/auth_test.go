package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog-health/carelog/internal/infrastructure/auth"
	"github.com/carelog-health/carelog/internal/shared/constants"
)

func authTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()

	jwtSvc := auth.NewJWTService("test-secret", 15, 7)
	m := NewAuthMiddleware(jwtSvc, newNopLogger())

	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		userID, _ := c.Get(constants.ContextKeyUserID)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	r.GET("/admin", m.RequireAuth(), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, jwtSvc
}

func authedRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidTokenSetsIdentity(t *testing.T) {
	r, jwtSvc := authTestRouter(t)

	pair, err := jwtSvc.Generate("usr_abc123", constants.RoleUser)
	require.NoError(t, err)

	w := authedRequest(r, "/me", pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "usr_abc123")
}

func TestRequireAuth_MissingTokenRejected(t *testing.T) {
	r, _ := authTestRouter(t)

	w := authedRequest(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedHeaderRejected(t *testing.T) {
	r, _ := authTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(constants.HeaderAuthorization, "Token abcdef")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_RefreshTokenRejected(t *testing.T) {
	r, jwtSvc := authTestRouter(t)

	pair, err := jwtSvc.Generate("usr_abc123", constants.RoleUser)
	require.NoError(t, err)

	// A refresh token authenticates token rotation only, never API calls.
	w := authedRequest(r, "/me", pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin_UserRoleForbidden(t *testing.T) {
	r, jwtSvc := authTestRouter(t)

	pair, err := jwtSvc.Generate("usr_abc123", constants.RoleUser)
	require.NoError(t, err)

	w := authedRequest(r, "/admin", pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_AdminRolePasses(t *testing.T) {
	r, jwtSvc := authTestRouter(t)

	pair, err := jwtSvc.Generate("usr_admin1", constants.RoleAdmin)
	require.NoError(t, err)

	w := authedRequest(r, "/admin", pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth_PassesThroughWithoutToken(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", 15, 7)
	m := NewAuthMiddleware(jwtSvc, newNopLogger())

	r := gin.New()
	r.GET("/open", m.OptionalAuth(), func(c *gin.Context) {
		_, authed := c.Get(constants.ContextKeyUserID)
		c.JSON(http.StatusOK, gin.H{"authenticated": authed})
	})

	w := authedRequest(r, "/open", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "false")

	pair, err := jwtSvc.Generate("usr_abc123", constants.RoleUser)
	require.NoError(t, err)

	w = authedRequest(r, "/open", pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "true")
}
