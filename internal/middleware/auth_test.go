package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amouromar/omba/internal/auth"
	"github.com/amouromar/omba/internal/config"
	"github.com/amouromar/omba/internal/models"
)

type stubProfileGetter struct {
	profiles map[string]*models.Profile
}

func (s *stubProfileGetter) Get(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := s.profiles[id]; ok {
		return p, nil
	}
	return nil, errors.New("no rows in result set")
}

func testJWTManager() *auth.JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "omba"
	return auth.NewJWTManager(cfg)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newTestMiddleware(profiles ...*models.Profile) (*AuthMiddleware, *auth.JWTManager) {
	jwtManager := testJWTManager()
	store := &stubProfileGetter{profiles: make(map[string]*models.Profile)}
	for _, p := range profiles {
		store.profiles[p.ID] = p
	}
	return NewAuthMiddleware(jwtManager, store), jwtManager
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	m, _ := newTestMiddleware()

	req := httptest.NewRequest("POST", "/api/checkout", nil)
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	m, _ := newTestMiddleware()

	req := httptest.NewRequest("POST", "/api/checkout", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	m, _ := newTestMiddleware()

	req := httptest.NewRequest("POST", "/api/checkout", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_SetsProfileContext(t *testing.T) {
	profile := &models.Profile{ID: "p-1", Email: "asha@example.com", Role: models.RoleUser, IsVerified: true}
	m, jwtManager := newTestMiddleware(profile)

	token, err := jwtManager.GenerateToken(profile)
	require.NoError(t, err)

	var gotID string
	var gotVerified bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetProfileIDFromContext(r.Context())
		gotVerified, _ = GetIsVerifiedFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p-1", gotID)
	assert.True(t, gotVerified)
}

// The verification gate: a valid login that has not been admin-approved is
// authenticated but still may not transact.
func TestRequireVerified_UnverifiedProfileGets403(t *testing.T) {
	profile := &models.Profile{ID: "p-1", Email: "new@example.com", Role: models.RoleUser, IsVerified: false}
	m, jwtManager := newTestMiddleware(profile)

	token, err := jwtManager.GenerateToken(profile)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireVerified(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not verified")
}

func TestRequireVerified_VerifiedProfilePasses(t *testing.T) {
	profile := &models.Profile{ID: "p-1", Email: "asha@example.com", Role: models.RoleUser, IsVerified: true}
	m, jwtManager := newTestMiddleware(profile)

	token, err := jwtManager.GenerateToken(profile)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireVerified(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// Verification status is read from the database on every request, so a
// revoked approval takes effect immediately even with an old token.
func TestRequireVerified_UsesCurrentDatabaseState(t *testing.T) {
	profile := &models.Profile{ID: "p-1", Email: "asha@example.com", Role: models.RoleUser, IsVerified: true}
	m, jwtManager := newTestMiddleware(profile)

	token, err := jwtManager.GenerateToken(profile)
	require.NoError(t, err)

	// Admin revokes verification after the token was issued.
	profile.IsVerified = false

	req := httptest.NewRequest("POST", "/api/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireVerified(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_UserRoleGets403(t *testing.T) {
	profile := &models.Profile{ID: "p-1", Email: "asha@example.com", Role: models.RoleUser, IsVerified: true}
	m, jwtManager := newTestMiddleware(profile)

	token, err := jwtManager.GenerateToken(profile)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireAdmin(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	profile := &models.Profile{ID: "a-1", Email: "admin@example.com", Role: models.RoleAdmin, IsVerified: true}
	m, jwtManager := newTestMiddleware(profile)

	token, err := jwtManager.GenerateToken(profile)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireAdmin(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
