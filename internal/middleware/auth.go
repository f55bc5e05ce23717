package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/amouromar/omba/internal/auth"
	"github.com/amouromar/omba/internal/models"
)

type contextKey string

const ProfileIDKey contextKey = "profile_id"
const EmailKey contextKey = "email"
const RoleKey contextKey = "role"
const IsVerifiedKey contextKey = "is_verified"

// ProfileGetter loads the current profile row for a validated token.
type ProfileGetter interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
}

type AuthMiddleware struct {
	jwtManager  *auth.JWTManager
	profileRepo ProfileGetter
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, profileRepo ProfileGetter) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:  jwtManager,
		profileRepo: profileRepo,
	}
}

// authenticate validates the Bearer token and loads the profile row so role
// and verification changes take effect immediately, not at token refresh.
func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "Authorization header required", http.StatusUnauthorized)
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
		return nil, false
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return nil, false
	}

	profile, err := m.profileRepo.Get(r.Context(), claims.ProfileID)
	if err != nil {
		http.Error(w, "Profile not found", http.StatusUnauthorized)
		return nil, false
	}

	ctx := context.WithValue(r.Context(), ProfileIDKey, profile.ID)
	ctx = context.WithValue(ctx, EmailKey, profile.Email)
	ctx = context.WithValue(ctx, RoleKey, profile.Role)
	ctx = context.WithValue(ctx, IsVerifiedKey, profile.IsVerified)

	return r.WithContext(ctx), true
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r2, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r2)
	})
}

// RequireRole ensures the authenticated profile has one of the allowed roles
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r2, ok := m.authenticate(w, r)
			if !ok {
				return
			}

			role, _ := GetRoleFromContext(r2.Context())
			for _, allowed := range allowedRoles {
				if role == allowed {
					next.ServeHTTP(w, r2)
					return
				}
			}

			http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
		})
	}
}

// RequireVerified is the verification gate: the profile must be authenticated
// AND approved by an admin before it may transact (checkout).
func (m *AuthMiddleware) RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r2, ok := m.authenticate(w, r)
		if !ok {
			return
		}

		verified, _ := GetIsVerifiedFromContext(r2.Context())
		if !verified {
			http.Error(w, "Account not verified. Please complete your profile and wait for admin approval.", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r2)
	})
}

// RequireAdmin ensures the profile has the ADMIN role
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole("ADMIN")(next)
}

// GetProfileIDFromContext extracts the profile ID from request context
func GetProfileIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ProfileIDKey).(string)
	return id, ok
}

// GetEmailFromContext extracts the email from request context
func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

// GetRoleFromContext extracts the role from request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// GetIsVerifiedFromContext extracts the verification flag from request context
func GetIsVerifiedFromContext(ctx context.Context) (bool, bool) {
	verified, ok := ctx.Value(IsVerifiedKey).(bool)
	return verified, ok
}
