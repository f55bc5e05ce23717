package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amouromar/omba/internal/config"
	"github.com/amouromar/omba/internal/models"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "omba"
	return cfg
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig("secret-1"))

	profile := &models.Profile{
		ID:         "p-1",
		Email:      "asha@example.com",
		Role:       models.RoleUser,
		IsVerified: true,
	}

	token, err := m.GenerateToken(profile)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "p-1", claims.ProfileID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.True(t, claims.IsVerified)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewJWTManager(testConfig("secret-1"))
	validator := NewJWTManager(testConfig("secret-2"))

	token, err := issuer.GenerateToken(&models.Profile{ID: "p-1", Email: "a@b.c", Role: models.RoleUser})
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	m := NewJWTManager(testConfig("secret-1"))
	_, err := m.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
}
