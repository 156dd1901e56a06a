package jwt_test

import (
	"testing"
	"vprime/config"
	"vprime/infras/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "vprime"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return cfg
}

func TestGenerateAndValidate(t *testing.T) {
	svc := jwt.New(newConfig())

	pair, err := svc.GenerateTokenPair("user-1", "admin@vprime.test", "admin")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)

	claims, err := svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = svc.ValidateToken(pair.RefreshToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestRefreshTokens(t *testing.T) {
	svc := jwt.New(newConfig())

	pair, err := svc.GenerateTokenPair("user-1", "admin@vprime.test", "admin")
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(refreshed.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@vprime.test", claims.Email)

	_, err = svc.RefreshTokens(pair.AccessToken)
	assert.Error(t, err)
}

func TestMissingSecret(t *testing.T) {
	cfg := newConfig()
	cfg.JWT.AccessSecret = ""

	_, err := jwt.New(cfg).GenerateTokenPair("user-1", "admin@vprime.test", "admin")
	assert.ErrorIs(t, err, jwt.ErrMissingSecret)
}

func TestIssuerMismatch(t *testing.T) {
	pair, err := jwt.New(newConfig()).GenerateTokenPair("user-1", "admin@vprime.test", "admin")
	require.NoError(t, err)

	other := newConfig()
	other.App.Name = "someone-else"

	_, err = jwt.New(other).ValidateToken(pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header   string
		expected string
		err      error
	}{
		{header: "Bearer abc.def", expected: "abc.def"},
		{header: "", err: jwt.ErrMissingHeader},
		{header: "Basic abc", err: jwt.ErrInvalidHeader},
		{header: "Bearer   ", err: jwt.ErrInvalidHeader},
	}

	for _, tt := range tests {
		token, err := jwt.ExtractTokenFromHeader(tt.header)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err)

			continue
		}

		require.NoError(t, err)
		assert.Equal(t, tt.expected, token)
	}
}

func TestValidateToken_TypeMismatchWithSharedSecret(t *testing.T) {
	cfg := newConfig()
	cfg.JWT.RefreshSecret = cfg.JWT.AccessSecret
	svc := jwt.New(cfg)

	pair, err := svc.GenerateTokenPair("user-1", "admin@vprime.test", "admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidClaim)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := newConfig()
	cfg.JWT.AccessExpireMin = -1
	svc := jwt.New(cfg)

	pair, err := svc.GenerateTokenPair("user-1", "admin@vprime.test", "admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}
