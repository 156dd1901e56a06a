package dto

import (
	"time"
	"vprime/infras/jwt"
	userModel "vprime/internal/domains/user/model"
	"vprime/shared/constant"
	gModel "vprime/shared/model"
	"vprime/shared/timezone"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.TokenType = tokenPair.TokenType
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse has the same shape as a login.
type RefreshTokenResponse = LoginResponse

// AdminSeed describes the account ensured at startup from ADMIN_EMAIL and ADMIN_PASSWORD.
type AdminSeed struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func (a *AdminSeed) ToUserModel(hashedPassword string) userModel.User {
	now := timezone.Now()

	return userModel.User{
		ID:       uuid.NewString(),
		Email:    a.Email,
		Password: hashedPassword,
		Level:    constant.RoleAdmin,
		Active:   true,
		Metadata: gModel.NewMetadata(constant.ContextSystem, now),
	}
}
