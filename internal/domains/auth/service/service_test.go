package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"vprime/config"
	"vprime/infras/jwt"
	jwtMocks "vprime/infras/jwt/mocks"
	"vprime/infras/otel/mocks"
	"vprime/internal/domains/auth/model/dto"
	"vprime/internal/domains/auth/service"
	userMocks "vprime/internal/domains/user/mocks"
	userModel "vprime/internal/domains/user/model"
	"vprime/shared/constant"
	"vprime/shared/failure"
	"vprime/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.Hash("correct-horse")
	require.NoError(t, err)

	activeAdmin := userModel.User{
		ID:       "user-id-123",
		Email:    "admin@vprime.test",
		Password: hashed,
		Level:    constant.RoleAdmin,
		Active:   true,
	}

	inactive := activeAdmin
	inactive.Active = false

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT)
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "Admin@vprime.test ", Password: "correct-horse"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeAdmin, nil)
				jwtSvc.EXPECT().
					GenerateTokenPair(activeAdmin.ID, activeAdmin.Email, constant.RoleAdmin).
					Return(&jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "last login failure does not block login",
			req:  dto.LoginRequest{Email: "admin@vprime.test", Password: "correct-horse"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeAdmin, nil)
				jwtSvc.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@vprime.test", Password: "correct-horse"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "admin@vprime.test", Password: "wrong-horse"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeAdmin, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "admin@vprime.test", Password: "correct-horse"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "repository failure",
			req:  dto.LoginRequest{Email: "admin@vprime.test", Password: "correct-horse"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockUserRepo := userMocks.NewMockUser(ctrl)
			mockJWT := jwtMocks.NewMockJWT(ctrl)
			tt.setupMock(mockUserRepo, mockJWT)

			svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

			res, err := svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access", res.AccessToken)
			assert.Equal(t, "refresh", res.RefreshToken)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	tests := []struct {
		name     string
		pair     *jwt.TokenPair
		err      error
		wantCode int
	}{
		{
			name: "rotates pair",
			pair: &jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresIn: 900},
		},
		{
			name:     "invalid refresh token",
			err:      jwt.ErrInvalidToken,
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockJWT := jwtMocks.NewMockJWT(ctrl)
			mockJWT.EXPECT().RefreshTokens("old-refresh").Return(tt.pair, tt.err)

			svc := service.New(userMocks.NewMockUser(ctrl), &config.Config{}, mocks.NewOtel(), mockJWT)

			res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "old-refresh"})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "new-access", res.AccessToken)
			assert.Equal(t, int64(900), res.ExpiresIn)
		})
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		setupMock func(repo *userMocks.MockUser)
		wantErr   bool
	}{
		{
			name:      "no admin configured",
			setupMock: func(_ *userMocks.MockUser) {},
		},
		{
			name:      "weak password rejected",
			email:     "admin@vprime.test",
			password:  "short",
			setupMock: func(_ *userMocks.MockUser) {},
			wantErr:   true,
		},
		{
			name:     "existing admin left untouched",
			email:    "admin@vprime.test",
			password: "correct-horse",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
		},
		{
			name:     "creates admin",
			email:    " Admin@VPRIME.test",
			password: "correct-horse",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user userModel.User) error {
					assert.Equal(t, "admin@vprime.test", user.Email)
					assert.Equal(t, constant.RoleAdmin, user.Level)
					assert.True(t, user.Active)
					assert.NoError(t, password.Verify("correct-horse", user.Password))

					return nil
				})
			},
		},
		{
			name:     "insert failure",
			email:    "admin@vprime.test",
			password: "correct-horse",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("duplicate"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockUserRepo := userMocks.NewMockUser(ctrl)
			tt.setupMock(mockUserRepo)

			cfg := &config.Config{}
			cfg.Admin.Email = tt.email
			cfg.Admin.Password = tt.password

			svc := service.New(mockUserRepo, cfg, mocks.NewOtel(), jwtMocks.NewMockJWT(ctrl))

			err := svc.EnsureAdmin(context.Background())
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}
