package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	otelMocks "vprime/infras/otel/mocks"
	"vprime/internal/domains/auth/mocks"
	"vprime/internal/domains/auth/model/dto"
	"vprime/internal/handlers/auth"
	"vprime/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (*mocks.MockAuth, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAuth(ctrl)

	handler := auth.New(svc, otelMocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func post(router http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Login(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mock     func(svc *mocks.MockAuth)
		wantCode int
		wantBody string
	}{
		{
			name: "success",
			body: `{"email":"admin@vprime.test","password":"secret"}`,
			mock: func(svc *mocks.MockAuth) {
				svc.EXPECT().
					Login(gomock.Any(), dto.LoginRequest{Email: "admin@vprime.test", Password: "secret"}).
					Return(dto.LoginResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", ExpiresIn: 900}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `{"access_token":"a","refresh_token":"r","token_type":"Bearer","expires_in":900}`,
		},
		{
			name: "wrong password",
			body: `{"email":"admin@vprime.test","password":"nope"}`,
			mock: func(svc *mocks.MockAuth) {
				svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(dto.LoginResponse{}, failure.Unauthorized("invalid email or password"))
			},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"invalid email or password"}`,
		},
		{
			name:     "invalid email",
			body:     `{"email":"admin","password":"secret"}`,
			mock:     func(*mocks.MockAuth) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing password",
			body:     `{"email":"admin@vprime.test"}`,
			mock:     func(*mocks.MockAuth) {},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.mock(svc)

			rec := post(router, "/auth/login", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_RefreshToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().
			RefreshToken(gomock.Any(), dto.RefreshTokenRequest{RefreshToken: "r1"}).
			Return(dto.RefreshTokenResponse{AccessToken: "a2", RefreshToken: "r2"}, nil)

		rec := post(router, "/auth/refresh", `{"refresh_token":"r1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"access_token":"a2"`)
	})

	t.Run("expired", func(t *testing.T) {
		svc, router := newRouter(t)

		svc.EXPECT().RefreshToken(gomock.Any(), gomock.Any()).Return(dto.RefreshTokenResponse{}, failure.Unauthorized("invalid refresh token"))

		rec := post(router, "/auth/refresh", `{"refresh_token":"r1"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		_, router := newRouter(t)

		rec := post(router, "/auth/refresh", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
