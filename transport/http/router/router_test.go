package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"vprime/config"
	"vprime/infras/jwt"
	jwtMocks "vprime/infras/jwt/mocks"
	otelMocks "vprime/infras/otel/mocks"
	authMocks "vprime/internal/domains/auth/mocks"
	mediaMocks "vprime/internal/domains/media/mocks"
	projectMocks "vprime/internal/domains/project/mocks"
	projectDto "vprime/internal/domains/project/model/dto"
	testimonialMocks "vprime/internal/domains/testimonial/mocks"
	testimonialDto "vprime/internal/domains/testimonial/model/dto"
	authHandler "vprime/internal/handlers/auth"
	mediaHandler "vprime/internal/handlers/media"
	projectHandler "vprime/internal/handlers/project"
	testimonialHandler "vprime/internal/handlers/testimonial"
	"vprime/permissions"
	"vprime/shared/constant"
	"vprime/transport/http/middleware"
	"vprime/transport/http/router"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const validBody = `{"car_model":"BMW E90","before_image_url":"b","after_image_url":"a"}`

type fixture struct {
	jwt         *jwtMocks.MockJWT
	project     *projectMocks.MockProjectService
	testimonial *testimonialMocks.MockTestimonialService
	handler     http.Handler
}

func newFixture(t *testing.T, authDisabled bool) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	otel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.App.AuthDisabled = authDisabled

	f := fixture{
		jwt:         jwtMocks.NewMockJWT(ctrl),
		project:     projectMocks.NewMockProjectService(ctrl),
		testimonial: testimonialMocks.NewMockTestimonialService(ctrl),
	}

	r := router.New(router.DomainHandlers{
		Auth:        authHandler.New(authMocks.NewMockAuth(ctrl), otel),
		Project:     projectHandler.New(f.project, otel),
		Testimonial: testimonialHandler.New(f.testimonial, otel),
		Media:       mediaHandler.New(mediaMocks.NewMockMediaService(ctrl), cfg, otel),
	}, middleware.NewAuthRoleMiddleware(f.jwt, otel, permissions.Get(), cfg))

	mux := chi.NewRouter()
	r.SetupRoutes(mux)
	f.handler = mux

	return f
}

func (f fixture) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	return rec
}

func adminClaims() *jwt.Claims {
	return &jwt.Claims{UserID: "u-1", Email: "admin@vprime.test", Role: constant.RoleAdmin, TokenID: "t-1", Type: jwt.AccessToken}
}

func TestRouter_PublicEndpointsNeedNoToken(t *testing.T) {
	f := newFixture(t, false)

	f.project.EXPECT().List(gomock.Any(), gomock.Any()).Return(projectDto.ListProjectsResponse{}, nil)
	f.project.EXPECT().GetBySlug(gomock.Any(), "bmw-e90-1").Return(projectDto.ProjectResponse{}, nil)
	f.project.EXPECT().Like(gomock.Any(), int64(1)).Return(projectDto.LikeResponse{Likes: 1}, nil)
	f.testimonial.EXPECT().List(gomock.Any(), gomock.Any()).Return(testimonialDto.ListTestimonialsResponse{}, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/gallery", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/gallery/bmw-e90-1", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/gallery/1/like", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/testimonials", "", "").Code)
}

func TestRouter_AdminEndpointsRejectMissingOrBadTokens(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		mock     func(m *jwtMocks.MockJWT)
		wantBody string
	}{
		{
			name:     "missing header",
			mock:     func(*jwtMocks.MockJWT) {},
			wantBody: `{"error":"Missing authorization header"}`,
		},
		{
			name:     "not a bearer header",
			token:    "Token abc",
			mock:     func(*jwtMocks.MockJWT) {},
			wantBody: `{"error":"Invalid authorization header format"}`,
		},
		{
			name:  "expired",
			token: "Bearer old",
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("old", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantBody: `{"error":"Token has expired"}`,
		},
		{
			name:  "refresh token used as access token",
			token: "Bearer refresh",
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("refresh", jwt.AccessToken).Return(nil, jwt.ErrInvalidToken)
			},
			wantBody: `{"error":"Invalid token"}`,
		},
		{
			name:  "claims without email",
			token: "Bearer partial",
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("partial", jwt.AccessToken).Return(&jwt.Claims{UserID: "u-1"}, nil)
			},
			wantBody: `{"error":"Invalid token claims"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			tt.mock(f.jwt)

			rec := f.do(http.MethodPost, "/api/gallery", tt.token, validBody)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRouter_AdminCanMutate(t *testing.T) {
	f := newFixture(t, false)

	f.jwt.EXPECT().ValidateToken("good", jwt.AccessToken).Return(adminClaims(), nil).Times(4)
	f.project.EXPECT().Create(gomock.Any(), gomock.Any()).Return(projectDto.ProjectResponse{ID: 1, Slug: "bmw-e90-1"}, nil)
	f.project.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).Return(projectDto.ProjectResponse{ID: 1}, nil)
	f.project.EXPECT().Delete(gomock.Any(), int64(1)).Return(projectDto.ProjectResponse{ID: 1}, nil)
	f.testimonial.EXPECT().Delete(gomock.Any(), int64(2)).Return(testimonialDto.TestimonialResponse{ID: 2}, nil)

	assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/gallery", "Bearer good", validBody).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPut, "/api/gallery/1", "Bearer good", `{"description":"d"}`).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/api/gallery/1", "Bearer good", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/api/testimonials/2", "Bearer good", "").Code)
}

func TestRouter_NonAdminRoleIsForbidden(t *testing.T) {
	f := newFixture(t, false)

	claims := adminClaims()
	claims.Role = "viewer"
	f.jwt.EXPECT().ValidateToken("viewer", jwt.AccessToken).Return(claims, nil)

	rec := f.do(http.MethodDelete, "/api/testimonials/2", "Bearer viewer", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_UploadsRequireToken(t *testing.T) {
	f := newFixture(t, false)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/uploads", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/uploads/batch", "", "").Code)
}

func TestRouter_AuthDisabled(t *testing.T) {
	f := newFixture(t, true)

	f.project.EXPECT().Create(gomock.Any(), gomock.Any()).Return(projectDto.ProjectResponse{ID: 1}, nil)

	assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/gallery", "", validBody).Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	f := newFixture(t, false)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/nope", "", "").Code)
}
