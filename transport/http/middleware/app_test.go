package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"vprime/config"
	otelMocks "vprime/infras/otel/mocks"
	cacheMocks "vprime/shared/cache/mocks"
	"vprime/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func limiterConfig(enable bool) *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func limitedRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/gallery", nil)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")

	return req
}

func TestRateLimit(t *testing.T) {
	const key = "limiter:10.0.0.1:test-agent"

	tests := []struct {
		name          string
		enable        bool
		mock          func(c *cacheMocks.MockRedisCache)
		wantCode      int
		wantRemaining string
	}{
		{
			name:     "disabled",
			mock:     func(*cacheMocks.MockRedisCache) {},
			wantCode: http.StatusOK,
		},
		{
			name:   "first request opens the window",
			enable: true,
			mock: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Increment(gomock.Any(), key, 60).Return(int64(1), nil)
			},
			wantCode:      http.StatusOK,
			wantRemaining: "1",
		},
		{
			name:   "last allowed request",
			enable: true,
			mock: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Increment(gomock.Any(), key, 60).Return(int64(2), nil)
			},
			wantCode:      http.StatusOK,
			wantRemaining: "0",
		},
		{
			name:   "over the limit",
			enable: true,
			mock: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Increment(gomock.Any(), key, 60).Return(int64(3), nil)
			},
			wantCode: http.StatusTooManyRequests,
		},
		{
			name:   "cache outage lets requests through",
			enable: true,
			mock: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Increment(gomock.Any(), key, 60).Return(int64(0), errors.New("connection refused"))
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			redis := cacheMocks.NewMockRedisCache(ctrl)
			tt.mock(redis)

			app := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(tt.enable), redis)

			rec := httptest.NewRecorder()
			app.RateLimit()(okHandler()).ServeHTTP(rec, limitedRequest())

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get("X-RateLimit-Remaining"))
		})
	}
}

func TestTracing(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantError bool
	}{
		{name: "success", status: http.StatusTeapot},
		{name: "implicit ok", status: 0},
		{name: "server error is traced", status: http.StatusBadGateway, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := otelMocks.NewRecorder()
			app := middleware.NewAppMiddleware(recorder, limiterConfig(false), nil)

			handler := app.Tracing(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}

				_, _ = w.Write([]byte("body"))
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gallery", nil))

			assert.Equal(t, "body", rec.Body.String())

			span := recorder.Span("GET /api/gallery")
			require.NotNil(t, span)
			assert.True(t, span.Ended())
			assert.Equal(t, "/api/gallery", span.Attribute("http.path"))

			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}

			assert.Equal(t, int64(wantStatus), span.Attribute("http.status_code"))
			assert.Equal(t, tt.wantError, len(span.Errors()) > 0)
		})
	}
}
