package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"vprime/config"
	otelMocks "vprime/infras/otel/mocks"
	transport "vprime/transport/http"
	"vprime/transport/http/middleware"
	"vprime/transport/http/router"

	"github.com/stretchr/testify/assert"
)

type pinger struct {
	err error
}

func (p pinger) Ping(context.Context) error {
	return p.err
}

func newServer(env string, db transport.Pinger) *transport.HTTP {
	cfg := &config.Config{}
	cfg.Server.Env = env

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, nil)

	return transport.New(cfg, router.Router{AuthRole: passThrough{}}, app, db, otelMocks.NewOtel(), nil)
}

type passThrough struct{}

func (passThrough) Auth(next http.Handler) http.Handler { return next }
func (passThrough) RBAC(next http.Handler) http.Handler { return next }

func get(server http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHealth(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		server := newServer("production", pinger{})

		rec := get(server, "/health")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"OK"}`, rec.Body.String())
		assert.Equal(t, transport.ServerStateReady, server.State())
	})

	t.Run("database unreachable", func(t *testing.T) {
		server := newServer("production", pinger{err: errors.New("dial tcp: refused")})

		rec := get(server, "/health")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"message":"SERVER UNHEALTHY"}`, rec.Body.String())
	})
}

func TestSwaggerOnlyOutsideProduction(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(newServer("production", pinger{}), "/swagger/index.html").Code)
	assert.Equal(t, http.StatusOK, get(newServer("development", pinger{}), "/swagger/index.html").Code)
}

func TestAPIRoutesAreMounted(t *testing.T) {
	server := newServer("production", pinger{})

	assert.Equal(t, http.StatusNotFound, get(server, "/api/unknown").Code)
}
