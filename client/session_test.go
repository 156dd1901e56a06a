package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"vprime/client"
	authDto "vprime/internal/domains/auth/model/dto"
	projectDto "vprime/internal/domains/project/model/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authServer(t *testing.T, refreshStatus *atomic.Int32) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			req := authDto.LoginRequest{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			if req.Password != "correct-horse" {
				writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})

				return
			}

			writeJSON(t, w, http.StatusOK, authDto.LoginResponse{AccessToken: "access-1", RefreshToken: "refresh-1", ExpiresIn: 900})
		case "/api/auth/refresh":
			if code := int(refreshStatus.Load()); code != http.StatusOK {
				writeJSON(t, w, code, map[string]string{"error": "invalid token"})

				return
			}

			req := authDto.RefreshTokenRequest{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "refresh-1", req.RefreshToken)

			writeJSON(t, w, http.StatusOK, authDto.LoginResponse{AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresIn: 900})
		case "/api/gallery":
			if r.Header.Get("Authorization") != "Bearer access-1" && r.Header.Get("Authorization") != "Bearer access-2" {
				writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "Missing authorization header"})

				return
			}

			writeJSON(t, w, http.StatusCreated, projectDto.ProjectResponse{ID: 1, Slug: "bmw-e90-1", ExtraImages: []string{}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestSession_LoginAndAuthenticatedCalls(t *testing.T) {
	status := &atomic.Int32{}
	status.Store(http.StatusOK)

	srv := authServer(t, status)
	defer srv.Close()

	c := client.New(srv.URL)
	sess := client.NewSession(c)
	assert.False(t, sess.Authenticated())

	_, err := sess.Client().CreateProject(context.Background(), projectDto.CreateProjectRequest{CarModel: "BMW E90"})
	assert.Equal(t, http.StatusUnauthorized, client.StatusCode(err))

	require.NoError(t, sess.Login(context.Background(), " Admin@VPrime.test ", "correct-horse"))
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "admin@vprime.test", sess.Email())
	assert.Equal(t, "access-1", sess.AccessToken())

	created, err := sess.Client().CreateProject(context.Background(), projectDto.CreateProjectRequest{CarModel: "BMW E90"})
	require.NoError(t, err)
	assert.Equal(t, "bmw-e90-1", created.Slug)

	// The base client stays anonymous.
	_, err = c.CreateProject(context.Background(), projectDto.CreateProjectRequest{CarModel: "BMW E90"})
	assert.Equal(t, http.StatusUnauthorized, client.StatusCode(err))

	sess.Logout()
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Email())
}

func TestSession_LoginFailure(t *testing.T) {
	status := &atomic.Int32{}
	srv := authServer(t, status)
	defer srv.Close()

	sess := client.NewSession(client.New(srv.URL))

	err := sess.Login(context.Background(), "admin@vprime.test", "wrong")
	assert.Equal(t, http.StatusUnauthorized, client.StatusCode(err))
	assert.False(t, sess.Authenticated())
}

func TestSession_Refresh(t *testing.T) {
	status := &atomic.Int32{}
	status.Store(http.StatusOK)

	srv := authServer(t, status)
	defer srv.Close()

	sess := client.NewSession(client.New(srv.URL))

	assert.ErrorIs(t, sess.Refresh(context.Background()), client.ErrUnauthenticated)

	require.NoError(t, sess.Login(context.Background(), "admin@vprime.test", "correct-horse"))
	require.NoError(t, sess.Refresh(context.Background()))
	assert.Equal(t, "access-2", sess.AccessToken())
	assert.Equal(t, "admin@vprime.test", sess.Email())

	t.Run("rejected refresh ends the session", func(t *testing.T) {
		sess := client.NewSession(client.New(srv.URL))
		require.NoError(t, sess.Login(context.Background(), "admin@vprime.test", "correct-horse"))

		status.Store(http.StatusUnauthorized)
		defer status.Store(http.StatusOK)

		err := sess.Refresh(context.Background())
		assert.Equal(t, http.StatusUnauthorized, client.StatusCode(err))
		assert.False(t, sess.Authenticated())
	})

	t.Run("server errors keep the session", func(t *testing.T) {
		sess := client.NewSession(client.New(srv.URL))
		require.NoError(t, sess.Login(context.Background(), "admin@vprime.test", "correct-horse"))

		status.Store(http.StatusInternalServerError)
		defer status.Store(http.StatusOK)

		assert.Error(t, sess.Refresh(context.Background()))
		assert.True(t, sess.Authenticated())
	})
}
