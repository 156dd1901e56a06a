package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"vprime/client"
	authDto "vprime/internal/domains/auth/model/dto"
	projectDto "vprime/internal/domains/project/model/dto"
	testimonialDto "vprime/internal/domains/testimonial/model/dto"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, code int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_ListProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/gallery", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "6", r.URL.Query().Get("limit"))
		assert.Equal(t, "audi a6", r.URL.Query().Get("search"))
		assert.Equal(t, "asc", r.URL.Query().Get("sort"))
		assert.Empty(t, r.Header.Get("Authorization"))

		writeJSON(t, w, http.StatusOK, projectDto.ListProjectsResponse{
			Projects:   []projectDto.ProjectResponse{{ID: 7, Slug: "audi-a6-1", ExtraImages: []string{}}},
			Total:      7,
			Page:       2,
			TotalPages: 2,
		})
	}))
	defer srv.Close()

	res, err := client.New(srv.URL+"/").ListProjects(context.Background(), client.ListProjectsParams{Page: 2, Limit: 6, Search: "audi a6", Sort: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	require.Len(t, res.Projects, 1)
	assert.Equal(t, "audi-a6-1", res.Projects[0].Slug)
}

func TestClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/gallery/missing":
			writeJSON(t, w, http.StatusNotFound, map[string]string{"error": "project not found"})
		case "/api/gallery/plain":
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, "upstream is restarting\n")
		case "/api/gallery/9/like":
			writeJSON(t, w, http.StatusTooManyRequests, map[string]string{"message": "REQUEST LIMIT EXCEEDED"})
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := client.New(srv.URL)

	_, err := c.GetProject(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, client.StatusCode(err))
	assert.Contains(t, err.Error(), "project not found")

	_, err = c.GetProject(context.Background(), "plain")
	assert.Equal(t, http.StatusServiceUnavailable, client.StatusCode(err))
	assert.Contains(t, err.Error(), "upstream is restarting")

	_, err = c.LikeProject(context.Background(), 9)
	assert.Equal(t, http.StatusTooManyRequests, client.StatusCode(err))
	assert.Contains(t, err.Error(), "REQUEST LIMIT EXCEEDED")

	err = c.DeleteTestimonial(context.Background(), 1)
	assert.Equal(t, http.StatusBadGateway, client.StatusCode(err))
	assert.Contains(t, err.Error(), "Bad Gateway")

	assert.Equal(t, 0, client.StatusCode(io.EOF))
}

func TestClient_MutationsSendJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/testimonials":
			req := testimonialDto.CreateTestimonialRequest{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "https://cdn.test/r.webp", req.ReviewImageURL)

			writeJSON(t, w, http.StatusCreated, testimonialDto.TestimonialResponse{ID: 3, ReviewImageURL: req.ReviewImageURL})
		case r.Method == http.MethodPut && r.URL.Path == "/api/gallery/12":
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"car_model":"BMW E90","description":null,"before_image_url":null,"after_image_url":null,"production_year":null,"extra_images":["a","b"]}`, string(body))

			writeJSON(t, w, http.StatusOK, projectDto.ProjectResponse{ID: 12, CarModel: "BMW E90", ExtraImages: []string{"a", "b"}})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := client.New(srv.URL)

	created, err := c.CreateTestimonial(context.Background(), testimonialDto.CreateTestimonialRequest{ReviewImageURL: "https://cdn.test/r.webp"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	carModel := "BMW E90"
	extra := pq.StringArray{"a", "b"}
	req := projectDto.UpdateProjectRequest{CarModel: &carModel, ExtraImages: &extra}

	updated, err := c.UpdateProject(context.Background(), 12, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, updated.ExtraImages)
}

func TestClient_UploadImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/uploads/batch", r.URL.Path)
		assert.Equal(t, "gallery", r.URL.Query().Get("bucket"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		files := r.MultipartForm.File["files"]
		require.Len(t, files, 2)
		assert.Equal(t, "a.jpg", files[0].Filename)
		assert.Equal(t, "image/jpeg", files[0].Header.Get("Content-Type"))
		assert.Equal(t, "b.png", files[1].Filename)

		writeJSON(t, w, http.StatusOK, map[string][]string{"urls": {"u1", "u2"}})
	}))
	defer srv.Close()

	urls, err := client.New(srv.URL).UploadImages(context.Background(), "gallery", []client.UploadFile{
		{Name: "a.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpeg")},
		{Name: "b.png", Body: strings.NewReader("png")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, urls)
}

func TestClient_UploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/uploads", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "car.webp", header.Filename)

		writeJSON(t, w, http.StatusOK, map[string]string{"url": "https://cdn.test/images/1-car.webp", "file_name": header.Filename})
	}))
	defer srv.Close()

	res, err := client.New(srv.URL).UploadImage(context.Background(), "", client.UploadFile{Name: "car.webp", Body: strings.NewReader("webp")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/images/1-car.webp", res.URL)
	assert.Equal(t, "car.webp", res.FileName)
}

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := authDto.LoginRequest{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin@vprime.test", req.Email)

		writeJSON(t, w, http.StatusOK, authDto.LoginResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", ExpiresIn: 900})
	}))
	defer srv.Close()

	res, err := client.New(srv.URL).Login(context.Background(), "admin@vprime.test", "pw")
	require.NoError(t, err)
	assert.Equal(t, "a", res.AccessToken)
	assert.Equal(t, int64(900), res.ExpiresIn)
}
