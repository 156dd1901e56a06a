// Package client is a typed HTTP client for the vprime API.
//
//	c := client.New("https://api.example.com")
//	sess := client.NewSession(c)
//	if err := sess.Login(ctx, email, password); err != nil { ... }
//	admin := sess.Client()
//	project, err := admin.CreateProject(ctx, req)
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	authDto "vprime/internal/domains/auth/model/dto"
	mediaDto "vprime/internal/domains/media/model/dto"
	projectDto "vprime/internal/domains/project/model/dto"
	testimonialDto "vprime/internal/domains/testimonial/model/dto"
	"vprime/shared/constant"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 30 * time.Second

var ErrUnauthenticated = errors.New("session is not authenticated")

// APIError is a non-2xx response. Message comes from the {"error": ...} body when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vprime api: %d %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status of an *APIError, or 0 for any other error.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	return 0
}

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	AccessToken() string
}

// errorBody is the {"error": ...} or {"message": ...} envelope of a failed call.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	rest       *resty.Client
	tokens     TokenSource
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.rest = resty.NewWithClient(c.httpClient).
		SetBaseURL(c.baseURL).
		SetHeader(constant.RequestHeaderAccept, constant.ContentTypeJSON).
		SetError(&errorBody{})

	return c
}

// with returns a copy that authenticates through tokens.
func (c *Client) with(tokens TokenSource) *Client {
	cp := *c
	cp.tokens = tokens

	return &cp
}

type ListProjectsParams struct {
	Page   int
	Limit  int
	Search string
	// Sort is "asc" or "desc" by creation time.
	Sort string
}

func (p ListProjectsParams) values() url.Values {
	v := pageValues(p.Page, p.Limit)

	if p.Search != constant.Empty {
		v.Set(constant.RequestParamSearch, p.Search)
	}

	if p.Sort != constant.Empty {
		v.Set(constant.RequestParamSort, p.Sort)
	}

	return v
}

func pageValues(page, limit int) url.Values {
	v := url.Values{}

	if page > 0 {
		v.Set(constant.RequestParamPage, strconv.Itoa(page))
	}

	if limit > 0 {
		v.Set(constant.RequestParamLimit, strconv.Itoa(limit))
	}

	return v
}

func (c *Client) ListProjects(ctx context.Context, params ListProjectsParams) (res projectDto.ListProjectsResponse, err error) {
	err = c.do(ctx, http.MethodGet, "/api/gallery", params.values(), nil, &res)

	return res, err
}

func (c *Client) GetProject(ctx context.Context, slug string) (res projectDto.ProjectResponse, err error) {
	err = c.do(ctx, http.MethodGet, "/api/gallery/"+url.PathEscape(slug), nil, nil, &res)

	return res, err
}

func (c *Client) CreateProject(ctx context.Context, req projectDto.CreateProjectRequest) (res projectDto.ProjectResponse, err error) {
	err = c.do(ctx, http.MethodPost, "/api/gallery", nil, req, &res)

	return res, err
}

func (c *Client) UpdateProject(ctx context.Context, id int64, req projectDto.UpdateProjectRequest) (res projectDto.ProjectResponse, err error) {
	err = c.do(ctx, http.MethodPut, "/api/gallery/"+strconv.FormatInt(id, 10), nil, req, &res)

	return res, err
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/gallery/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) LikeProject(ctx context.Context, id int64) (int64, error) {
	res := projectDto.LikeResponse{}
	err := c.do(ctx, http.MethodPost, "/api/gallery/"+strconv.FormatInt(id, 10)+"/like", nil, nil, &res)

	return res.Likes, err
}

func (c *Client) ListTestimonials(ctx context.Context, page, limit int) (res testimonialDto.ListTestimonialsResponse, err error) {
	err = c.do(ctx, http.MethodGet, "/api/testimonials", pageValues(page, limit), nil, &res)

	return res, err
}

func (c *Client) CreateTestimonial(ctx context.Context, req testimonialDto.CreateTestimonialRequest) (res testimonialDto.TestimonialResponse, err error) {
	err = c.do(ctx, http.MethodPost, "/api/testimonials", nil, req, &res)

	return res, err
}

func (c *Client) DeleteTestimonial(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/testimonials/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (res authDto.LoginResponse, err error) {
	err = c.do(ctx, http.MethodPost, "/api/auth/login", nil, authDto.LoginRequest{Email: email, Password: password}, &res)

	return res, err
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (res authDto.LoginResponse, err error) {
	err = c.do(ctx, http.MethodPost, "/api/auth/refresh", nil, authDto.RefreshTokenRequest{RefreshToken: refreshToken}, &res)

	return res, err
}

// UploadImage sends one raw image through the server-side pipeline.
func (c *Client) UploadImage(ctx context.Context, bucket string, file UploadFile) (res mediaDto.UploadImageResponse, err error) {
	req := c.request(ctx).
		SetQueryParamsFromValues(bucketValues(bucket)).
		SetMultipartFields(multipartFields(constant.FormFile, []UploadFile{file})...)

	err = c.execute(req, http.MethodPost, "/api/uploads", &res)

	return res, err
}

// UploadImages uploads a batch. URLs come back in the order of files.
func (c *Client) UploadImages(ctx context.Context, bucket string, files []UploadFile) ([]string, error) {
	req := c.request(ctx).
		SetQueryParamsFromValues(bucketValues(bucket)).
		SetMultipartFields(multipartFields(constant.FormFiles, files)...)

	res := mediaDto.UploadImagesResponse{}
	if err := c.execute(req, http.MethodPost, "/api/uploads/batch", &res); err != nil {
		return nil, err
	}

	return res.URLs, nil
}

func bucketValues(bucket string) url.Values {
	if bucket == constant.Empty {
		return nil
	}

	return url.Values{constant.RequestParamBucket: []string{bucket}}
}

// request starts a call carrying the current bearer token, if any.
func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.rest.R().SetContext(ctx)

	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != constant.Empty {
			req.SetAuthToken(token)
		}
	}

	return req
}

// do sends payload as JSON and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	req := c.request(ctx).SetQueryParamsFromValues(query)

	if payload != nil {
		req.SetHeader(constant.RequestHeaderContentType, constant.ContentTypeJSON).SetBody(payload)
	}

	return c.execute(req, method, path, out)
}

func (c *Client) execute(req *resty.Request, method, path string, out any) error {
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if !resp.IsSuccess() {
		return apiError(resp)
	}

	return nil
}

func apiError(resp *resty.Response) error {
	message := strings.TrimSpace(resp.String())

	if body, ok := resp.Error().(*errorBody); ok {
		switch {
		case body.Error != constant.Empty:
			message = body.Error
		case body.Message != constant.Empty:
			message = body.Message
		}
	}

	if message == constant.Empty {
		message = http.StatusText(resp.StatusCode())
	}

	return &APIError{StatusCode: resp.StatusCode(), Message: message}
}
