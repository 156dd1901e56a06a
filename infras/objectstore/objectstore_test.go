package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"
	"vprime/config"
	"vprime/infras/otel/mocks"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)

	return &s3.PutObjectOutput{}, f.err
}

func newTestStore(client s3API, publicDomain, endpoint string) *s3Store {
	cfg := &config.Config{}
	cfg.External.Storage.PublicDomain = publicDomain
	cfg.External.Storage.S3.APIEndpoint = endpoint

	return &s3Store{client: client, config: cfg, otel: mocks.NewOtel()}
}

func TestS3Store_Put(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		clientErr   error
		expectedURL string
		expectedErr error
	}{
		{
			name:        "uploads and returns public url",
			data:        []byte("webp-bytes"),
			expectedURL: "https://cdn.vprime.test/images/1700000000000-front.webp",
		},
		{
			name:        "empty body is rejected before the network",
			data:        nil,
			expectedErr: ErrEmptyObject,
		},
		{
			name:      "remote failure propagates",
			data:      []byte("webp-bytes"),
			clientErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeS3{err: tt.clientErr}
			store := newTestStore(client, "https://cdn.vprime.test/", "")

			url, err := store.Put(context.Background(), "images", "1700000000000-front.webp", "image/webp", tt.data)

			switch {
			case tt.expectedErr != nil:
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, client.input)
			case tt.clientErr != nil:
				require.ErrorIs(t, err, tt.clientErr)
				assert.Empty(t, url)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.expectedURL, url)
				assert.Equal(t, "images", aws.ToString(client.input.Bucket))
				assert.Equal(t, "1700000000000-front.webp", aws.ToString(client.input.Key))
				assert.Equal(t, "image/webp", aws.ToString(client.input.ContentType))
				assert.Equal(t, int64(len(tt.data)), aws.ToInt64(client.input.ContentLength))
				assert.Equal(t, tt.data, client.body)
			}
		})
	}
}

func TestS3Store_PublicURLFallsBackToEndpoint(t *testing.T) {
	store := newTestStore(&fakeS3{}, "", "https://account.r2.cloudflarestorage.com")

	assert.Equal(t, "https://account.r2.cloudflarestorage.com/testimonials/1-a%20b.jpg", store.PublicURL("testimonials", "1-a b.jpg"))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/images/dir/x.webp", publicURL("http://localhost:9000", "images", "dir/x.webp"))
	assert.Equal(t, "http://localhost:9000/images/x.webp", publicURL("http://localhost:9000///", "images", "x.webp"))
}
