package utils

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"cleanearth/internal/config"
	"cleanearth/internal/services"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// pngHeader is enough for content sniffing to report image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type mockUploader struct {
	failures int
	calls    int
	params   uploader.UploadParams
}

func (m *mockUploader) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	m.calls++
	m.params = params
	if m.calls <= m.failures {
		return nil, errors.New("connection reset")
	}
	return &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/after.png", PublicID: "after"}, nil
}

func newTestService(up imageUploader, maxSize int64) *CloudinaryService {
	return newCloudinaryService(up, config.CloudinaryConfig{MaxFileSize: maxSize, MaxRetries: 2}, zap.NewNop())
}

func TestUploadImage(t *testing.T) {
	up := &mockUploader{}
	svc := newTestService(up, 1024)

	url, err := svc.UploadImage(context.Background(), &services.ImageUpload{
		Filename: "after.png",
		Reader:   bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/after.png", url)
	assert.Equal(t, defaultFolder, up.params.Folder)
}

func TestUploadImageRetries(t *testing.T) {
	up := &mockUploader{failures: 2}
	svc := newTestService(up, 1024)

	_, err := svc.UploadImage(context.Background(), &services.ImageUpload{Reader: bytes.NewReader(pngHeader)})
	require.NoError(t, err)
	assert.Equal(t, 3, up.calls)

	up = &mockUploader{failures: 5}
	svc = newTestService(up, 1024)
	_, err = svc.UploadImage(context.Background(), &services.ImageUpload{Reader: bytes.NewReader(pngHeader)})
	require.Error(t, err)
	assert.Equal(t, services.ErrorTypeInternal, services.GetServiceError(err).Type)
}

func TestUploadImageRejects(t *testing.T) {
	up := &mockUploader{}
	svc := newTestService(up, 16)

	_, err := svc.UploadImage(context.Background(), &services.ImageUpload{Reader: bytes.NewReader([]byte("hello"))})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, services.GetServiceError(err).GetStatusCode())

	_, err = svc.UploadImage(context.Background(), &services.ImageUpload{Reader: bytes.NewReader(append(pngHeader, make([]byte, 32)...))})
	require.Error(t, err)
	assert.Contains(t, services.GetServiceError(err).Message, "exceeds")

	_, err = svc.UploadImage(context.Background(), &services.ImageUpload{Size: 1 << 20, Reader: bytes.NewReader(pngHeader)})
	require.Error(t, err)

	_, err = svc.UploadImage(context.Background(), nil)
	require.Error(t, err)

	assert.Zero(t, up.calls, "rejected files are never uploaded")
}

func TestNewCloudinaryServiceNeedsCredentials(t *testing.T) {
	_, err := NewCloudinaryService(config.CloudinaryConfig{}, zap.NewNop())
	assert.Error(t, err)
}
