package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"cleanearth/internal/config"
	"cleanearth/internal/services"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

const (
	defaultMaxImageSize = 10 * 1024 * 1024
	defaultFolder       = "cleanearth/campaigns"
	uploadTimeout       = 30 * time.Second
)

// allowedImageTypes are the sniffed content types accepted for upload
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// imageUploader is the part of the Cloudinary upload API we use
type imageUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryService stores completion photos in Cloudinary
type CloudinaryService struct {
	uploader    imageUploader
	folder      string
	maxFileSize int64
	maxRetries  int
	logger      *zap.Logger
}

// NewCloudinaryService creates a Cloudinary-backed image store
func NewCloudinaryService(cfg config.CloudinaryConfig, logger *zap.Logger) (*CloudinaryService, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("cloudinary credentials are missing")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	service := newCloudinaryService(&cld.Upload, cfg, logger)
	logger.Info("Cloudinary service initialized", zap.String("folder", service.folder))
	return service, nil
}

func newCloudinaryService(up imageUploader, cfg config.CloudinaryConfig, logger *zap.Logger) *CloudinaryService {
	s := &CloudinaryService{
		uploader:    up,
		folder:      cfg.Folder,
		maxFileSize: cfg.MaxFileSize,
		maxRetries:  cfg.MaxRetries,
		logger:      logger,
	}
	if s.folder == "" {
		s.folder = defaultFolder
	}
	if s.maxFileSize <= 0 {
		s.maxFileSize = defaultMaxImageSize
	}
	if s.maxRetries < 0 {
		s.maxRetries = 0
	}
	return s
}

// UploadImage validates and uploads an image, returning its secure URL.
// Oversized or non-image files are validation errors.
func (c *CloudinaryService) UploadImage(ctx context.Context, upload *services.ImageUpload) (string, error) {
	if upload == nil || upload.Reader == nil {
		return "", services.NewValidationError("No image provided", nil)
	}
	if upload.Size > c.maxFileSize {
		return "", services.NewValidationError(fmt.Sprintf("Image exceeds the %d byte limit", c.maxFileSize), nil)
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, c.maxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > c.maxFileSize {
		return "", services.NewValidationError(fmt.Sprintf("Image exceeds the %d byte limit", c.maxFileSize), nil)
	}

	contentType := http.DetectContentType(data)
	if !slices.Contains(allowedImageTypes, contentType) {
		c.logger.Warn("Rejected upload content type",
			zap.String("filename", upload.Filename),
			zap.String("content_type", contentType),
		)
		return "", services.NewValidationError("Unsupported image type: "+contentType, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	params := uploader.UploadParams{
		Folder:         c.folder,
		UseFilename:    ptrBool(true),
		UniqueFilename: ptrBool(true),
		ResourceType:   "image",
	}

	start := time.Now()
	var result *uploader.UploadResult
	operation := func() error {
		res, err := c.uploader.Upload(ctx, bytes.NewReader(data), params)
		if err != nil {
			return err
		}
		if res.Error.Message != "" {
			return fmt.Errorf("cloudinary: %s", res.Error.Message)
		}
		result = res
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = uploadTimeout / 2
	err = backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx),
		func(err error, d time.Duration) {
			c.logger.Warn("Upload attempt failed",
				zap.String("filename", upload.Filename),
				zap.Error(err),
				zap.Duration("backoff", d),
			)
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload image after %d retries: %w", c.maxRetries, err)
	}

	c.logger.Info("Image uploaded",
		zap.String("filename", upload.Filename),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)),
		zap.String("public_id", result.PublicID),
	)
	return result.SecureURL, nil
}

func ptrBool(b bool) *bool {
	return &b
}
