package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/feastcraft/backend/config"
	"github.com/pageza/feastcraft/backend/internal/llm"
	"github.com/pageza/feastcraft/backend/internal/models"
)

// maxImageBytes caps the size of an image downloaded for mirroring
const maxImageBytes = 20 << 20

// ImageServiceConfig wires an ImageService
type ImageServiceConfig struct {
	Images      llm.ImageGenerator
	Credentials func() error
	// Store mirrors generated images, nil returns the provider URL
	Store      ImageStore
	Usage      UsageRecorder
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
}

// ImageService handles image generation and storage operations
type ImageService struct {
	images      llm.ImageGenerator
	credentials func() error
	store       ImageStore
	client      *http.Client
	timeout     time.Duration
	recorder    callRecorder
	logger      *zap.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(cfg ImageServiceConfig) *ImageService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("images")
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	credentials := cfg.Credentials
	if credentials == nil {
		credentials = func() error { return nil }
	}
	return &ImageService{
		images:      cfg.Images,
		credentials: credentials,
		store:       cfg.Store,
		client:      client,
		timeout:     cfg.Timeout,
		recorder:    callRecorder{usage: cfg.Usage, logger: logger, now: time.Now},
		logger:      logger,
	}
}

// GenerateMealImage makes one generation attempt for the card illustration of a meal.
// A configured store receives a copy, and its URL is returned unless mirroring fails.
func (s *ImageService) GenerateMealImage(ctx context.Context, mealName string) (string, error) {
	if err := s.credentials(); err != nil {
		return "", err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	prompt := MealImagePrompt(mealName)
	s.logger.Debug("generating image", zap.String("meal", mealName))

	started := s.recorder.now()
	imageURL, err := s.images.GenerateImage(ctx, prompt)
	s.recorder.record(ctx, models.KindMealImage, llm.ProviderOpenAI, s.images.Model(), started, nil, err)
	if err != nil {
		return "", err
	}

	if s.store == nil {
		return imageURL, nil
	}

	mirrored, err := s.mirror(ctx, imageURL)
	if err != nil {
		s.logger.Warn("failed to mirror image, returning original URL", zap.Error(err))
		return imageURL, nil
	}
	return mirrored, nil
}

// mirror downloads an image from URL and uploads it to the store
func (s *ImageService) mirror(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image, status: %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = "image/png"
	}

	key := fmt.Sprintf("meal-images/%s.png", uuid.New().String())
	return s.store.Upload(ctx, key, imageData, contentType)
}

// s3API is the subset of the S3 client used for mirroring
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads images to a bucket and hands out presigned links
type S3ImageStore struct {
	client s3API
	bucket string
	sign   func(ctx context.Context, key string) (string, error)
	logger *zap.Logger
}

// NewS3ImageStore creates a store backed by the configured bucket. Links expire after ttl.
func NewS3ImageStore(s3Config *config.S3Config, ttl time.Duration, logger *zap.Logger) *S3ImageStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3ImageStore{
		client: s3Config.Client,
		bucket: s3Config.BucketName,
		sign: func(ctx context.Context, key string) (string, error) {
			return s3Config.GeneratePresignedURL(ctx, key, ttl)
		},
		logger: logger.Named("s3"),
	}
}

// Upload implements ImageStore
func (s *S3ImageStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url, err := s.sign(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to presign image URL: %w", err)
	}
	s.logger.Info("uploaded image", zap.String("bucket", s.bucket), zap.String("key", key))
	return url, nil
}
