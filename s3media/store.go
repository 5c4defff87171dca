package s3media

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Config holds object storage settings. AccessKey and SecretKey are
// optional; when empty the default AWS credential chain is used.
type Config struct {
	Region        string
	Bucket        string
	BaseEndpoint  string
	PublicBaseURL string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
}

// Store implements authcore.MediaStore on an S3 bucket.
type Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewStore builds the S3 client and validates cfg.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3media: bucket is required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, errors.New("s3media: public base URL is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

func objectKey(fileRef string) string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%02d/%s%s", d.Year(), d.Month(), uuid.NewString(), strings.ToLower(filepath.Ext(fileRef)))
}

// Store uploads the local file at fileRef and returns its public URL. The
// local file is removed afterwards regardless of outcome; it is a received
// upload spooled to disk, not caller data.
func (s *Store) Store(ctx context.Context, fileRef string) (string, error) {
	defer os.Remove(fileRef)

	f, err := os.Open(fileRef)
	if err != nil {
		return "", fmt.Errorf("s3media: open upload: %w", err)
	}
	defer f.Close()

	key := objectKey(fileRef)
	contentType := mime.TypeByExtension(filepath.Ext(fileRef))
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3media: put object: %w", err)
	}

	return s.publicBaseURL + "/" + key, nil
}
