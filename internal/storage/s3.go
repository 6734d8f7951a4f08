package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// ErrBucketRequired is returned when no bucket name is provided.
var ErrBucketRequired = errors.New("storage: bucket name is required")

// Compile-time check that S3Store implements ObjectStore.
var _ ObjectStore = (*S3Store)(nil)

// Config holds the configuration for the S3 object store, including the five
// mutually exclusive credential forms.
type Config struct {
	Bucket                string
	Region                string
	Endpoint              string // Optional: for custom S3-compatible endpoints
	CredentialsJSON       string // Inline JSON credential string
	CredentialsBase64     string // Base64-encoded JSON credential
	AccessKeyID           string // Explicit key pair
	SecretAccessKey       string
	SharedCredentialsFile string // Credentials-file path
	EnableObjectACL       bool   // Attempt per-object public-read grants
}

// S3Store is the S3 implementation of ObjectStore. It is constructed once at
// startup with resolved credentials and passed by reference to its callers.
type S3Store struct {
	client          *s3.Client
	presigner       *s3.PresignClient
	bucket          string
	region          string
	endpoint        string
	enableObjectACL bool
	logger          *slog.Logger
}

// NewS3Store creates a new S3Store. Credential resolution happens here, once,
// following the ordered forms in Config.
func NewS3Store(ctx context.Context, cfg Config, logger *slog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}
	if logger == nil {
		logger = slog.Default()
	}

	credOpts, source, err := resolveCredentials(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve credentials: %w", err)
	}

	configOpts := append([]func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}, credOpts...)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, clientOpts...)

	logger.Info("object store configured",
		slog.String("bucket", cfg.Bucket),
		slog.String("region", cfg.Region),
		slog.String("credential_source", source),
	)

	return &S3Store{
		client:          client,
		presigner:       s3.NewPresignClient(client),
		bucket:          cfg.Bucket,
		region:          cfg.Region,
		endpoint:        cfg.Endpoint,
		enableObjectACL: cfg.EnableObjectACL,
		logger:          logger,
	}, nil
}

// UploadFile uploads a local file and returns the public URL.
func (s *S3Store) UploadFile(ctx context.Context, localPath, key string) (string, error) {
	f, err := os.Open(localPath) // #nosec G304 - path built by trusted caller
	if err != nil {
		return "", fmt.Errorf("storage: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         f,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", key, err)
	}

	s.grantPublicRead(ctx, key)

	return s.PublicURL(key), nil
}

// UploadBytes uploads an in-memory buffer and returns the public URL.
func (s *S3Store) UploadBytes(ctx context.Context, data []byte, key, contentType string) (string, error) {
	if contentType == "" {
		contentType = "video/mp4"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", key, err)
	}

	s.grantPublicRead(ctx, key)

	return s.PublicURL(key), nil
}

// Delete removes an object.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// SignedURL returns a presigned read URL for the object.
func (s *S3Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("storage: presign %s: %w", key, err)
	}
	return req.URL, nil
}

// PublicURL computes the public URL for a key from the bucket and region
// alone; no round-trip is needed.
func (s *S3Store) PublicURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// grantPublicRead attempts a per-object public-read ACL grant. Buckets that
// enforce uniform access control reject per-object ACLs; that specific
// rejection is expected and swallowed, since the bucket-level policy may
// already grant public read. Grants are skipped entirely unless enabled.
func (s *S3Store) grantPublicRead(ctx context.Context, key string) {
	if !s.enableObjectACL {
		return
	}

	_, err := s.client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACLPublicRead,
	})
	if err == nil {
		return
	}

	if isACLUnsupported(err) {
		s.logger.Debug("per-object ACL not supported by bucket, relying on bucket policy",
			slog.String("key", key),
		)
		return
	}

	s.logger.Warn("could not grant public read ACL",
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

// isACLUnsupported reports whether the error means the bucket's permission
// model forbids per-object ACLs, as opposed to a genuine failure.
func isACLUnsupported(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "AccessControlListNotSupported", "AccessDenied", "InvalidRequest":
		return true
	default:
		return false
	}
}
