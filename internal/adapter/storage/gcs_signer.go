package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"bizlevel/internal/config"
	"bizlevel/internal/domain"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSSigner issues V4 signed GET URLs for artifact objects.
type GCSSigner struct {
	bucket string
	client *gcs.Client
	sign   func(object string, opts *gcs.SignedURLOptions) (string, error)
}

// ClientOptions resolves credentials from the config file path, then the
// GOOGLE_APPLICATION_CREDENTIALS_JSON / GOOGLE_APPLICATION_CREDENTIALS variables.
func ClientOptions(cfg config.StorageConfig) []option.ClientOption {
	creds := strings.TrimSpace(cfg.CredentialsFile)
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	}
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

// NewGCSSigner opens a storage client; signing uses the client's credentials.
func NewGCSSigner(ctx context.Context, cfg config.StorageConfig) (*GCSSigner, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is not configured")
	}
	opts := append(ClientOptions(cfg), option.WithScopes(gcs.ScopeReadOnly))
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSSigner{
		bucket: cfg.Bucket,
		client: client,
		sign:   client.Bucket(cfg.Bucket).SignedURL,
	}, nil
}

// NewGCSKeySigner signs offline with an explicit service account key.
func NewGCSKeySigner(bucket, accessID string, privateKeyPEM []byte) *GCSSigner {
	return &GCSSigner{
		bucket: bucket,
		sign: func(object string, opts *gcs.SignedURLOptions) (string, error) {
			opts.GoogleAccessID = accessID
			opts.PrivateKey = privateKeyPEM
			return gcs.SignedURL(bucket, object, opts)
		},
	}
}

func (s *GCSSigner) SignedURL(ctx context.Context, objectPath string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	object := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if object == "" {
		return "", domain.NewInvalidInputError("artifact has no file path")
	}
	// stored paths may carry the bucket name as their first segment
	object = strings.TrimPrefix(object, s.bucket+"/")

	url, err := s.sign(object, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", domain.NewUpstreamError("failed to sign artifact URL", err)
	}
	return url, nil
}

// Close releases the underlying client, if any.
func (s *GCSSigner) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
