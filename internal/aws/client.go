package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// Error is a constant AWS error.
type Error string

const (
	ErrNoCredentials      = Error("no AWS credentials found")
	ErrExpiredCredentials = Error("AWS credentials have expired")
	ErrInvalidObjectURL   = Error("invalid S3 object URL")
	ErrObjectNotFound     = Error("S3 object not found")
)

func (e Error) Error() string {
	return string(e)
}

// DefaultRegion is used when neither the config nor the environment names one.
const DefaultRegion = "us-east-1"

// Scheme is the URL scheme of S3 object locations.
const Scheme = "s3"

// ClientConfig selects the shared profile and region used for S3 access.
type ClientConfig struct {
	Profile string
	Region  string
	Timeout time.Duration
}

// ObjectReader reads whole objects from a bucket.
type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// S3Client lazily builds one S3 client per region.
type S3Client struct {
	config  ClientConfig
	clients map[string]*s3.Client
	mx      sync.RWMutex
}

// NewS3Client returns a client for the given profile and region.
// An empty region falls back to the profile's shared config region.
func NewS3Client(cfg ClientConfig) *S3Client {
	if cfg.Region == "" {
		cfg.Region = NewProfiles().Region(cfg.Profile)
	}
	return &S3Client{
		config:  cfg,
		clients: make(map[string]*s3.Client),
	}
}

// Config returns a copy of the client configuration.
func (c *S3Client) Config() ClientConfig {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return c.config
}

// ReadObject downloads bucket/key into memory.
func (c *S3Client) ReadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	cl, err := c.client(ctx, c.config.Region)
	if err != nil {
		return nil, err
	}
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	out, err := cl.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, WrapAWSError(err, "get s3://"+bucket+"/"+key)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}

	return raw, nil
}

// client retrieves or creates the S3 client for region.
func (c *S3Client) client(ctx context.Context, region string) (*s3.Client, error) {
	c.mx.RLock()
	if cl, ok := c.clients[region]; ok {
		c.mx.RUnlock()
		return cl, nil
	}
	c.mx.RUnlock()

	c.mx.Lock()
	defer c.mx.Unlock()

	if cl, ok := c.clients[region]; ok {
		return cl, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if c.config.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.config.Profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, WrapAWSError(err, "load AWS config")
	}

	cl := s3.NewFromConfig(cfg)
	c.clients[region] = cl

	return cl, nil
}

// IsObjectURL returns true if loc names an S3 object.
func IsObjectURL(loc string) bool {
	return strings.HasPrefix(loc, Scheme+"://")
}

// ParseObjectURL splits s3://bucket/key into its parts.
func ParseObjectURL(loc string) (bucket, key string, err error) {
	u, err := url.Parse(loc)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidObjectURL, loc)
	}
	if u.Scheme != Scheme || u.Host == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidObjectURL, loc)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("%w: missing key in %s", ErrInvalidObjectURL, loc)
	}

	return u.Host, key, nil
}

// WrapAWSError wraps AWS SDK errors with additional context.
func WrapAWSError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException":
			return fmt.Errorf("access denied for %s: %w", operation, err)
		case "ExpiredToken", "ExpiredTokenException":
			return fmt.Errorf("%w: %s", ErrExpiredCredentials, operation)
		case "InvalidClientTokenId", "InvalidAccessKeyId":
			return fmt.Errorf("%w: %s", ErrNoCredentials, operation)
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return fmt.Errorf("%w: %s", ErrObjectNotFound, operation)
		default:
			return fmt.Errorf("%s failed: %s (%s)", operation, apiErr.ErrorMessage(), apiErr.ErrorCode())
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
