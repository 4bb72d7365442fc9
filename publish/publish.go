// Package publish uploads shrinker report files (mapping, seeds,
// usage, configuration) to S3-compatible storage after a run.
//
// Mapping files are the only way to de-obfuscate production stack
// traces, so CI pipelines archive them per invocation; the object
// layout is <prefix>/<invocation-id>/<basename>.
//
// Publishing is best-effort: a failed upload is logged and counted but
// never changes the run outcome.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/crucible-build/shrinkwrap/log"
	"github.com/crucible-build/shrinkwrap/metrics"
)

// S3Config holds configuration for the S3 report destination.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	return nil
}

// UploadError is a classified report upload failure.
type UploadError struct {
	// Key is the object key that failed.
	Key string
	// Err is the underlying error.
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// objectPutter is the slice of the S3 API the publisher needs.
// Satisfied by *s3.Client; replaced by a fake in tests.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads report files for one invocation.
type Publisher struct {
	client    objectPutter
	cfg       S3Config
	collector *metrics.Collector
	logger    *log.SugaredLogger
}

// NewS3Publisher creates a publisher against real S3 using the AWS SDK
// default credential chain (env vars, shared config, IAM role).
// Logger may be nil to silence per-file upload logging.
func NewS3Publisher(ctx context.Context, cfg S3Config, collector *metrics.Collector, logger *log.SugaredLogger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &Publisher{
		client:    s3.NewFromConfig(awsConfig, s3Opts...),
		cfg:       cfg,
		collector: collector,
		logger:    logger,
	}, nil
}

// newPublisherWithClient wires a custom client (for testing).
func newPublisherWithClient(client objectPutter, cfg S3Config, collector *metrics.Collector) *Publisher {
	return &Publisher{client: client, cfg: cfg, collector: collector}
}

// ParseS3Path splits a combined destination ("bucket" or
// "bucket/prefix", prefix may contain further slashes) into its parts.
func ParseS3Path(dest string) (bucket, prefix string) {
	bucket, prefix, _ = strings.Cut(dest, "/")
	return bucket, prefix
}

// PublishFiles uploads every existing file in paths under the
// invocation's key prefix and returns the uploaded object keys.
// Files that do not exist are skipped silently — a report file is only
// present when its option was configured and the tool wrote it.
//
// The first upload failure stops the batch and is returned as an
// *UploadError; keys already uploaded remain in the returned slice.
func (p *Publisher) PublishFiles(ctx context.Context, invocationID string, paths []string) ([]string, error) {
	var keys []string
	for _, filePath := range paths {
		data, err := os.ReadFile(filePath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			p.collector.IncPublishFailure()
			return keys, &UploadError{Key: filePath, Err: err}
		}

		key := path.Join(p.cfg.Prefix, invocationID, filepath.Base(filePath))
		_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: &p.cfg.Bucket,
			Key:    &key,
			Body:   bytes.NewReader(data),
		})
		if err != nil {
			p.collector.IncPublishFailure()
			return keys, &UploadError{Key: key, Err: err}
		}
		p.collector.IncPublishSuccess()
		if p.logger != nil {
			p.logger.Infof("uploaded report %s (%d bytes)", key, len(data))
		}
		keys = append(keys, key)
	}
	return keys, nil
}
