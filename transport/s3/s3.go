// Package s3 adapts S3 object storage to the transport contract.
//
// Messages are archived as JSON objects keyed by creation day and message
// ID. Uses the AWS SDK default credential chain; custom endpoints support
// S3-compatible providers (R2, MinIO).
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pithecene-io/courier/transport"
	"github.com/pithecene-io/courier/types"
)

// Kind is the registry discriminator for this transport.
const Kind = "s3"

// DefaultRatePerMinute is the sustained PUT rate S3 supports per prefix.
const DefaultRatePerMinute = 3500

// PutObjectAPI is the narrow S3 surface the transport delegates to.
// *awss3.Client satisfies it; tests inject fakes.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// Config configures the s3 transport.
type Config struct {
	// Bucket is the destination bucket (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("s3 transport requires a bucket")
	}
	return nil
}

// Transport archives messages as S3 objects.
type Transport struct {
	config Config
	client PutObjectAPI
}

// New creates an s3 transport, building the AWS client itself.
// Uses the AWS SDK default credential chain (env vars, shared config,
// IAM role).
func New(ctx context.Context, cfg Config) (*Transport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 transport: load AWS config: %w", err)
	}

	var s3Opts []func(*awss3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.UsePathStyle = true
		})
	}

	return NewWithClient(cfg, awss3.NewFromConfig(awsCfg, s3Opts...)), nil
}

// NewWithClient creates an s3 transport around a pre-built client.
func NewWithClient(cfg Config, client PutObjectAPI) *Transport {
	return &Transport{config: cfg, client: client}
}

// Deliver writes the message as a JSON object.
// Key layout: <prefix>/<YYYY-MM-DD>/<message-id>.json, day derived from
// the message creation time in UTC.
func (t *Transport) Deliver(ctx context.Context, msg *types.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("s3: marshal message: %w", err)
	}

	key := t.ObjectKey(msg)
	_, err = t.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(t.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	return transport.WrapDeliverError(Kind, "put_object", err)
}

// ObjectKey computes the object key for a message.
func (t *Transport) ObjectKey(msg *types.Message) string {
	day := msg.CreatedAt.UTC().Format("2006-01-02")
	return path.Join(t.config.Prefix, day, msg.ID+".json")
}

// Rate reports the per-prefix PUT rate as "rate:N".
func (t *Transport) Rate() string {
	return fmt.Sprintf("rate:%d", DefaultRatePerMinute)
}

// Close releases transport resources. The S3 client holds no
// long-lived connections that need explicit shutdown.
func (t *Transport) Close() error {
	return nil
}

// Verify Transport implements the transport interface.
var _ transport.Transport = (*Transport)(nil)
