package output

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"intraday-arb/internal/config"
	"intraday-arb/internal/intraday"
)

// putObjectAPI is the slice of the S3 client the sink needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads both result files under <prefix><result id>/.
// Works with AWS S3 and S3-compatible stores (MinIO, R2) via Endpoint.
type S3Sink struct {
	client putObjectAPI
	bucket string
	prefix string
}

func NewS3Sink(ctx context.Context, cfg config.S3Config) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 sink: bucket name is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 sink: region is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	// Static keys when given, otherwise the default credential chain.
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 sink: load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := normaliseEndpoint(cfg.Endpoint)
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return NewS3SinkWithClient(s3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket, cfg.Prefix), nil
}

func NewS3SinkWithClient(client putObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Sink) Name() string { return "s3" }

func (s *S3Sink) Write(ctx context.Context, res *intraday.Result) error {
	var js, csv bytes.Buffer
	if err := intraday.WriteOpportunitiesJSON(&js, res.Opportunities); err != nil {
		return err
	}
	if err := intraday.WriteOpportunitiesCSV(&csv, res.Opportunities); err != nil {
		return err
	}
	if err := s.put(ctx, s.Key(res.ID, jsonFileName), &js, "application/json"); err != nil {
		return err
	}
	return s.put(ctx, s.Key(res.ID, csvFileName), &csv, "text/csv")
}

// Key is the object key for one file of one result.
func (s *S3Sink) Key(id, file string) string {
	return s.prefix + path.Join(id, file)
}

func (s *S3Sink) put(ctx context.Context, key string, body *bytes.Buffer, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body.Bytes()),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(body.Len())),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// normaliseEndpoint adds https:// when the endpoint has no scheme.
func normaliseEndpoint(endpoint string) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "https://" + endpoint
}
