package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config configures the S3 backend.
type S3Config struct {
	Bucket          string
	Prefix          string // prepended to every object name
	Region          string // default us-east-1
	AccessKeyID     string // optional, default credential chain when empty
	SecretAccessKey string
	SessionToken    string
	Endpoint        string // optional, for S3 compatible services
	// PublicURL, when set, is used to build returned locations instead of
	// s3:// URIs, e.g. "https://charts.example.com".
	PublicURL string
}

// s3API is the part of the S3 client the backend uses.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores charts in an S3 bucket.
type S3 struct {
	client s3API
	cfg    S3Config
}

// NewS3 creates an S3 backend from cfg.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return &S3{client: s3.NewFromConfig(awsCfg, s3Opts...), cfg: cfg}, nil
}

// Save uploads the object and returns its URL.
func (s *S3) Save(ctx context.Context, data []byte, key, format string, opts map[string]string) (string, error) {
	obj, err := Prepare(key, format, opts)
	if err != nil {
		return "", err
	}
	name := path.Join(s.cfg.Prefix, obj.Name)

	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(obj.ContentType),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata:      obj.Metadata(),
	}
	if v := obj.Option(OptCacheControl); v != "" {
		in.CacheControl = aws.String(v)
	}
	if v := obj.Option(OptContentDisposition); v != "" {
		in.ContentDisposition = aws.String(v)
	}
	if v := obj.Option(OptACL); v != "" {
		in.ACL = types.ObjectCannedACL(v)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", storageErr(err, "upload", name)
	}
	if s.cfg.PublicURL != "" {
		return joinURL(s.cfg.PublicURL, name), nil
	}
	return "s3://" + s.cfg.Bucket + "/" + name, nil
}
