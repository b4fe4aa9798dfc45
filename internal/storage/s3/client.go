package s3

import (
	"bytes"
	"context"
	"fmt"
	"studio-service/internal/config"
	"studio-service/internal/storage"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	emptyAWSSessionToken         = ""
	defaultS3Region              = "us-east-1"
	listPageSize                 = 1000
	publicReadACL                = "public-read"
	virtualHostedURLFmt          = "https://%s.s3.%s.amazonaws.com"
	errFailedCreateAWSSessionFmt = "failed to create AWS session: %w"
	errFailedPutObjectFmt        = "failed to put object: %w"
	errFailedDeleteObjectFmt     = "failed to delete object: %w"
	errFailedCreateBucketFmt     = "failed to create bucket: %w"
	errFailedWaitBucketExistsFmt = "failed to wait for bucket to exist: %w"
	errFailedListObjectsFmt      = "failed to list objects: %w"
)

// Client is the S3-backed storage.ObjectStore. Objects are written
// public-read and addressed by baseURL + "/" + key.
type Client struct {
	svc     *s3.S3
	bucket  string
	region  string
	baseURL string
}

var _ storage.ObjectStore = (*Client)(nil)

func NewClient(cfg *config.AWSConfig) (*Client, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &Client{
		svc:     s3.New(sess),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: publicBaseURL(cfg),
	}, nil
}

func publicBaseURL(cfg *config.AWSConfig) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "":
		return cfg.Endpoint + "/" + cfg.Bucket
	default:
		return fmt.Sprintf(virtualHostedURLFmt, cfg.Bucket, cfg.Region)
	}
}

func (c *Client) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		ACL:         aws.String(publicReadACL),
	})
	if err != nil {
		return "", fmt.Errorf(errFailedPutObjectFmt, err)
	}

	return c.baseURL + "/" + key, nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}

	return nil
}

func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	err := c.svc.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int64(listPageSize),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf(errFailedListObjectsFmt, err)
	}

	return keys, nil
}

func (c *Client) KeyFromURL(rawURL string) (string, error) {
	return storage.TrimBase(c.baseURL, rawURL)
}

// EnsureBucket creates the bucket when it is missing. Used against local
// S3-compatible endpoints at startup.
func (c *Client) EnsureBucket(ctx context.Context) error {
	_, err := c.svc.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	if err == nil {
		return nil
	}
	if aerr, ok := err.(awserr.RequestFailure); !ok || aerr.StatusCode() != 404 {
		return fmt.Errorf(errFailedCreateBucketFmt, err)
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	}

	if c.region != defaultS3Region {
		input.CreateBucketConfiguration = &s3.CreateBucketConfiguration{
			LocationConstraint: aws.String(c.region),
		}
	}

	if _, err := c.svc.CreateBucketWithContext(ctx, input); err != nil {
		return fmt.Errorf(errFailedCreateBucketFmt, err)
	}

	if err := c.svc.WaitUntilBucketExistsWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	}); err != nil {
		return fmt.Errorf(errFailedWaitBucketExistsFmt, err)
	}

	return nil
}
