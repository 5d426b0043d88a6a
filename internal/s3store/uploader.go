// Package s3store uploads documents to an S3-compatible bucket (AWS S3 or
// MinIO) and hands out presigned GET URLs for the text extractor.
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/config"
	"github.com/dmitrijs2005/cardiq/internal/document"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	now = time.Now
)

// Uploader implements document.Uploader on top of an S3 bucket.
type Uploader struct {
	cfg config.S3Config
	log logging.Logger
}

var _ document.Uploader = (*Uploader)(nil)

func NewUploader(cfg config.S3Config, log logging.Logger) *Uploader {
	return &Uploader{cfg: cfg, log: log}
}

// StorageKey returns a fresh object key for a document called name:
// documents/YYYY/M/D/<uuid>/<base name>.
func StorageKey(name string) string {
	d := now().UTC()
	base := path.Base(name)
	if base == "." || base == "/" {
		base = "upload.pdf"
	}
	return fmt.Sprintf("documents/%d/%d/%d/%v/%s", d.Year(), d.Month(), d.Day(), uuid.New(), base)
}

func (u *Uploader) client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(u.cfg.Region),
	}
	if u.cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.cfg.AccessKey,
			u.cfg.SecretKey,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if u.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(u.cfg.Endpoint)
			// MinIO serves buckets by path
			o.UsePathStyle = true
		}
	}), nil
}

// Upload stores the document under a new key and returns a presigned GET
// URL valid for the configured expiry.
func (u *Uploader) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	// the SDK needs a seekable body to sign plain-HTTP endpoints
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w: %w", name, common.ErrUploadFailure, err)
	}

	client, err := u.client(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w: %w", common.ErrUploadFailure, err)
	}

	bucket := u.cfg.Bucket
	key := StorageKey(name)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w: %w", key, common.ErrUploadFailure, err)
	}

	expiry := u.cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	req, err := presignGetObject(s3.NewPresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w: %w", key, common.ErrUploadFailure, err)
	}

	u.log.Debug(ctx, "document stored", "key", key, "bytes", len(data))
	return req.URL, nil
}
