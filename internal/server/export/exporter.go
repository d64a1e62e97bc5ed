// Package export uploads mirror workbook snapshots to S3-compatible storage.
package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/blogmirror/internal/logging"
	sc "github.com/dmitrijs2005/blogmirror/internal/server/config"
)

const (
	keyPrefix      = "mirror"
	contentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	downloadExpiry = 15 * time.Minute
)

// Snapshotter provides the current workbook bytes.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]byte, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type getPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Result describes one uploaded snapshot.
type Result struct {
	Bucket      string
	Key         string
	Size        int
	DownloadURL string
}

type Exporter struct {
	config *sc.Config
	source Snapshotter
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

func NewExporter(cfg *sc.Config, source Snapshotter, logger logging.Logger) *Exporter {
	return &Exporter{
		config: cfg,
		source: source,
		logger: logger.With("module", "export"),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// ObjectKey returns the storage key for a snapshot taken at t.
func ObjectKey(t time.Time, id string) string {
	return fmt.Sprintf("%s/%s/%s.xlsx", keyPrefix, t.UTC().Format("2006/01/02"), id)
}

func (e *Exporter) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(e.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.config.S3RootUser,
			e.config.S3RootPassword,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if e.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(e.config.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// Export uploads the current snapshot and returns where it went, together
// with a short-lived download link.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	client, err := e.client(ctx)
	if err != nil {
		return nil, err
	}
	return e.export(ctx, client, s3.NewPresignClient(client))
}

func (e *Exporter) export(ctx context.Context, put objectPutter, presign getPresigner) (*Result, error) {
	data, err := e.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	res := &Result{
		Bucket: e.config.S3Bucket,
		Key:    ObjectKey(e.now(), e.newID()),
		Size:   len(data),
	}

	_, err = put.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(res.Bucket),
		Key:           aws.String(res.Key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", res.Key, err)
	}

	req, err := presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(res.Bucket),
		Key:    aws.String(res.Key),
	}, s3.WithPresignExpires(downloadExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", res.Key, err)
	}
	res.DownloadURL = req.URL

	e.logger.Info(ctx, "mirror exported", "bucket", res.Bucket, "key", res.Key, "size", res.Size)

	return res, nil
}
