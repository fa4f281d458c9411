// Package archive uploads rendered report artifacts to S3 for retention.
// Archiving is best-effort: the pipeline treats failures as non-terminal.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	appconfig "solar-report-engine/internal/config"
	"solar-report-engine/internal/utils"
)

// Archiver stores report PDFs in an S3 bucket under the reports/ prefix.
type Archiver struct {
	client *s3.Client
	bucket string
}

// New creates an archiver for the configured bucket.
func New(ctx context.Context, cfg *appconfig.Config) (*Archiver, error) {
	if cfg.S3ArchiveBucket == "" {
		return nil, fmt.Errorf("no archive bucket configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Archiver{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3ArchiveBucket,
	}, nil
}

// Store uploads the file at path, keyed by its base name.
func (a *Archiver) Store(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer file.Close()

	key := "reports/" + filepath.Base(path)

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return fmt.Errorf("archive upload: %w", err)
	}

	utils.GetLogger().Info("Report archived",
		zap.String("bucket", a.bucket),
		zap.String("key", key),
	)
	return nil
}
