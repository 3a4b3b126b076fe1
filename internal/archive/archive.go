package archive

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	appconfig "lactalog-backend/internal/config"
	"lactalog-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader keeps a copy of every printed analysis report in object storage.
// Archiving is optional; a nil Uploader drops uploads silently.
type Uploader struct {
	client *s3.Client
	bucket string
}

// New builds an Uploader from the archive config. Returns nil when
// archiving is disabled or misconfigured so callers can skip uploads.
func New(cfg *appconfig.Config) *Uploader {
	if !cfg.Archive.Enabled {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Archive.Region),
	)
	if err != nil {
		log.Printf("[Archive] Failed to configure S3 client, archiving disabled: %v", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Archive.Endpoint)
		}
	})

	log.Printf("[Archive] Report archive enabled (bucket %s)", cfg.Archive.Bucket)
	return &Uploader{client: client, bucket: cfg.Archive.Bucket}
}

// StoreAnalysisReport uploads a rendered report PDF. Failures are logged,
// not returned: archiving must never block the print flow.
func (u *Uploader) StoreAnalysisReport(analysisID int, pdf []byte) {
	if u == nil {
		return
	}

	key := fmt.Sprintf("analysis/%d/%s.pdf", analysisID, timeutil.Now().Format("20060102-150405"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		log.Printf("[Archive] Failed to store report %s: %v", key, err)
		return
	}
	log.Printf("[Archive] Stored report %s (%d bytes)", key, len(pdf))
}
