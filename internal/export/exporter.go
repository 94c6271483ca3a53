package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	appconfig "notify-pipeline/internal/config"
	"notify-pipeline/internal/repository"
	"notify-pipeline/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Exporter writes audit-log snapshots to object storage as JSON lines, one
// LogRecord per line.
type Exporter struct {
	logs   repository.LogRepository
	s3     *s3.Client
	bucket string
	clock  func() time.Time
	logger *logger.Logger
}

func NewExporter(ctx context.Context, cfg appconfig.ExportConfig, logs repository.LogRepository, l *logger.Logger) (*Exporter, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("export bucket is required")
	}

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}
	return &Exporter{
		logs:   logs,
		s3:     s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		clock:  time.Now,
		logger: l,
	}, nil
}

// Export queries records matching the filter and uploads them under a
// timestamped key. Returns the object key and the number of records written.
func (e *Exporter) Export(ctx context.Context, filter repository.LogFilter) (string, int, error) {
	records, err := e.logs.List(ctx, filter)
	if err != nil {
		return "", 0, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return "", 0, fmt.Errorf("failed to encode record %d: %w", record.ID, err)
		}
	}

	key := fmt.Sprintf("audit/%s.jsonl", e.clock().UTC().Format("20060102T150405Z"))
	_, err = e.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload export: %w", err)
	}

	e.logger.Infof("exported %d audit records to s3://%s/%s", len(records), e.bucket, key)
	return key, len(records), nil
}
