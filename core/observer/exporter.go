package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"event-sync/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const reportPrefix = "reports/"

// Exporter stores reports in object storage.
type Exporter struct {
	client storage.Client
	bucket string
	region string
	logger *zap.Logger
}

// NewExporter creates an Exporter writing to the configured bucket.
func NewExporter(client storage.Client, cfg storage.Config, logger *zap.Logger) *Exporter {
	return &Exporter{client: client, bucket: cfg.Bucket, region: cfg.Region, logger: logger}
}

// ObjectName returns the object key for a run.
func ObjectName(runID string) string {
	return reportPrefix + runID + ".json"
}

// Export uploads report under a new run id and returns the object name.
func (e *Exporter) Export(ctx context.Context, report Report) (string, error) {
	return e.ExportAs(ctx, uuid.NewString(), report)
}

// ExportAs uploads report under runID, creating the bucket if needed.
func (e *Exporter) ExportAs(ctx context.Context, runID string, report Report) (string, error) {
	created, err := storage.EnsureBucket(ctx, e.client, e.bucket, e.region)
	if err != nil {
		return "", err
	}
	if created {
		e.logger.Info("Created report bucket", zap.String("bucket", e.bucket))
	}

	data, err := report.JSON()
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	object := ObjectName(runID)
	_, err = e.client.PutObject(ctx, e.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("upload report %s: %w", object, err)
	}

	e.logger.Info("Report exported", zap.String("bucket", e.bucket), zap.String("object", object))
	return object, nil
}

// Runs returns the run ids of every exported report.
func (e *Exporter) Runs(ctx context.Context) ([]string, error) {
	keys, err := storage.ListKeys(ctx, e.client, e.bucket, reportPrefix)
	if err != nil {
		return nil, err
	}

	runs := make([]string, 0, len(keys))
	for _, key := range keys {
		if !strings.HasSuffix(key, ".json") {
			continue
		}
		runs = append(runs, strings.TrimSuffix(strings.TrimPrefix(key, reportPrefix), ".json"))
	}
	return runs, nil
}

// Load downloads the report of runID.
func (e *Exporter) Load(ctx context.Context, runID string) (Report, error) {
	object := ObjectName(runID)
	rc, err := e.client.GetObject(ctx, e.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return Report{}, fmt.Errorf("download report %s: %w", object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Report{}, fmt.Errorf("read report %s: %w", object, err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, fmt.Errorf("decode report %s: %w", object, err)
	}
	return report, nil
}
