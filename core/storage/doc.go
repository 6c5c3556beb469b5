// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so report export can be
// mocked in tests (see core/storage/mocks). Both AWS S3 and self-hosted MinIO work.
//
// # Helpers
//
//   - EnsureBucket: creates the target bucket on first use.
//   - ListKeys: drains a ListObjects channel into a slice of keys.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	created, err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
