// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface. The integrity feature uses it
// to export counter drift reports as JSON objects and to list previous exports; AWS S3 and
// self-hosted MinIO are both supported.
//
// The Client interface keeps storage mockable in tests (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
