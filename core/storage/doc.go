// Package storage wraps the MinIO Go client for the object-backed key-value store.
//
// Each key-value entry is a single small object. The Client interface is the
// subset of calls that layer needs, which keeps it mockable (see
// core/storage/mocks). AWS S3 and self-hosted MinIO are both supported.
//
// # Operations
//
//   - BucketExists / MakeBucket: used by the integrity structure check.
//   - PutObject / GetObject / RemoveObject: one object per entry.
//   - ListObjects: enumerates entries under the key prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
