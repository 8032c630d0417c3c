// Package keyvalue provides the durable key-value store behind the "local"
// registration adapter.
//
// Three drivers implement Store:
//
//   - s3: one object per key in a MinIO/S3 bucket (core/storage).
//   - redis: one string key per entry (core/cache).
//   - memory: a process-local map for development and tests.
//
// Keys are short names such as "registrations"; the configured prefix is
// applied by the driver.
package keyvalue
