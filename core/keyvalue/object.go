package keyvalue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"course-registry/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStore keeps each entry as one object in a bucket.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectStore creates an ObjectStore.
func NewObjectStore(client storage.Client, bucket, prefix string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *ObjectStore) Name() string { return DriverS3 }

// Bucket returns the bucket holding the entries.
func (s *ObjectStore) Bucket() string { return s.bucket }

// Client returns the underlying storage client.
func (s *ObjectStore) Client() storage.Client { return s.client }

// ObjectName returns the object name for key.
func (s *ObjectStore) ObjectName(key string) string { return s.prefix + key }

func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.ObjectName(key), minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object %s: %w", s.ObjectName(key), err)
	}
	defer obj.Close()

	// MinIO reports a missing key on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read object %s: %w", s.ObjectName(key), err)
	}
	return data, nil
}

func (s *ObjectStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.ObjectName(key), bytes.NewReader(value), int64(len(value)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", s.ObjectName(key), err)
	}
	return nil
}

func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, s.ObjectName(key), minio.RemoveObjectOptions{}); err != nil {
		if storage.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to remove object %s: %w", s.ObjectName(key), err)
	}
	return nil
}

// Keys lists the entry keys currently stored under the prefix.
func (s *ObjectStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		keys = append(keys, strings.TrimPrefix(obj.Key, s.prefix))
	}
	return keys, nil
}
