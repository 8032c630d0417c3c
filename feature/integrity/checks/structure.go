package checks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"course-registry/core/keyvalue"
	"course-registry/core/utils"
	"course-registry/feature/registration/models"
	"course-registry/feature/registration/store"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Entry states reported by CheckStructure.
const (
	EntryOK      = "ok"
	EntryMissing = "missing"
	EntryCorrupt = "corrupt"
)

// StructureReport describes the state of the durable key-value store.
type StructureReport struct {
	Driver string `json:"driver"`
	// Bucket is set for the object storage driver.
	Bucket        string            `json:"bucket,omitempty"`
	BucketMissing bool              `json:"bucket_missing"`
	Entries       map[string]string `json:"entries"`
	// Keys are the stored entry keys, listed for the object storage driver.
	Keys []string `json:"keys,omitempty"`
}

// Healthy reports whether nothing needs fixing. Missing entries are fine.
func (r *StructureReport) Healthy() bool {
	if r.BucketMissing {
		return false
	}
	for _, state := range r.Entries {
		if state == EntryCorrupt {
			return false
		}
	}
	return true
}

// CheckStructure verifies the bucket (object storage only) and that the
// registration entries parse.
func CheckStructure(ctx context.Context, kv keyvalue.Store) (*StructureReport, error) {
	report := &StructureReport{
		Driver:  kv.Name(),
		Entries: make(map[string]string),
	}

	if objects, ok := kv.(*keyvalue.ObjectStore); ok {
		report.Bucket = objects.Bucket()
		exists, err := objects.Client().BucketExists(ctx, objects.Bucket())
		if err != nil {
			return nil, fmt.Errorf("failed to check bucket existence: %w", err)
		}
		if !exists {
			report.BucketMissing = true
			return report, nil
		}
		keys, err := objects.Keys(ctx)
		if err != nil {
			return nil, err
		}
		report.Keys = keys
	}

	state, err := entryState(ctx, kv, store.KeyRegistrations, func(data []byte) bool {
		var records []models.Registration
		return json.Unmarshal(data, &records) == nil
	})
	if err != nil {
		return nil, err
	}
	report.Entries[store.KeyRegistrations] = state

	state, err = entryState(ctx, kv, store.KeyReset, func(data []byte) bool {
		_, ok := utils.ParseBool(string(data))
		return ok
	})
	if err != nil {
		return nil, err
	}
	report.Entries[store.KeyReset] = state

	return report, nil
}

func entryState(ctx context.Context, kv keyvalue.Store, key string, valid func([]byte) bool) (string, error) {
	data, err := kv.Get(ctx, key)
	if errors.Is(err, keyvalue.ErrNotFound) {
		return EntryMissing, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !valid(data) {
		return EntryCorrupt, nil
	}
	return EntryOK, nil
}

// FixStructure creates a missing bucket and rewrites corrupt entries: the
// registrations list becomes empty and the reset flag is removed.
func FixStructure(ctx context.Context, kv keyvalue.Store, logger *zap.Logger, report *StructureReport) error {
	if report.BucketMissing {
		objects, ok := kv.(*keyvalue.ObjectStore)
		if !ok {
			return fmt.Errorf("bucket reported missing for %s driver", kv.Name())
		}
		if err := objects.Client().MakeBucket(ctx, objects.Bucket(), minio.MakeBucketOptions{}); err != nil {
			logger.Error("Failed to create bucket", zap.String("bucket", objects.Bucket()), zap.Error(err))
			return err
		}
		logger.Info("Created missing bucket", zap.String("bucket", objects.Bucket()))
	}

	switch report.Entries[store.KeyRegistrations] {
	case EntryCorrupt, EntryMissing:
		if err := kv.Set(ctx, store.KeyRegistrations, []byte("[]")); err != nil {
			logger.Error("Failed to reset entry", zap.String("key", store.KeyRegistrations), zap.Error(err))
			return err
		}
		logger.Info("Wrote empty registrations entry", zap.String("key", store.KeyRegistrations))
	}

	if report.Entries[store.KeyReset] == EntryCorrupt {
		if err := kv.Delete(ctx, store.KeyReset); err != nil {
			logger.Error("Failed to remove entry", zap.String("key", store.KeyReset), zap.Error(err))
			return err
		}
		logger.Info("Removed corrupt reset flag", zap.String("key", store.KeyReset))
	}
	return nil
}
