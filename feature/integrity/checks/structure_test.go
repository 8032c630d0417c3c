package checks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"course-registry/core/keyvalue"
	"course-registry/core/storage/mocks"
	"course-registry/feature/registration/store"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func notFound() error {
	return minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
}

func TestCheckStructure_Memory(t *testing.T) {
	ctx := context.Background()

	t.Run("Fresh", func(t *testing.T) {
		report, err := CheckStructure(ctx, keyvalue.NewMemoryStore())
		require.NoError(t, err)
		assert.True(t, report.Healthy())
		assert.Equal(t, EntryMissing, report.Entries[store.KeyRegistrations])
		assert.Equal(t, EntryMissing, report.Entries[store.KeyReset])
	})

	t.Run("Corrupt", func(t *testing.T) {
		kv := keyvalue.NewMemoryStore()
		require.NoError(t, kv.Set(ctx, store.KeyRegistrations, []byte(`{"oops"`)))
		require.NoError(t, kv.Set(ctx, store.KeyReset, []byte("maybe")))

		report, err := CheckStructure(ctx, kv)
		require.NoError(t, err)
		assert.False(t, report.Healthy())
		assert.Equal(t, EntryCorrupt, report.Entries[store.KeyRegistrations])
		assert.Equal(t, EntryCorrupt, report.Entries[store.KeyReset])

		require.NoError(t, FixStructure(ctx, kv, zap.NewNop(), report))

		data, err := kv.Get(ctx, store.KeyRegistrations)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
		_, err = kv.Get(ctx, store.KeyReset)
		assert.ErrorIs(t, err, keyvalue.ErrNotFound)

		report, err = CheckStructure(ctx, kv)
		require.NoError(t, err)
		assert.True(t, report.Healthy())
	})

	t.Run("Valid", func(t *testing.T) {
		kv := keyvalue.NewMemoryStore()
		require.NoError(t, kv.Set(ctx, store.KeyRegistrations, []byte(`[{"id":1,"email":"a@x.io"}]`)))
		require.NoError(t, kv.Set(ctx, store.KeyReset, []byte("true")))

		report, err := CheckStructure(ctx, kv)
		require.NoError(t, err)
		assert.Equal(t, EntryOK, report.Entries[store.KeyRegistrations])
		assert.Equal(t, EntryOK, report.Entries[store.KeyReset])
	})
}

func TestCheckStructure_Object(t *testing.T) {
	ctx := context.Background()

	t.Run("Bucket Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "course-registry").Return(false, nil)
		kv := keyvalue.NewObjectStore(mockClient, "course-registry", "kv/")

		report, err := CheckStructure(ctx, kv)
		require.NoError(t, err)
		assert.True(t, report.BucketMissing)
		assert.False(t, report.Healthy())

		mockClient.On("MakeBucket", mock.Anything, "course-registry", mock.Anything).Return(nil)

		require.NoError(t, FixStructure(ctx, kv, zap.NewNop(), report))
		mockClient.AssertNumberOfCalls(t, "MakeBucket", 1)
	})

	t.Run("Bucket Check Fails", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "course-registry").Return(false, errors.New("dial tcp: refused"))

		_, err := CheckStructure(ctx, keyvalue.NewObjectStore(mockClient, "course-registry", "kv/"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "bucket existence")
	})

	t.Run("Entries Listed", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "course-registry").Return(true, nil)
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Key: "kv/registrations"}
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "course-registry", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))
		mockClient.On("GetObject", mock.Anything, "course-registry", "kv/registrations", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte(`[]`))), nil)
		mockClient.On("GetObject", mock.Anything, "course-registry", "kv/registrationsReset", mock.Anything).
			Return(nil, notFound())

		report, err := CheckStructure(ctx, keyvalue.NewObjectStore(mockClient, "course-registry", "kv/"))
		require.NoError(t, err)
		assert.Equal(t, []string{"registrations"}, report.Keys)
		assert.Equal(t, EntryOK, report.Entries[store.KeyRegistrations])
		assert.Equal(t, EntryMissing, report.Entries[store.KeyReset])
		assert.True(t, report.Healthy())
	})
}
