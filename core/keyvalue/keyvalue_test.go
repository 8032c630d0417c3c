package keyvalue

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"course-registry/core/storage/mocks"

	"github.com/go-redis/redismock/v9"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Memory", func(t *testing.T) {
		s, err := New(Config{Driver: DriverMemory}, Backends{})
		require.NoError(t, err)
		assert.Equal(t, DriverMemory, s.Name())
	})

	t.Run("S3WithoutClient", func(t *testing.T) {
		_, err := New(Config{Driver: DriverS3}, Backends{})
		assert.Error(t, err)
	})

	t.Run("S3", func(t *testing.T) {
		s, err := New(Config{Driver: DriverS3, Prefix: "p/"}, Backends{Objects: new(mocks.Client), Bucket: "b"})
		require.NoError(t, err)
		assert.Equal(t, "p/registrations", s.(*ObjectStore).ObjectName("registrations"))
	})

	t.Run("RedisWithoutClient", func(t *testing.T) {
		_, err := New(Config{Driver: DriverRedis}, Backends{})
		assert.Error(t, err)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := New(Config{Driver: "sqlite"}, Backends{})
		assert.Error(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "registrations")
	assert.ErrorIs(t, err, ErrNotFound)

	value := []byte(`[]`)
	require.NoError(t, s.Set(ctx, "registrations", value))
	value[0] = 'x'

	got, err := s.Get(ctx, "registrations")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	require.NoError(t, s.Delete(ctx, "registrations"))
	require.NoError(t, s.Delete(ctx, "registrations"))
	_, err = s.Get(ctx, "registrations")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestObjectStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", ctx, "bucket", "kv/registrations", minio.GetObjectOptions{}).
			Return(io.NopCloser(strings.NewReader(`[{"id":1}]`)), nil)

		data, err := NewObjectStore(client, "bucket", "kv/").Get(ctx, "registrations")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1}]`, string(data))
		client.AssertExpectations(t)
	})

	t.Run("NoSuchKeyOnRead", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", ctx, "bucket", "kv/registrationsReset", minio.GetObjectOptions{}).
			Return(io.NopCloser(&failingReader{err: minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}}), nil)

		_, err := NewObjectStore(client, "bucket", "kv/").Get(ctx, "registrationsReset")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("NoSuchKeyOnOpen", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", ctx, "bucket", "kv/registrations", minio.GetObjectOptions{}).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

		_, err := NewObjectStore(client, "bucket", "kv/").Get(ctx, "registrations")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ConnectionFailure", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", ctx, "bucket", "kv/registrations", minio.GetObjectOptions{}).
			Return(nil, errors.New("connection refused"))

		_, err := NewObjectStore(client, "bucket", "kv/").Get(ctx, "registrations")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestObjectStore_SetAndDelete(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("PutObject", ctx, "bucket", "registrations", mock.Anything, int64(2), mock.AnythingOfType("minio.PutObjectOptions")).
		Return(minio.UploadInfo{}, nil)
	client.On("RemoveObject", ctx, "bucket", "registrations", minio.RemoveObjectOptions{}).Return(nil)

	s := NewObjectStore(client, "bucket", "")
	require.NoError(t, s.Set(ctx, "registrations", []byte("[]")))
	require.NoError(t, s.Delete(ctx, "registrations"))
	client.AssertExpectations(t)
}

func TestObjectStore_Keys(t *testing.T) {
	ctx := context.Background()
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "kv/registrations"}
	ch <- minio.ObjectInfo{Key: "kv/registrationsReset"}
	close(ch)

	client := new(mocks.Client)
	client.On("ListObjects", ctx, "bucket", minio.ListObjectsOptions{Prefix: "kv/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	keys, err := NewObjectStore(client, "bucket", "kv/").Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"registrations", "registrationsReset"}, keys)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	db, rmock := redismock.NewClientMock()
	s := NewRedisStore(db, "cr:")

	rmock.ExpectGet("cr:registrations").SetVal(`[]`)
	rmock.ExpectGet("cr:registrationsReset").RedisNil()
	rmock.ExpectGet("cr:broken").SetErr(errors.New("i/o timeout"))
	rmock.ExpectSet("cr:registrationsReset", "true", 0).SetVal("OK")
	rmock.ExpectDel("cr:registrationsReset").SetVal(1)

	data, err := s.Get(ctx, "registrations")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = s.Get(ctx, "registrationsReset")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "registrationsReset", []byte("true")))
	require.NoError(t, s.Delete(ctx, "registrationsReset"))

	assert.NoError(t, rmock.ExpectationsWereMet())
}

type failingReader struct{ err error }

func (r *failingReader) Read([]byte) (int, error) { return 0, r.err }
