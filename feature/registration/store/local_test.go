package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"course-registry/core/keyvalue"
	"course-registry/core/reconcile"
	"course-registry/feature/registration/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingKV fails every call.
type failingKV struct{ err error }

func (f failingKV) Name() string                                { return "failing" }
func (f failingKV) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(context.Context, string, []byte) error   { return f.err }
func (f failingKV) Delete(context.Context, string) error        { return f.err }

func TestLocal_AppendAndList(t *testing.T) {
	ctx := context.Background()
	kv := keyvalue.NewMemoryStore()
	l := NewLocal(kv, nil)

	list, err := l.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	a, err := l.Append(ctx, models.Registration{Email: "a@b.co", Interests: []string{"api"}})
	require.NoError(t, err)
	b, err := l.Append(ctx, models.Registration{Email: "c@d.co", Interests: []string{"n8n"}})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.RegistrationDate.IsZero())

	list, err = l.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Registration{a, b}, list)

	n, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLocal_ReadsLegacyContent(t *testing.T) {
	ctx := context.Background()
	kv := keyvalue.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, KeyRegistrations, []byte(`[
		{"id": 1718000000000, "name": "Legacy", "email": "old@example.com", "interests": ["coding"], "hear_about": "friend", "registrationDate": "2024-06-10T07:30:00.000Z"}
	]`)))

	list, err := NewLocal(kv, nil).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1718000000000), list[0].ID)
	assert.Equal(t, "friend", list[0].HearAbout)
}

// TestLocal_SelfHeals tests that malformed content reads as empty and is
// overwritten with an empty array.
func TestLocal_SelfHeals(t *testing.T) {
	for name, content := range map[string]string{
		"NotJSON":    `{{{`,
		"NotArray":   `{"id": 1}`,
		"BadElement": `[{"id": 1, "email": "a@b.co"}, "oops"]`,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := keyvalue.NewMemoryStore()
			require.NoError(t, kv.Set(ctx, KeyRegistrations, []byte(content)))
			l := NewLocal(kv, nil)

			list, err := l.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)

			stored, err := kv.Get(ctx, KeyRegistrations)
			require.NoError(t, err)
			assert.JSONEq(t, `[]`, string(stored))

			list, err = l.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestLocal_Unavailable(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(failingKV{err: errors.New("network down")}, nil)

	_, err := l.List(ctx)
	assert.ErrorIs(t, err, reconcile.ErrUnavailable)

	_, err = l.Append(ctx, models.Registration{Email: "a@b.co"})
	assert.ErrorIs(t, err, reconcile.ErrUnavailable)

	_, err = l.ResetFlag(ctx)
	assert.ErrorIs(t, err, reconcile.ErrUnavailable)

	assert.ErrorIs(t, l.SetResetFlag(ctx, true), reconcile.ErrUnavailable)
}

func TestLocal_ReplaceAllKeepsIDsUnique(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(keyvalue.NewMemoryStore(), nil)

	require.NoError(t, l.ReplaceAll(ctx, []models.Registration{
		{ID: 3, Email: "a@b.co"},
		{ID: 3, Email: "c@d.co"},
		{Email: "e@f.co"},
	}))

	list, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(3), list[0].ID)
	assert.Equal(t, int64(4), list[1].ID)
	assert.Equal(t, int64(5), list[2].ID)

	n, err := l.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list, err = l.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLocal_AppendPassthrough(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(keyvalue.NewMemoryStore(), nil)
	l.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	date := models.Stamp(time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC))
	in := models.Registration{ID: 1718000000000, Email: "a@b.co", RegistrationDate: date}

	first, err := l.Append(ctx, in)
	require.NoError(t, err)
	second, err := l.Append(ctx, in)
	require.NoError(t, err)

	want := in
	want.Interests = []string{}
	assert.Equal(t, want, first)
	assert.Equal(t, first, second, "a replayed append returns the stored copy unchanged")
	list, _ := l.List(ctx)
	assert.Len(t, list, 1)
}

func TestLocal_ResetFlag(t *testing.T) {
	ctx := context.Background()
	kv := keyvalue.NewMemoryStore()
	l := NewLocal(kv, nil)

	set, err := l.ResetFlag(ctx)
	require.NoError(t, err)
	assert.False(t, set)

	require.NoError(t, l.SetResetFlag(ctx, true))
	raw, err := kv.Get(ctx, KeyReset)
	require.NoError(t, err)
	assert.Equal(t, "true", string(raw))

	set, err = l.ResetFlag(ctx)
	require.NoError(t, err)
	assert.True(t, set)

	require.NoError(t, l.SetResetFlag(ctx, false))
	_, err = kv.Get(ctx, KeyReset)
	assert.ErrorIs(t, err, keyvalue.ErrNotFound)
}

func TestLocal_ResetFlagSelfHeals(t *testing.T) {
	ctx := context.Background()
	kv := keyvalue.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, KeyReset, []byte("maybe")))

	set, err := NewLocal(kv, nil).ResetFlag(ctx)
	require.NoError(t, err)
	assert.False(t, set)

	_, err = kv.Get(ctx, KeyReset)
	assert.ErrorIs(t, err, keyvalue.ErrNotFound)
}
