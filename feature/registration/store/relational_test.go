package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"course-registry/core/database"
	"course-registry/core/reconcile"
	"course-registry/feature/registration/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *Relational {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	s := NewRelational(db, nil)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// setupMockDB creates a mock GORM DB for failure paths.
func setupMockDB(t *testing.T) (*Relational, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)
	return NewRelational(db, nil), mock
}

func TestRelational_AppendAndList(t *testing.T) {
	ctx := context.Background()
	s := setupSQLite(t)

	date := models.Stamp(time.Date(2024, 6, 10, 7, 30, 0, 123000000, time.UTC))
	a, err := s.Append(ctx, models.Registration{
		Name:             "Test User",
		Email:            "test@example.com",
		Phone:            "+218 911234567",
		Experience:       models.ExperienceBeginner,
		Interests:        []string{"coding", "api"},
		HearAbout:        "friend",
		RegistrationDate: date,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)

	b, err := s.Append(ctx, models.Registration{Email: "second@example.com", Interests: []string{"n8n"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, b.RegistrationDate.IsZero())

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "friend", list[0].HearAbout)
	assert.Equal(t, []string{"coding", "api"}, list[0].Interests)
	assert.True(t, date.Equal(list[0].RegistrationDate))
	assert.Equal(t, int64(2), list[1].ID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRelational_AppendPassthrough(t *testing.T) {
	ctx := context.Background()
	s := setupSQLite(t)

	stored, err := s.Append(ctx, models.Registration{Email: "a@b.co", Interests: []string{"api"}})
	require.NoError(t, err)

	again, err := s.Append(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, again.ID)

	n, _ := s.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestRelational_ReplaceAllAndClear(t *testing.T) {
	ctx := context.Background()
	s := setupSQLite(t)

	_, err := s.Append(ctx, models.Registration{Email: "old@example.com"})
	require.NoError(t, err)

	require.NoError(t, s.ReplaceAll(ctx, []models.Registration{
		{ID: 900, Email: "a@b.co", Interests: []string{"api"}},
		{ID: 901, Email: "c@d.co", Interests: []string{"coding"}},
	}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a@b.co", list[0].Email)
	assert.Equal(t, "c@d.co", list[1].Email)

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Clear(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.ReplaceAll(ctx, nil))
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRelational_Unavailable(t *testing.T) {
	ctx := context.Background()
	s, mock := setupMockDB(t)
	cause := errors.New("connection refused")

	mock.ExpectQuery("SELECT").WillReturnError(cause)
	_, err := s.List(ctx)
	assert.ErrorIs(t, err, reconcile.ErrUnavailable)
	assert.ErrorIs(t, err, cause)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `registrations`").WillReturnError(cause)
	mock.ExpectRollback()
	_, err = s.Append(ctx, models.Registration{Email: "a@b.co"})
	assert.ErrorIs(t, err, reconcile.ErrUnavailable)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `registrations`").WillReturnError(cause)
	mock.ExpectRollback()
	_, err = s.Clear(ctx)
	assert.ErrorIs(t, err, reconcile.ErrUnavailable)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `registrations`").WillReturnError(cause)
	mock.ExpectRollback()
	assert.ErrorIs(t, s.ReplaceAll(ctx, []models.Registration{{Email: "a@b.co"}}), reconcile.ErrUnavailable)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelational_ClearCountsRows(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `registrations`").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	n, err := s.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
