package integrity

import (
	"context"
	"testing"

	"course-registry/core/keyvalue"
	"course-registry/core/reconcile"
	"course-registry/feature/registration/models"
	"course-registry/feature/registration/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func testEngine(t *testing.T, kv keyvalue.Store) (*reconcile.Engine[models.Registration], *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	_, err := mem.Append(context.Background(), models.Registration{Email: "a@x.io"})
	require.NoError(t, err)
	engine := reconcile.NewEngine(reconcile.Spec[models.Registration]{
		Sources: []reconcile.Source[models.Registration]{
			{Role: reconcile.RoleLocal, Adapter: store.NewLocal(kv, nil)},
			{Role: reconcile.RoleEphemeral, Adapter: mem},
		},
		Key: models.Key,
	}, nil, nil)
	return engine, mem
}

func TestService_Structure(t *testing.T) {
	kv := keyvalue.NewMemoryStore()
	require.NoError(t, kv.Set(context.Background(), store.KeyRegistrations, []byte("not json")))
	svc := NewService(kv, nil, nil, zap.NewNop())

	report, err := svc.CheckStructure(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Healthy())

	require.NoError(t, svc.FixStructure(context.Background(), report))

	report, err = svc.CheckStructure(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Healthy())
}

func TestService_ServerWithoutDatabase(t *testing.T) {
	svc := NewService(keyvalue.NewMemoryStore(), nil, nil, nil)
	_, err := svc.CheckServer()
	assert.Error(t, err)
}

func TestService_Debug(t *testing.T) {
	kv := keyvalue.NewMemoryStore()
	engine, _ := testEngine(t, kv)
	db, _ := setupMockDB(t)
	svc := NewService(kv, db, engine, nil)

	info := svc.Debug(context.Background())
	assert.Equal(t, "memory", info.KVDriver)
	assert.Equal(t, "mysql", info.Database)
	assert.NotEmpty(t, info.GoVersion)
	require.Len(t, info.Stores, 2)
	assert.Equal(t, "local", info.Stores[0].Role)
	assert.Equal(t, 0, info.Stores[0].Count)
	assert.Equal(t, "ephemeral", info.Stores[1].Role)
	assert.Equal(t, 1, info.Stores[1].Count)
}
