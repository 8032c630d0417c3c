package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("NotConfigured", func(t *testing.T) {
		db, err := Connect(Config{})
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.Nil(t, db)
	})

	t.Run("InvalidConnection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "course_registry",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("SQLiteMemory", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", db.Dialector.Name())
	})
}

func TestConfig_Configured(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"Empty", Config{}, false},
		{"UnknownDriver", Config{Driver: "oracle", Host: "db"}, false},
		{"PostgresURL", Config{Driver: DriverPostgres, URL: "postgres://u:p@db:5432/x"}, true},
		{"MySQLHost", Config{Driver: DriverMySQL, Host: "db"}, true},
		{"PostgresNoHost", Config{Driver: DriverPostgres}, false},
		{"SQLiteFile", Config{Driver: DriverSQLite, Name: "registry.db"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Configured())
		})
	}
}

func TestConfig_Port(t *testing.T) {
	assert.Equal(t, 3306, Config{Driver: DriverMySQL}.port())
	assert.Equal(t, 5432, Config{Driver: DriverPostgres}.port())
	assert.Equal(t, 6543, Config{Driver: DriverPostgres, Port: 6543}.port())
}

func TestDialect(t *testing.T) {
	d, err := dialect(Config{Driver: DriverPostgres, Host: "db"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = dialect(Config{Driver: DriverMySQL, Host: "db"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	_, err = dialect(Config{Driver: "oracle"})
	assert.Error(t, err)
}
