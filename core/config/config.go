package config

import (
	"reflect"
	"strings"

	"course-registry/core/cache"
	"course-registry/core/database"
	"course-registry/core/keyvalue"
	"course-registry/core/logger"
	"course-registry/core/reconcile"
	"course-registry/core/server"
	"course-registry/core/storage"
	"course-registry/feature/registration"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Database holds configuration for the primary relational store.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object storage (e.g., S3, MinIO).
	Storage storage.Config `mapstructure:"storage"`
	// Redis holds configuration for the Redis connection.
	Redis cache.Config `mapstructure:"redis"`
	// KV selects the backend of the durable key-value store.
	KV keyvalue.Config `mapstructure:"kv"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Reconcile holds the merge timeouts and convergence switch.
	Reconcile reconcile.Config `mapstructure:"reconcile"`
	// Registration holds phone and export localization settings.
	Registration registration.Config `mapstructure:"registration"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
