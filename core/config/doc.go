// Package config provides configuration management for the course registry.
//
// It uses Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of every
// section and are registered by reflection, so each key is also reachable
// through its environment variable (SECTION_FIELD, e.g. DATABASE_DRIVER).
//
// # Configuration Structure
//
//   - Server: port, admin API key, CORS origin
//   - Database: primary relational store (postgres, mysql, sqlite or none)
//   - Storage: S3/MinIO credentials and bucket
//   - Redis: Redis node or cluster
//   - KV: durable key-value driver (s3, redis, memory)
//   - Log: level and format
//   - Reconcile: read/write timeouts and convergence
//   - Registration: country code and display time zone
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
