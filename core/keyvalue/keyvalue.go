package keyvalue

import (
	"fmt"

	"course-registry/core/storage"

	"github.com/redis/go-redis/v9"
)

// Backends carries the clients a driver may need.
type Backends struct {
	Objects storage.Client
	Bucket  string
	Redis   redis.UniversalClient
}

// New builds the Store selected by cfg.Driver.
func New(cfg Config, b Backends) (Store, error) {
	switch cfg.Driver {
	case DriverS3:
		if b.Objects == nil {
			return nil, fmt.Errorf("kv driver %s requires an object storage client", cfg.Driver)
		}
		return NewObjectStore(b.Objects, b.Bucket, cfg.Prefix), nil
	case DriverRedis:
		if b.Redis == nil {
			return nil, fmt.Errorf("kv driver %s requires a redis client", cfg.Driver)
		}
		return NewRedisStore(b.Redis, cfg.Prefix), nil
	case DriverMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported kv driver: %s", cfg.Driver)
	}
}
