package keyvalue

const (
	DriverS3     = "s3"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config selects the key-value backend.
type Config struct {
	// Driver is one of s3, redis or memory.
	Driver string `mapstructure:"driver" default:"memory"`
	// Prefix is prepended to every key (object name or redis key).
	Prefix string `mapstructure:"prefix" default:"course-registry/"`
}
