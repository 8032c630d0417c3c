package cache

// Config holds the Redis connection settings.
type Config struct {
	// Type is "redis" for a single node or "redisCluster".
	Type string `mapstructure:"type" default:"redis"`
	// Address is the single node address.
	Address string `mapstructure:"address" default:"localhost:6379"`
	// Addresses are the cluster node addresses.
	Addresses []string `mapstructure:"addresses"`
	// Password for AUTH, if any.
	Password string `mapstructure:"password" default:""`
	// DB selects the logical database on a single node.
	DB int `mapstructure:"db" default:"0"`
	// PoolSize is the maximum number of socket connections.
	PoolSize int `mapstructure:"pool_size" default:"10"`
}
