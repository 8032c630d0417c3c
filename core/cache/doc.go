// Package cache creates Redis clients for single nodes and clusters.
//
// The returned redis.UniversalClient backs the Redis driver of core/keyvalue.
package cache
