package reconcile

import "context"

// Adapter is the uniform contract over one physical record store.
type Adapter[T any] interface {
	// Name returns a short adapter name used in logs and metrics.
	Name() string

	// List returns every record currently held. An empty store is not an error;
	// only connectivity or parse failures are reported, wrapped as ErrUnavailable.
	List(ctx context.Context) ([]T, error)

	// Append persists one record. Missing adapter-local identity and creation
	// date are assigned; records that already carry them pass through unchanged.
	// The stored record is returned.
	Append(ctx context.Context, record T) (T, error)

	// ReplaceAll overwrites the entire collection. It is used for bulk
	// synchronization only.
	ReplaceAll(ctx context.Context, records []T) error

	// Clear removes every record and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Counter is implemented by adapters that can count records without listing them.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Count returns the number of records held by adapter, using Counter when available.
func Count[T any](ctx context.Context, adapter Adapter[T]) (int, error) {
	if c, ok := adapter.(Counter); ok {
		return c.Count(ctx)
	}
	records, err := adapter.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
