package query

import "context"

// MutationResult carries a write's outcome back to the page controller as a
// value, not a callback: inspect Err, display Reduce(Err) on failure, use
// Value on success. Invalidation already happened by the time this returns.
type MutationResult[T any] struct {
	Value T
	Err   error
}

// Succeeded reports whether the mutation committed.
func (r MutationResult[T]) Succeeded() bool {
	return r.Err == nil
}

// Mutate executes a write against the gateway. On success it invalidates the
// given key buckets before returning, so the next read of any affected query
// refetches. On failure the cache is left untouched and the error is carried
// in the result. entity labels the mutation metric.
func Mutate[T any](ctx context.Context, c *Cache, entity string, fn func(context.Context) (T, error), invalidate ...string) MutationResult[T] {
	value, err := fn(ctx)
	if err != nil {
		if c.metrics != nil {
			c.metrics.IncrementMutations(entity, "error")
		}
		return MutationResult[T]{Err: err}
	}

	for _, prefix := range invalidate {
		c.Invalidate(prefix)
	}
	if c.metrics != nil {
		c.metrics.IncrementMutations(entity, "success")
	}
	return MutationResult[T]{Value: value}
}
