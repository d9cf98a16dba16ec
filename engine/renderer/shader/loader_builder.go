package shader

// LoaderBuilderOption is a function that configures a loader during construction.
type LoaderBuilderOption func(*loader)

// WithRoot sets the directory shader paths are resolved against.
//
// Parameters:
//   - root: the source root directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the root to a loader
func WithRoot(root string) LoaderBuilderOption {
	return func(l *loader) {
		if root != "" {
			l.root = root
		}
	}
}

// WithWorkers sets the number of prefetch workers. Zero disables the pool and
// prefetches run on plain goroutines.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n >= 0 {
			l.workers = n
		}
	}
}

// WithQueueSize sets the capacity of the prefetch task queue.
//
// Parameters:
//   - n: the queue capacity
//
// Returns:
//   - LoaderBuilderOption: a function that applies the queue size to a loader
func WithQueueSize(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.queueSize = n
		}
	}
}
