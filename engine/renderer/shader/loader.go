package shader

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-voxel/common"
)

// pendingRead tracks a prefetch that has been handed to the worker pool.
type pendingRead struct {
	done   chan struct{}
	shader Shader
	err    error
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.Mutex
	wg sync.WaitGroup

	root      string
	workers   int
	queueSize int

	pool    worker.DynamicWorkerPool
	nextID  int
	cache   map[string]Shader
	pending map[string]*pendingRead
	closed  bool
}

// Loader reads WGSL files relative to a source root and caches the parsed result.
// Files can be prefetched on a worker pool so disk I/O overlaps other startup work.
type Loader interface {
	// Root returns the directory shader paths are resolved against.
	//
	// Returns:
	//   - string: the source root
	Root() string

	// Resolve maps a shader path to the file that will be read.
	// Absolute paths are returned unchanged.
	//
	// Parameters:
	//   - path: the shader path relative to the root
	//
	// Returns:
	//   - string: the resolved file path
	Resolve(path string) string

	// Prefetch starts reading the given shader files in the background.
	// Paths that are already cached or in flight are skipped. It does not block.
	//
	// Parameters:
	//   - paths: shader paths relative to the root
	Prefetch(paths ...string)

	// Wait blocks until every prefetch submitted so far has finished.
	Wait()

	// Load returns the shader at path, waiting for an in-flight prefetch if there is one
	// and otherwise reading the file on the calling goroutine.
	//
	// Parameters:
	//   - path: the shader path relative to the root
	//
	// Returns:
	//   - Shader: the parsed shader
	//   - error: an error wrapping ErrShaderRead, or ErrLoaderClosed
	Load(path string) (Shader, error)

	// Invalidate drops the cached copy of path so the next Load reads the file again.
	//
	// Parameters:
	//   - path: the shader path relative to the root
	Invalidate(path string)

	// Close stops the worker pool. Loads after Close fail with ErrLoaderClosed.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the provided options.
//
// Parameters:
//   - options: variadic list of LoaderBuilderOption functions to configure the loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		root:      ".",
		workers:   2,
		queueSize: 16,
		cache:     make(map[string]Shader),
		pending:   make(map[string]*pendingRead),
	}
	for _, opt := range options {
		opt(l)
	}
	if l.workers > 0 {
		l.pool = worker.NewDynamicWorkerPool(l.workers, l.queueSize, 1*time.Second)
	}
	return l
}

func (l *loader) Root() string {
	return l.root
}

func (l *loader) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.root, path)
}

func (l *loader) Prefetch(paths ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	for _, path := range paths {
		key := cacheKey(path)
		if _, ok := l.cache[key]; ok {
			continue
		}
		if _, ok := l.pending[key]; ok {
			continue
		}

		p := &pendingRead{done: make(chan struct{})}
		l.pending[key] = p
		resolved := l.Resolve(path)

		read := func() (any, error) {
			defer l.wg.Done()
			p.shader, p.err = ReadShader(key, resolved)
			close(p.done)
			return p.shader, p.err
		}

		l.wg.Add(1)
		if l.pool == nil {
			go read()
			continue
		}
		id := l.nextID
		l.nextID++
		l.pool.SubmitTask(worker.Task{
			ID:      id,
			Payload: resolved,
			Do:      read,
		})
		common.Logger().Debug("shader prefetch submitted", "path", resolved, "task", id)
	}
}

func (l *loader) Wait() {
	l.wg.Wait()
}

func (l *loader) Load(path string) (Shader, error) {
	key := cacheKey(path)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, ErrLoaderClosed
	}
	if sh, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return sh, nil
	}
	p, inFlight := l.pending[key]
	l.mu.Unlock()

	var sh Shader
	var err error
	if inFlight {
		<-p.done
		sh, err = p.shader, p.err
	} else {
		sh, err = ReadShader(key, l.Resolve(path))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending[key] == p {
		delete(l.pending, key)
	}
	if err != nil {
		return nil, err
	}
	l.cache[key] = sh
	return sh, nil
}

func (l *loader) Invalidate(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, cacheKey(path))
}

func (l *loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.wg.Wait()
	if l.pool != nil {
		l.pool.Stop()
	}
}

// cacheKey normalizes a shader path so equivalent spellings share a cache entry.
func cacheKey(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}
