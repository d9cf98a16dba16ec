package shader

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/fsnotify/fsnotify"
)

// watcher is the implementation of the Watcher interface.
type watcher struct {
	fs      *fsnotify.Watcher
	keys    map[string]string
	changes chan string
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// Watcher reports edits to shader files. The parent directories are watched rather than
// the files so that editors which save by rename are still observed.
type Watcher interface {
	// Changes delivers the key of each shader file that was written, created or renamed.
	// Sends never block; when the buffer is full further notifications are dropped until
	// the reader catches up.
	//
	// Returns:
	//   - <-chan string: the change notification channel
	Changes() <-chan string

	// Close stops watching and closes the Changes channel.
	//
	// Returns:
	//   - error: an error from the underlying fsnotify watcher, if any
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher starts watching the given shader paths as resolved by loader.
//
// Parameters:
//   - loader: the loader whose root the paths are relative to
//   - paths: the shader paths to watch
//
// Returns:
//   - Watcher: the running watcher
//   - error: an error if the watcher cannot be created or a directory cannot be added
func NewWatcher(loader Loader, paths ...string) (Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader: create watcher: %w", err)
	}

	w := &watcher{
		fs:      fw,
		keys:    make(map[string]string, len(paths)),
		changes: make(chan string, 8),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		resolved, err := filepath.Abs(loader.Resolve(p))
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("shader: resolve %q: %w", p, err)
		}
		w.keys[resolved] = cacheKey(p)
		dirs[filepath.Dir(resolved)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("shader: watch %q: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *watcher) Changes() <-chan string {
	return w.changes
}

func (w *watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.changes)
	})
	return err
}

func (w *watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			key, ok := w.keys[name]
			if !ok {
				continue
			}
			select {
			case w.changes <- key:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			common.Logger().Warn("shader watcher error", "error", err)
		}
	}
}
