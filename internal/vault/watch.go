package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/knadh/koanf/providers/file"

	"github.com/yacobolo/twsnip/internal/logfields"
)

// documentOps are the fsnotify operations that change the document set
const documentOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher announces document changes to the vault subscribers.
type Watcher struct {
	vault   *Vault
	watcher *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	done chan struct{}
}

// Watch watches every vault directory outside the config dir and returns
// once the watches are in place. Bursts of Markdown changes are collapsed
// into one notification after the debounce window. Watching stops when ctx
// is done or Close is called.
func (v *Vault) Watch(ctx context.Context) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{vault: v, watcher: fw, done: make(chan struct{})}
	if err := w.addRecursive(v.root); err != nil {
		fw.Close()
		return nil, err
	}

	go w.loop(ctx)
	return w, nil
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories can vanish between the event and the walk
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.vault.root && w.skipDir(p) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

// skipDir reports whether a directory holds no documents
func (w *Watcher) skipDir(full string) bool {
	rel, ok := w.vault.relative(full)
	if !ok {
		return true
	}
	if filepath.Base(full) == ".git" {
		return true
	}
	return w.vault.excluded(rel) || w.vault.ignore.MatchesPath(rel+"/")
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	logger := w.vault.logger

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("Document watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.skipDir(event.Name) {
				return
			}
			if err := w.addRecursive(event.Name); err != nil {
				w.vault.logger.Error("Failed to watch directory", logfields.Path(event.Name), logfields.Error(err))
			}
			// A moved-in directory can bring notes with it
			w.schedule()
			return
		}
	}

	if !event.Has(documentOps) || filepath.Ext(event.Name) != ".md" {
		return
	}
	rel, ok := w.vault.relative(event.Name)
	if !ok || w.vault.excluded(rel) {
		return
	}

	w.vault.logger.Debug("Document changed", logfields.Path(rel), logfields.Event(event.Op.String()))
	w.schedule()
}

// schedule restarts the debounce timer
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.vault.debounce, w.vault.publish)
}

// relative converts an absolute path to a vault path
func (v *Vault) relative(full string) (string, bool) {
	rel, err := filepath.Rel(v.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// WatchSettings calls fn whenever the settings blob is written outside
// the process. The blob must exist.
func (v *Vault) WatchSettings(fn func()) error {
	provider := file.Provider(v.FullPath(v.DataPath()))
	err := provider.Watch(func(_ any, err error) {
		if err != nil {
			v.logger.Error("Settings watcher stopped", logfields.Path(v.DataPath()), logfields.Error(err))
			return
		}
		v.logger.Debug("Settings file changed", logfields.Path(v.DataPath()))
		fn()
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", v.DataPath(), err)
	}

	v.mu.Lock()
	v.settings = provider
	v.mu.Unlock()
	return nil
}

// UnwatchSettings stops a WatchSettings watch.
func (v *Vault) UnwatchSettings() error {
	v.mu.Lock()
	provider := v.settings
	v.settings = nil
	v.mu.Unlock()

	if provider == nil {
		return nil
	}
	return provider.Unwatch()
}
