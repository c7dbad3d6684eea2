// Package vault is the file system host: a directory of Markdown notes with
// an editor configuration directory inside it.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/providers/file"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/yacobolo/twsnip"
	"github.com/yacobolo/twsnip/internal/console"
)

const (
	// DefaultConfigDir is the editor's configuration directory.
	DefaultConfigDir = ".obsidian"

	// DefaultDebounce is the quiet window before document changes are announced.
	DefaultDebounce = 300 * time.Millisecond

	// DataFile holds the persisted plugin settings.
	DataFile = "data.yaml"

	documentPattern = "**/*.md"
)

// Options configures a Vault
type Options struct {
	ConfigDir string        // DefaultConfigDir when empty
	PluginID  string        // twsnip.DefaultPluginID when empty
	Ignore    []string      // Extra gitignore-style patterns for documents
	Debounce  time.Duration // DefaultDebounce when zero
	Logger    *slog.Logger
	Reporter  *console.Reporter // Notifications; dropped when nil
}

// Vault implements twsnip.Host over a directory.
type Vault struct {
	root      string
	configDir string
	pluginID  string
	ignore    *ignore.GitIgnore
	debounce  time.Duration
	logger    *slog.Logger
	reporter  *console.Reporter

	mu          sync.Mutex
	subscribers map[int]func()
	nextID      int

	settings *file.File // Set by WatchSettings
}

var _ twsnip.Host = (*Vault)(nil)

// Open returns a vault rooted at dir. The vault .gitignore, when present,
// is combined with opts.Ignore to filter documents.
func Open(dir string, opts Options) (*Vault, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving vault %s: %w", dir, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening vault: %s is not a directory", root)
	}

	if opts.ConfigDir == "" {
		opts.ConfigDir = DefaultConfigDir
	}
	if opts.PluginID == "" {
		opts.PluginID = twsnip.DefaultPluginID
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ignorer, err := loadIgnore(root, opts.Ignore)
	if err != nil {
		return nil, err
	}

	return &Vault{
		root:        root,
		configDir:   twsnip.NormalizePath(opts.ConfigDir),
		pluginID:    opts.PluginID,
		ignore:      ignorer,
		debounce:    opts.Debounce,
		logger:      opts.Logger,
		reporter:    opts.Reporter,
		subscribers: make(map[int]func()),
	}, nil
}

func loadIgnore(root string, extra []string) (*ignore.GitIgnore, error) {
	gitignore := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignore); err == nil {
		gi, err := ignore.CompileIgnoreFileAndLines(gitignore, extra...)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", gitignore, err)
		}
		return gi, nil
	}
	return ignore.CompileIgnoreLines(extra...), nil
}

// Root is the absolute vault directory.
func (v *Vault) Root() string { return v.root }

// PluginID names the plugin directory under <configDir>/plugins.
func (v *Vault) PluginID() string { return v.pluginID }

func (v *Vault) ConfigDir() string { return v.configDir }

func (v *Vault) FullPath(rel string) string {
	rel = twsnip.NormalizePath(rel)
	if rel == "/" {
		return v.root
	}
	return filepath.Join(v.root, filepath.FromSlash(rel))
}

// Documents lists every Markdown note outside the config dir that is not
// ignored, sorted by path.
func (v *Vault) Documents(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(v.root), documentPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	docs := matches[:0]
	for _, m := range matches {
		if v.excluded(m) {
			continue
		}
		docs = append(docs, m)
	}
	sort.Strings(docs)
	return docs, nil
}

// excluded reports whether a vault path is outside the document set
func (v *Vault) excluded(rel string) bool {
	if rel == v.configDir || strings.HasPrefix(rel, v.configDir+"/") {
		return true
	}
	return v.ignore.MatchesPath(rel)
}

func (v *Vault) Read(_ context.Context, rel string) (string, error) {
	data, err := os.ReadFile(v.FullPath(rel))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (v *Vault) Write(_ context.Context, rel string, data string) error {
	return os.WriteFile(v.FullPath(rel), []byte(data), 0o644)
}

func (v *Vault) Exists(_ context.Context, rel string) (bool, error) {
	_, err := os.Stat(v.FullPath(rel))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (v *Vault) IsFile(_ context.Context, rel string) (bool, error) {
	info, err := os.Stat(v.FullPath(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (v *Vault) Mkdir(_ context.Context, rel string) error {
	return os.MkdirAll(v.FullPath(rel), 0o755)
}

// DataPath is the vault path of the settings blob.
func (v *Vault) DataPath() string {
	return path.Join(v.configDir, "plugins", v.pluginID, DataFile)
}

// LoadData returns the settings blob, nil when it was never saved.
func (v *Vault) LoadData(_ context.Context) ([]byte, error) {
	full := v.FullPath(v.DataPath())
	data, err := file.Provider(full).ReadBytes()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", v.DataPath(), err)
	}
	return data, nil
}

func (v *Vault) SaveData(_ context.Context, data []byte) error {
	full := v.FullPath(v.DataPath())
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (v *Vault) OnDocumentsChanged(fn func()) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.subscribers[id] = fn

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subscribers, id)
	}
}

// publish calls every document subscriber
func (v *Vault) publish() {
	v.mu.Lock()
	fns := make([]func(), 0, len(v.subscribers))
	for _, fn := range v.subscribers {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (v *Vault) Notify(msg string) {
	if v.reporter == nil {
		return
	}
	v.reporter.Notify(msg)
}
