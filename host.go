package twsnip

import (
	"context"
	"strings"
)

// Host is the vault the plugin runs in. Every path is vault-relative and
// normalized with NormalizePath unless stated otherwise.
type Host interface {
	// ConfigDir is the vault-relative configuration root, e.g. ".obsidian".
	ConfigDir() string

	// FullPath returns the absolute file system path of a vault path.
	FullPath(rel string) string

	// Documents lists every managed document (Markdown note).
	Documents(ctx context.Context) ([]string, error)

	Read(ctx context.Context, rel string) (string, error)
	Write(ctx context.Context, rel string, data string) error
	Exists(ctx context.Context, rel string) (bool, error)
	// IsFile reports whether rel exists and is a regular file.
	IsFile(ctx context.Context, rel string) (bool, error)
	Mkdir(ctx context.Context, rel string) error

	// LoadData returns the persisted settings blob, nil when nothing was saved.
	LoadData(ctx context.Context) ([]byte, error)
	SaveData(ctx context.Context, data []byte) error

	// OnDocumentsChanged registers fn for document set changes.
	OnDocumentsChanged(fn func()) (unsubscribe func())

	// Notify shows a transient message to the user.
	Notify(msg string)
}

// NormalizePath converts a path to the vault form: forward slashes, no
// empty or "." segments and no leading or trailing slash. The vault root
// is "/".
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.ReplaceAll(p, "\u00a0", " ")

	parts := strings.Split(p, "/")
	kept := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		kept = append(kept, part)
	}

	if len(kept) == 0 {
		return "/"
	}
	return strings.Join(kept, "/")
}

// configPath joins parts under the host's config dir
func configPath(host Host, parts ...string) string {
	return NormalizePath(host.ConfigDir() + "/" + strings.Join(parts, "/"))
}

// pluginDir is <configDir>/plugins/<id>
func pluginDir(host Host, pluginID string) string {
	return configPath(host, "plugins", pluginID)
}
