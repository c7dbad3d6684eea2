package twsnip

import (
	"context"
	"fmt"
)

// ContentPaths returns the absolute paths scanned for class names: every
// document in host order, then one pattern per configured glob. Globs are
// expanded by the compiler.
func ContentPaths(ctx context.Context, host Host, settings Settings) ([]string, error) {
	docs, err := host.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	paths := make([]string, 0, len(docs)+len(settings.ContentConfig))
	for _, doc := range docs {
		paths = append(paths, host.FullPath(doc))
	}
	for _, glob := range settings.ContentConfig {
		paths = append(paths, host.FullPath(NormalizePath(host.ConfigDir()+"/"+glob)))
	}

	return paths, nil
}
