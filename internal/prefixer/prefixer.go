// Package prefixer scopes every rule of a stylesheet under a prefix
// selector, so generated utilities only apply inside a container.
package prefixer

import (
	"strings"

	"github.com/yacobolo/twsnip/internal/stylesheet"
)

// Apply rewrites every selector S to "prefix S" and returns the number of
// selectors changed. Keyframe selectors are left alone. Selectors that
// already start with prefix are prefixed again, so an entry rule such as
// ".tailwind { ... }" ends up scoped to ".tailwind .tailwind". Applying
// twice to the same sheet therefore nests twice. An empty prefix changes
// nothing.
func Apply(sheet *stylesheet.Stylesheet, prefix string) int {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return 0
	}

	changed := 0
	stylesheet.WalkRules(sheet.Nodes, func(rule *stylesheet.Rule, ancestors []*stylesheet.AtRule) {
		if inKeyframes(ancestors) {
			return
		}
		for i, sel := range rule.Selectors {
			rule.Selectors[i] = prefix + " " + sel
			changed++
		}
	})

	return changed
}

func inKeyframes(ancestors []*stylesheet.AtRule) bool {
	for _, at := range ancestors {
		if strings.HasSuffix(strings.ToLower(at.Name), "keyframes") {
			return true
		}
	}
	return false
}
