// Package utility generates utility-class CSS from the class names found in
// content files and expands the framework directives of an entry
// stylesheet (@tailwind, @layer, @apply).
package utility

import (
	"fmt"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/yacobolo/twsnip/internal/stylesheet"
)

// Options configures a compilation
type Options struct {
	Content   []string          // Files or glob patterns to scan for classes
	Theme     *Theme            // Nil uses DefaultTheme
	Preflight []stylesheet.Node // Emitted at @tailwind base; nil leaves it empty
	Ignore    *ignore.GitIgnore // Filters glob results
	BaseDir   string            // Ignore patterns are relative to this directory
}

// Stats describes what a compilation found and produced
type Stats struct {
	Candidates int // Distinct class candidates in content
	Utilities  int // Generated utility rules
	Scan       ScanStats
}

// layerNames are the cascade layers a @tailwind directive can emit
var layerNames = []string{"base", "components", "utilities"}

type compiler struct {
	name     string
	theme    *Theme
	registry *registry
	variants *variantSet
}

// generated is one utility rule before it is placed in the output
type generated struct {
	media    []variant // @media wrappers, outermost first
	variants []int     // Ranks of the selector variants
	order    int
	raw      string
	rule     *stylesheet.Rule
}

// Compile rewrites sheet in place: @tailwind directives are replaced by
// the base layer, custom @layer blocks and generated utilities, and @apply
// rules are expanded into declarations.
func Compile(sheet *stylesheet.Stylesheet, opts Options) (Stats, error) {
	th := opts.Theme
	if th == nil {
		th = DefaultTheme()
	}

	scanner := &Scanner{Ignore: opts.Ignore, BaseDir: opts.BaseDir}
	candidates, scanStats, err := scanner.Scan(opts.Content)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Candidates: len(candidates), Scan: scanStats}

	c := &compiler{
		name:     sheet.Name,
		theme:    th,
		registry: defaultRegistry,
		variants: newVariantSet(th),
	}

	layers, rest := extractLayers(sheet.Nodes)
	if err := c.expandApply(rest); err != nil {
		return stats, err
	}
	for _, name := range layerNames {
		if err := c.expandApply(layers[name]); err != nil {
			return stats, err
		}
	}

	utilities := c.generate(candidates)
	stats.Utilities = len(utilities)

	var out []stylesheet.Node
	used := make(map[string]bool)
	for _, n := range rest {
		at, ok := n.(*stylesheet.AtRule)
		if !ok || at.Name != "tailwind" {
			out = append(out, n)
			continue
		}

		switch at.Params {
		case "base":
			out = append(out, stylesheet.CloneAll(opts.Preflight)...)
			out = append(out, layers["base"]...)
		case "components":
			out = append(out, layers["components"]...)
		case "utilities":
			out = append(out, render(utilities)...)
			out = append(out, layers["utilities"]...)
		case "variants", "screens":
			// Variants are emitted with their utilities
		default:
			return stats, fmt.Errorf("%s: unknown directive @tailwind %s", c.name, at.Params)
		}
		used[at.Params] = true
	}

	for _, name := range layerNames {
		if len(layers[name]) > 0 && !used[name] {
			return stats, fmt.Errorf("%s: `@layer %s` is used but no matching `@tailwind %s` directive is present", c.name, name, name)
		}
	}

	sheet.Nodes = out
	return stats, nil
}

// extractLayers pulls top-level @layer base|components|utilities blocks
// out of the node list
func extractLayers(nodes []stylesheet.Node) (map[string][]stylesheet.Node, []stylesheet.Node) {
	layers := make(map[string][]stylesheet.Node)
	var rest []stylesheet.Node

	for _, n := range nodes {
		at, ok := n.(*stylesheet.AtRule)
		if ok && at.Name == "layer" && at.HasBlock && isLayerName(at.Params) {
			layers[at.Params] = append(layers[at.Params], at.Nodes...)
			continue
		}
		rest = append(rest, n)
	}

	return layers, rest
}

func isLayerName(name string) bool {
	for _, l := range layerNames {
		if l == name {
			return true
		}
	}
	return false
}

// expandApply replaces @apply at-rules inside rules with declarations
func (c *compiler) expandApply(nodes []stylesheet.Node) error {
	var err error
	stylesheet.WalkRules(nodes, func(rule *stylesheet.Rule, _ []*stylesheet.AtRule) {
		if err != nil {
			return
		}

		var out []stylesheet.Node
		for _, n := range rule.Nodes {
			at, ok := n.(*stylesheet.AtRule)
			if !ok || at.Name != "apply" {
				out = append(out, n)
				continue
			}

			decls, applyErr := c.apply(at.Params)
			if applyErr != nil {
				err = fmt.Errorf("%s: %s: %w", c.name, strings.Join(rule.Selectors, ", "), applyErr)
				return
			}
			out = append(out, decls...)
		}
		rule.Nodes = out
	})
	return err
}

// apply resolves the class list of one @apply rule
func (c *compiler) apply(params string) ([]stylesheet.Node, error) {
	classes := strings.Fields(params)
	important := false
	if n := len(classes); n > 0 && classes[n-1] == "!important" {
		important = true
		classes = classes[:n-1]
	}

	var decls []stylesheet.Node
	for _, class := range classes {
		cand, ok := ParseCandidate(class)
		if !ok {
			return nil, fmt.Errorf("the `%s` class does not exist", class)
		}
		if len(cand.Variants) > 0 {
			return nil, fmt.Errorf("@apply does not support variants: `%s`", class)
		}

		m, ok := c.registry.resolve(cand.Utility, cand.Negative, c.theme)
		if !ok {
			return nil, fmt.Errorf("the `%s` class does not exist", class)
		}
		if m.suffix != "" {
			return nil, fmt.Errorf("`%s` cannot be used with @apply", class)
		}

		decls = append(decls, toDeclarations(m.decls, important || cand.Important)...)
	}

	return decls, nil
}

// generate builds a rule for every candidate that names a known utility,
// sorted into output order
func (c *compiler) generate(candidates []string) []generated {
	var out []generated

	for _, raw := range candidates {
		g, ok := c.build(raw)
		if ok {
			out = append(out, g)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if d := compareRanks(mediaRanks(a.media), mediaRanks(b.media)); d != 0 {
			return d < 0
		}
		if d := compareRanks(a.variants, b.variants); d != 0 {
			return d < 0
		}
		if a.order != b.order {
			return a.order < b.order
		}
		return a.raw < b.raw
	})

	return out
}

func (c *compiler) build(raw string) (generated, bool) {
	cand, ok := ParseCandidate(raw)
	if !ok {
		return generated{}, false
	}

	m, ok := c.registry.resolve(cand.Utility, cand.Negative, c.theme)
	if !ok {
		return generated{}, false
	}

	g := generated{order: m.order, raw: raw}
	selector := "." + EscapeClass(raw)
	parent := ""

	for _, name := range cand.Variants {
		v, ok := c.variants.lookup(name)
		if !ok {
			return generated{}, false
		}
		switch v.kind {
		case pseudoVariant:
			selector += v.value
			g.variants = append(g.variants, v.rank)
		case parentVariant:
			parent += v.value
			g.variants = append(g.variants, v.rank)
		case mediaVariant:
			g.media = append(g.media, v)
		}
	}

	g.rule = &stylesheet.Rule{
		Selectors: []string{parent + selector + m.suffix},
		Nodes:     toDeclarations(m.decls, cand.Important),
	}
	return g, true
}

// render places generated rules in the output, grouping consecutive rules
// that share the same @media wrappers
func render(rules []generated) []stylesheet.Node {
	var out []stylesheet.Node
	var current []variant
	var container *[]stylesheet.Node

	for _, g := range rules {
		if container == nil || !sameMedia(current, g.media) {
			current = g.media
			if len(g.media) == 0 {
				container = &out
			} else {
				outer := &stylesheet.AtRule{Name: "media", Params: g.media[0].value, HasBlock: true}
				inner := outer
				for _, m := range g.media[1:] {
					child := &stylesheet.AtRule{Name: "media", Params: m.value, HasBlock: true}
					inner.Nodes = append(inner.Nodes, child)
					inner = child
				}
				out = append(out, outer)
				container = &inner.Nodes
			}
		}
		*container = append(*container, g.rule)
	}

	return out
}

func sameMedia(a, b []variant) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].value != b[i].value {
			return false
		}
	}
	return true
}

func mediaRanks(media []variant) []int {
	ranks := make([]int, len(media))
	for i, m := range media {
		ranks[i] = m.rank
	}
	return ranks
}

// compareRanks orders rank lists lexicographically, shorter first on ties
func compareRanks(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}
