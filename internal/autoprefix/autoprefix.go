// Package autoprefix adds vendor-prefixed copies of declarations and
// selectors that the editor's rendering engines still need.
package autoprefix

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/yacobolo/twsnip/internal/stylesheet"
)

// Targets are the engines the snippet is prefixed for: the Chromium
// builds behind the desktop app plus the WebKit and Gecko engines of the
// mobile apps and older installs.
var Targets = []api.Engine{
	{Name: api.EngineChrome, Version: "87"},
	{Name: api.EngineEdge, Version: "88"},
	{Name: api.EngineFirefox, Version: "78"},
	{Name: api.EngineSafari, Version: "14.1"},
	{Name: api.EngineIOS, Version: "14.5"},
}

// pseudoElements maps standard pseudo-elements to the vendor form that
// gets its own rule (a browser drops a whole rule on an unknown selector).
var pseudoElements = []struct {
	standard string
	vendor   string
}{
	{"::placeholder", "::-moz-placeholder"},
	{"::file-selector-button", "::-webkit-file-upload-button"},
}

// Stats counts what a run added
type Stats struct {
	Declarations int
	Rules        int
}

// Process prefixes declarations for Targets with esbuild and adds
// prefixed copies of pseudo-element rules before the originals. Prefixed
// forms that already exist are kept and not added again, so running
// Process on its own output changes nothing.
func Process(sheet *stylesheet.Stylesheet) (Stats, error) {
	var stats Stats
	before := countVendor(sheet.Nodes)

	result := api.Transform(stylesheet.Print(sheet), api.TransformOptions{
		Loader:        api.LoaderCSS,
		Engines:       Targets,
		LegalComments: api.LegalCommentsInline,
		Sourcefile:    sheet.Name,
		LogLevel:      api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		if msg.Location != nil {
			return stats, fmt.Errorf("%s:%d: %s", sheet.Name, msg.Location.Line, msg.Text)
		}
		return stats, fmt.Errorf("%s: %s", sheet.Name, msg.Text)
	}

	prefixed, err := stylesheet.Parse(string(result.Code), sheet.Name)
	if err != nil {
		return stats, err
	}

	nodes := dedupeAll(prefixed.Nodes)
	if added := countVendor(nodes) - before; added > 0 {
		stats.Declarations = added
	}
	sheet.Nodes = copyPseudoRules(nodes, &stats)
	return stats, nil
}

func dedupeAll(nodes []stylesheet.Node) []stylesheet.Node {
	nodes = dedupe(nodes)
	for _, n := range nodes {
		switch v := n.(type) {
		case *stylesheet.Rule:
			v.Nodes = dedupeAll(v.Nodes)
		case *stylesheet.AtRule:
			v.Nodes = dedupeAll(v.Nodes)
		}
	}
	return nodes
}

func copyPseudoRules(nodes []stylesheet.Node, stats *Stats) []stylesheet.Node {
	out := make([]stylesheet.Node, 0, len(nodes))

	for _, n := range nodes {
		switch v := n.(type) {
		case *stylesheet.Rule:
			for _, cp := range pseudoCopies(v) {
				if hasRule(out, cp.Selectors) || hasRule(nodes, cp.Selectors) {
					continue
				}
				out = append(out, cp)
				stats.Rules++
			}
			out = append(out, v)

		case *stylesheet.AtRule:
			v.Nodes = copyPseudoRules(v.Nodes, stats)
			out = append(out, v)

		default:
			out = append(out, n)
		}
	}

	return out
}

// dedupe drops a declaration repeated verbatim in the same block, and a
// vendor-prefixed property already declared earlier in it. The first
// occurrence wins, so an author's own prefixed value survives.
func dedupe(nodes []stylesheet.Node) []stylesheet.Node {
	seen := make(map[string]bool)
	seenVendor := make(map[string]bool)
	out := nodes[:0]

	for _, n := range nodes {
		d, ok := n.(*stylesheet.Declaration)
		if !ok {
			out = append(out, n)
			continue
		}

		full := fmt.Sprintf("%s:%s:%t", d.Property, d.Value, d.Important)
		if seen[full] {
			continue
		}
		if isVendorProperty(d.Property) {
			if seenVendor[d.Property] {
				continue
			}
			seenVendor[d.Property] = true
		}
		seen[full] = true
		out = append(out, d)
	}

	return out
}

// pseudoCopies returns one rule per vendor pseudo-element used by r,
// holding only the selectors that use it
func pseudoCopies(r *stylesheet.Rule) []*stylesheet.Rule {
	var out []*stylesheet.Rule
	for _, pe := range pseudoElements {
		var selectors []string
		for _, sel := range r.Selectors {
			if strings.Contains(sel, pe.standard) {
				selectors = append(selectors, strings.ReplaceAll(sel, pe.standard, pe.vendor))
			}
		}
		if len(selectors) == 0 {
			continue
		}
		out = append(out, &stylesheet.Rule{
			Selectors: selectors,
			Nodes:     stylesheet.CloneAll(r.Nodes),
		})
	}
	return out
}

func hasRule(nodes []stylesheet.Node, selectors []string) bool {
	for _, n := range nodes {
		r, ok := n.(*stylesheet.Rule)
		if !ok || len(r.Selectors) != len(selectors) {
			continue
		}
		same := true
		for i := range selectors {
			if r.Selectors[i] != selectors[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

var vendorPrefixes = []string{"-webkit-", "-moz-", "-ms-", "-o-"}

func isVendorProperty(property string) bool {
	for _, prefix := range vendorPrefixes {
		if strings.HasPrefix(property, prefix) {
			return true
		}
	}
	return false
}

// countVendor counts declarations with a vendor-prefixed property or value
func countVendor(nodes []stylesheet.Node) int {
	count := 0
	for _, n := range nodes {
		switch v := n.(type) {
		case *stylesheet.Declaration:
			if isVendorProperty(v.Property) || isVendorProperty(v.Value) {
				count++
			}
		case *stylesheet.Rule:
			count += countVendor(v.Nodes)
		case *stylesheet.AtRule:
			count += countVendor(v.Nodes)
		}
	}
	return count
}
