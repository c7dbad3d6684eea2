package twsnip

import (
	"context"
	"errors"
	"fmt"

	"github.com/yacobolo/twsnip/internal/assets"
	"github.com/yacobolo/twsnip/internal/stylesheet"
)

// ErrStartup marks failures that prevent the plugin from loading.
var ErrStartup = errors.New("startup failed")

// PreflightFile is the base layer stylesheet under the plugin directory.
const PreflightFile = assets.PreflightFile

// licenseComment heads the base layer whenever it is emitted
var licenseComment = "/*! tailwindcss v" + TailwindVersion + " | MIT License | https://tailwindcss.com */"

// Preflight is the parsed base layer. It is read once and copied into
// every regeneration that enables it.
type Preflight struct {
	path  string
	nodes []stylesheet.Node
}

// LoadPreflight reads and parses <configDir>/plugins/<pluginID>/preflight.css.
// Failures wrap ErrStartup.
func LoadPreflight(ctx context.Context, host Host, pluginID string) (*Preflight, error) {
	path := NormalizePath(pluginDir(host, pluginID) + "/" + PreflightFile)

	content, err := host.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading base layer %s: %w", ErrStartup, path, err)
	}

	sheet, err := stylesheet.Parse(content, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStartup, err)
	}

	return &Preflight{path: path, nodes: sheet.Nodes}, nil
}

// NewPreflight wraps already parsed nodes.
func NewPreflight(nodes []stylesheet.Node) *Preflight {
	return &Preflight{nodes: nodes}
}

// Path is the vault path the base layer was read from.
func (p *Preflight) Path() string {
	return p.path
}

// Nodes returns the license comment followed by a deep copy of the base
// layer rules.
func (p *Preflight) Nodes() []stylesheet.Node {
	nodes := make([]stylesheet.Node, 0, len(p.nodes)+1)
	nodes = append(nodes, &stylesheet.Comment{Text: licenseComment})
	return append(nodes, stylesheet.CloneAll(p.nodes)...)
}
