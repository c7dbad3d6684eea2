// Package assets holds the stylesheets installed by `twsnip init`.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed preflight.css tailwind.css
var files embed.FS

// File names under the plugin directory
const (
	PreflightFile = "preflight.css"
	EntryFile     = "tailwind.css"
)

// Preflight returns the bundled base layer stylesheet.
func Preflight() []byte {
	return mustRead(PreflightFile)
}

// Entry returns the default entry stylesheet.
func Entry() []byte {
	return mustRead(EntryFile)
}

// Names lists every bundled file.
func Names() []string {
	return []string{PreflightFile, EntryFile}
}

// Read returns a bundled file by name.
func Read(name string) ([]byte, error) {
	return fs.ReadFile(files, name)
}

func mustRead(name string) []byte {
	data, err := Read(name)
	if err != nil {
		panic(err)
	}
	return data
}
