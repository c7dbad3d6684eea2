package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/twsnip/internal/stylesheet"
)

func TestBundledStylesheetsParse(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			data, err := Read(name)
			require.NoError(t, err)

			sheet, err := stylesheet.Parse(string(data), name)
			require.NoError(t, err)
			assert.NotEmpty(t, sheet.Nodes)
		})
	}
}

func TestEntryDirectives(t *testing.T) {
	sheet := stylesheet.MustParse(string(Entry()), EntryFile)

	var params []string
	for _, n := range sheet.Nodes {
		at, ok := n.(*stylesheet.AtRule)
		require.True(t, ok)
		assert.Equal(t, "tailwind", at.Name)
		params = append(params, at.Params)
	}
	assert.Equal(t, []string{"base", "components", "utilities"}, params)
}
