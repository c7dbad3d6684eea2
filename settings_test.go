package twsnip

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRoundTrip(t *testing.T) {
	h := newFakeHost(t)
	ctx := context.Background()

	want := Settings{
		EnablePreflight:   true,
		AddPrefixSelector: true,
		PrefixSelector:    "#notes",
		EntryPoint:        "styles/main.css",
		ThemeConfig:       "theme.json",
		ContentConfig:     []string{"templates/**/*.html", "extra.txt"},
	}
	require.NoError(t, SaveSettings(ctx, h, want))

	got, err := LoadSettings(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name string
		data string
		want func(*Settings)
	}{
		{
			name: "nothing saved",
			data: "",
			want: func(*Settings) {},
		},
		{
			name: "absent keys keep defaults",
			data: "enable-preflight: true\n",
			want: func(s *Settings) { s.EnablePreflight = true },
		},
		{
			name: "empty prefix is kept",
			data: "prefix-selector: \"\"\n",
			want: func(s *Settings) { s.PrefixSelector = "" },
		},
		{
			name: "editor json with legacy names",
			data: `{"enablePreflight": true, "addPrefixSelector": true, "prefixSelector": ".tw", "contentConfig": ["a/*.html"]}`,
			want: func(s *Settings) {
				s.EnablePreflight = true
				s.AddPrefixSelector = true
				s.PrefixSelector = ".tw"
				s.ContentConfig = []string{"a/*.html"}
			},
		},
		{
			name: "current key wins over legacy name",
			data: "prefix-selector: .new\nprefixSelector: .old\n",
			want: func(s *Settings) { s.PrefixSelector = ".new" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFakeHost(t)
			if tt.data != "" {
				h.data = []byte(tt.data)
			}

			got, err := LoadSettings(context.Background(), h)
			require.NoError(t, err)

			want := DefaultSettings()
			tt.want(&want)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadSettingsMalformed(t *testing.T) {
	h := newFakeHost(t)
	h.data = []byte("enable-preflight: [unclosed\n")

	_, err := LoadSettings(context.Background(), h)
	assert.ErrorContains(t, err, "parsing settings")
}

func TestSettingsClone(t *testing.T) {
	s := DefaultSettings()
	s.ContentConfig = []string{"a"}

	c := s.Clone()
	c.ContentConfig[0] = "b"
	assert.Equal(t, "a", s.ContentConfig[0])
}
