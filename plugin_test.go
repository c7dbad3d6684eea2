package twsnip

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadedPlugin returns a plugin over an installed host with one note
func loadedPlugin(t *testing.T, note string) (*Plugin, *fakeHost, *syncBuffer) {
	t.Helper()
	h := newFakeHost(t)
	h.install(t)
	if note != "" {
		h.put(t, "note.md", note)
	}

	logger, logs := testLogger()
	p := New(h, Options{Logger: logger})
	require.NoError(t, p.Load(context.Background()))
	t.Cleanup(p.Close)
	return p, h, logs
}

func TestPluginLoad(t *testing.T) {
	p, h, _ := loadedPlugin(t, "p-4")

	_, err := os.Stat(h.FullPath(".obsidian/snippets"))
	require.NoError(t, err, "snippets directory is created")
	assert.Equal(t, ".p-4 {\n  padding: 1rem;\n}\n", h.read(t, snippet))
	assert.Equal(t, DefaultSettings(), p.Settings())
	assert.Empty(t, h.notifications())
}

func TestPluginLoadMissingPreflight(t *testing.T) {
	h := newFakeHost(t)
	logger, logs := testLogger()

	p := New(h, Options{Logger: logger})
	defer p.Close()

	err := p.Load(context.Background())
	require.ErrorIs(t, err, ErrStartup)
	assert.Contains(t, logs.String(), "Failed to load base layer")
	require.Len(t, h.notifications(), 1)
	assert.Contains(t, h.notifications()[0], "Failed to load base layer")
}

func TestPluginLoadMalformedSettings(t *testing.T) {
	h := newFakeHost(t)
	h.install(t)
	h.data = []byte("enable-preflight: [")
	logger, _ := testLogger()

	p := New(h, Options{Logger: logger})
	defer p.Close()

	assert.ErrorIs(t, p.Load(context.Background()), ErrStartup)
}

func TestPluginLoadRegenerationFailureIsReported(t *testing.T) {
	h := newFakeHost(t)
	h.install(t)
	h.put(t, "note.md", "p-4")
	h.put(t, ".obsidian/plugins/twsnip/tailwind.css", "@tailwind nonsense;")
	logger, logs := testLogger()

	p := New(h, Options{Logger: logger})
	defer p.Close()

	require.NoError(t, p.Load(context.Background()))
	assert.Contains(t, logs.String(), "unknown directive @tailwind nonsense")
	require.Len(t, h.notifications(), 1)
	assert.Contains(t, h.notifications()[0], "Failed to regenerate tailwind.css snippet")
}

func TestPluginRefresh(t *testing.T) {
	p, h, _ := loadedPlugin(t, "p-4")

	h.put(t, "second.md", "m-2")
	result, err := p.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Utilities)
	assert.Equal(t, []string{RefreshedMessage}, h.notifications())
	assert.Contains(t, h.read(t, snippet), "margin: 0.5rem;")
}

func TestPluginRefreshFailure(t *testing.T) {
	p, h, logs := loadedPlugin(t, "p-4")
	h.put(t, ".obsidian/plugins/twsnip/tailwind.css", ".a { @apply nope; }")

	_, err := p.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "the `nope` class does not exist")
	assert.Contains(t, logs.String(), "level=ERROR")
	require.Len(t, h.notifications(), 1)
	assert.Contains(t, h.notifications()[0], "Failed to refresh tailwind.css snippet")
	assert.Equal(t, ".p-4 {\n  padding: 1rem;\n}\n", h.read(t, snippet), "previous output kept")
}

func TestPluginDocumentsChanged(t *testing.T) {
	_, h, _ := loadedPlugin(t, "p-4")

	h.put(t, "second.md", "flex")
	h.fire()

	require.Eventually(t, func() bool {
		out, err := os.ReadFile(h.FullPath(snippet))
		return err == nil && string(out) == ".flex {\n  display: flex;\n}\n\n.p-4 {\n  padding: 1rem;\n}\n"
	}, time.Second, 10*time.Millisecond)
}

func TestPluginUpdateSettings(t *testing.T) {
	p, h, _ := loadedPlugin(t, "p-4")

	err := p.UpdateSettings(context.Background(), func(s *Settings) {
		s.AddPrefixSelector = true
	})
	require.NoError(t, err)

	assert.True(t, p.Settings().AddPrefixSelector)
	assert.Equal(t, ".tailwind .p-4 {\n  padding: 1rem;\n}\n", h.read(t, snippet))

	saved, err := ParseSettings(h.data)
	require.NoError(t, err)
	assert.True(t, saved.AddPrefixSelector)
}

func TestPluginUpdateSettingsSaveFailure(t *testing.T) {
	p, h, _ := loadedPlugin(t, "p-4")
	h.saveErr = errors.New("disk full")

	err := p.UpdateSettings(context.Background(), func(s *Settings) {
		s.EnablePreflight = true
	})
	require.ErrorContains(t, err, "disk full")
	assert.False(t, p.Settings().EnablePreflight, "prior settings stay active")
}

func TestPluginReloadSettings(t *testing.T) {
	p, h, _ := loadedPlugin(t, "p-4")

	data, err := MarshalSettings(Settings{AddPrefixSelector: true, PrefixSelector: "#notes", ContentConfig: []string{}})
	require.NoError(t, err)
	h.data = data

	require.NoError(t, p.ReloadSettings(context.Background()))
	assert.Equal(t, "#notes", p.Settings().PrefixSelector)

	require.Eventually(t, func() bool {
		out, err := os.ReadFile(h.FullPath(snippet))
		return err == nil && string(out) == "#notes .p-4 {\n  padding: 1rem;\n}\n"
	}, time.Second, 10*time.Millisecond)
}

func TestPluginCloseUnsubscribes(t *testing.T) {
	h := newFakeHost(t)
	h.install(t)
	logger, _ := testLogger()

	p := New(h, Options{Logger: logger})
	require.NoError(t, p.Load(context.Background()))
	require.Len(t, h.subscribers, 1)

	p.Close()
	assert.Empty(t, h.subscribers)
}
