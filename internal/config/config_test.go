package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Version, cfg.Version)
	assert.Equal(t, "qwerty-phone", cfg.Keyboard.Definition)
	assert.Equal(t, ToneSchemeLongPress, cfg.Engine.ToneScheme)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "softboard.toml")

	cfg := DefaultConfig()
	cfg.Keyboard.Idiom = "tablet"
	cfg.Keyboard.Definition = "qwerty-tablet"
	cfg.Engine.ToneScheme = ToneSchemeVXQ
	cfg.Engine.EnableCorrector = true
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad idiom", func(c *Config) { c.Keyboard.Idiom = "watch" }},
		{"empty definition", func(c *Config) { c.Keyboard.Definition = "" }},
		{"negative gap", func(c *Config) { c.Keyboard.ButtonGap = -1 }},
		{"negative key height", func(c *Config) { c.Keyboard.KeyHeight = -5 }},
		{"bad tone scheme", func(c *Config) { c.Engine.ToneScheme = "whistle" }},
		{"zero candidate limit", func(c *Config) { c.Engine.CandidateLimit = 0 }},
		{"bad log output", func(c *Config) { c.Logging.Output = "syslog" }},
		{"future version", func(c *Config) { c.Version = Version + 1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.NotEmpty(t, verrs)
		})
	}
}

func TestLoaderWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "softboard.toml")
	require.NoError(t, DefaultConfig().Save(path))

	loader := NewLoader(path)
	defer loader.Close()

	_, err := loader.Load()
	require.NoError(t, err)

	changed := make(chan *Config, 1)
	loader.OnChange(func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})
	require.NoError(t, loader.Watch())

	updated := DefaultConfig()
	updated.Engine.EnableCorrector = true
	require.NoError(t, updated.Save(path))

	select {
	case cfg := <-changed:
		assert.True(t, cfg.Engine.EnableCorrector)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload not observed")
	}

	assert.True(t, loader.Config().Engine.EnableCorrector)
}

func TestLoaderKeepsOldConfigOnInvalidReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "softboard.toml")
	require.NoError(t, DefaultConfig().Save(path))

	loader := NewLoader(path)
	defer loader.Close()

	_, err := loader.Load()
	require.NoError(t, err)
	require.NoError(t, loader.Watch())

	require.NoError(t, os.WriteFile(path, []byte("version = 99\n"), 0o644))

	select {
	case err := <-loader.Errors():
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("validation error not observed")
	}

	assert.Equal(t, Version, loader.Config().Version)
}
