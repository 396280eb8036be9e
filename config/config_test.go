package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second/60, cfg.FrameInterval())
	assert.Len(t, cfg.Passes, 3)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bullet-trial.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[pools]
entities = 64

[time]
max_delta = "50ms"

[logging]
level = "debug"
format = "json"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Pools.Entities)
	assert.Equal(t, 1001, cfg.Pools.Colliders, "unset keys keep defaults")
	assert.Equal(t, 50*time.Millisecond, cfg.Time.MaxDelta)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Len(t, cfg.Passes, 3)
}

func TestPassesReplaceDefaults(t *testing.T) {
	cfg, err := Parse(`
[[passes]]
id = "only"
order = 1
target = "framebuffer"
effect = "sprite"
include = ["bullet"]
`)
	require.NoError(t, err)
	require.Len(t, cfg.Passes, 1)
	assert.Equal(t, "only", cfg.Passes[0].ID)
	assert.Len(t, cfg.Targets, 1, "targets untouched")
}

func TestRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"unknown key", "[pools]\nentitys = 5"},
		{"zero pool", "[pools]\nvisuals = 0"},
		{"duplicate tag", "[tags]\nnames = [\"a\", \"a\"]"},
		{"unknown pass tag", "[[passes]]\nid = \"x\"\norder = 1\ninclude = [\"ghost\"]"},
		{"bad format", "[logging]\nformat = \"xml\""},
		{"bad toml", "[pools\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
