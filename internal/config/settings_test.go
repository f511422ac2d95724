package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/ruminaider/combobox/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *config.Manager {
	t.Helper()
	return config.NewManager(filepath.Join(t.TempDir(), "config.yaml"), zerolog.Nop())
}

func TestManager_DefaultsWhenFileMissing(t *testing.T) {
	m := newManager(t)
	require.NoError(t, m.Load())
	assert.Equal(t, config.DefaultSettings(), m.Settings())
}

func TestManager_ReadsFile(t *testing.T) {
	m := newManager(t)
	require.NoError(t, os.WriteFile(m.Path(), []byte(`multiple: true
match: fuzzy
max_visible: 4
log:
  level: debug
`), 0o644))

	require.NoError(t, m.Load())
	s := m.Settings()
	assert.True(t, s.Multiple)
	assert.Equal(t, "fuzzy", s.Match)
	assert.Equal(t, 4, s.MaxVisible)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "soft", s.Shadow, "unset keys keep defaults")
}

func TestManager_EnvOverridesFile(t *testing.T) {
	m := newManager(t)
	require.NoError(t, os.WriteFile(m.Path(), []byte("max_visible: 4\n"), 0o644))
	t.Setenv("COMBOBOX_MAX_VISIBLE", "12")
	t.Setenv("COMBOBOX_LOG_LEVEL", "trace")

	require.NoError(t, m.Load())
	assert.Equal(t, 12, m.Settings().MaxVisible)
	assert.Equal(t, "trace", m.Settings().Log.Level)
}

func TestManager_FlagsOverrideOnlyWhenSet(t *testing.T) {
	m := newManager(t)
	fs := pflag.NewFlagSet("pick", pflag.ContinueOnError)
	fs.Bool("multiple", false, "")
	fs.String("placeholder", "", "")
	require.NoError(t, m.BindFlag("multiple", fs.Lookup("multiple")))
	require.NoError(t, m.BindFlag("placeholder", fs.Lookup("placeholder")))
	require.NoError(t, fs.Parse([]string{"--multiple"}))

	require.NoError(t, m.Load())
	assert.True(t, m.Settings().Multiple)
	assert.Equal(t, "Select…", m.Settings().Placeholder)
}

func TestManager_BindUnknownFlag(t *testing.T) {
	m := newManager(t)
	assert.Error(t, m.BindFlag("multiple", nil))
}

func TestManager_SaveRoundTrip(t *testing.T) {
	m := newManager(t)
	s := config.DefaultSettings()
	s.Variant = "danger"
	s.Width = 40

	require.NoError(t, m.Save(s))
	assert.Equal(t, s, m.Settings())

	other := config.NewManager(m.Path(), zerolog.Nop())
	require.NoError(t, other.Load())
	assert.Equal(t, "danger", other.Settings().Variant)
	assert.Equal(t, 40, other.Settings().Width)
}

func TestManager_InvalidFile(t *testing.T) {
	m := newManager(t)
	require.NoError(t, os.WriteFile(m.Path(), []byte("{{{"), 0o644))
	assert.Error(t, m.Load())
}

func TestManager_WatchReloadsAndNotifies(t *testing.T) {
	m := newManager(t)
	require.NoError(t, os.WriteFile(m.Path(), []byte("variant: primary\n"), 0o644))
	require.NoError(t, m.Load())

	got := make(chan config.Settings, 8)
	m.OnChange(func(s config.Settings) { got <- s })
	m.Watch()
	m.Watch() // second call is a no-op

	require.NoError(t, os.WriteFile(m.Path(), []byte("variant: danger\nmax_visible: 3\n"), 0o644))

	var last config.Settings
	require.Eventually(t, func() bool {
		for {
			select {
			case s := <-got:
				last = s
			default:
				return last.Variant == "danger"
			}
		}
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 3, last.MaxVisible)
	assert.Equal(t, "danger", m.Settings().Variant)
}
