package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/safetylens-cli/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	c := config.Default()
	c.TopN = 8
	c.Timezone = "Europe/Berlin"
	c.Delimiter = "semicolon"
	require.NoError(t, config.Save(c, path))

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, got.TopN)
	loc, err := got.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
	d, err := got.DelimiterRune()
	require.NoError(t, err)
	assert.Equal(t, ';', d)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_n: 4\n"), 0o644))
	t.Setenv("SAFETYLENS_TOP_N", "9")
	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, c.TopN)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: Mars/Base\n"), 0o644))
	c, err := config.Load(path)
	require.Error(t, err)
	assert.Nil(t, c)
}

func TestParseDelimiter(t *testing.T) {
	cases := map[string]rune{"": 0, "auto": 0, "comma": ',', ";": ';', "tab": '\t', `\t`: '\t', "|": '|'}
	for in, want := range cases {
		got, err := config.ParseDelimiter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{`"`, "ab", "\n"} {
		_, err := config.ParseDelimiter(bad)
		assert.Error(t, err, bad)
	}
}

func TestLocationDefaultsToUTC(t *testing.T) {
	loc, err := (&config.Global{}).Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
