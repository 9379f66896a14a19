package config_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/illuscio-dev/spanviews-go/config"
	"github.com/illuscio-dev/spanviews-go/mimetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(test *testing.T, content string) string {
	path := filepath.Join(test.TempDir(), "spanviews.yaml")
	require.NoError(test, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(test *testing.T) {
	assert := assert.New(test)

	cfg, err := config.Load(writeConfig(test, "{}\n"))
	require.NoError(test, err)

	assert.Equal(config.Default(), cfg)
	assert.Equal(mimetype.JSON, cfg.Render.MimeType())
}

func TestLoadFile(test *testing.T) {
	assert := assert.New(test)

	cfg, err := config.Load(writeConfig(test, `
app_name: widgets
listen: ":9000"
base_url: "https://api.example.com/"
log:
  level: debug
  format: json
  outputs: [stderr]
render:
  indent: 4
  default_mimetype: yaml
`))
	require.NoError(test, err)

	assert.Equal("widgets", cfg.AppName)
	assert.Equal(":9000", cfg.Listen)
	assert.Equal("https://api.example.com", cfg.BaseURL)
	assert.Equal("debug", cfg.Log.Level)
	assert.Equal("json", cfg.Log.Format)
	assert.Equal([]string{"stderr"}, cfg.Log.Outputs)
	assert.Equal(4, cfg.Render.Indent)
	assert.Equal(mimetype.YAML, cfg.Render.MimeType())
	// Untouched sections keep their defaults.
	assert.Equal(config.Default().Log.Rotation, cfg.Log.Rotation)
}

func TestLoadEnvOverrides(test *testing.T) {
	test.Setenv("SPANVIEWS_LOG_LEVEL", "warn")
	test.Setenv("SPANVIEWS_RENDER_INDENT", "0")
	test.Setenv("SPANVIEWS_CONFIG", writeConfig(test, "listen: \":7000\"\n"))

	cfg, err := config.Load("")
	require.NoError(test, err)

	assert.Equal(test, "warn", cfg.Log.Level)
	assert.Equal(test, 0, cfg.Render.Indent)
	assert.Equal(test, ":7000", cfg.Listen)
}

func TestLoadInvalid(test *testing.T) {
	_, err := config.Load(writeConfig(test, "log:\n  level: loud\n"))
	assert.EqualError(test, err, `invalid log.level: "loud"`)

	_, err = config.Load(writeConfig(test, "render:\n  indent: 40\n"))
	assert.EqualError(test, err, "invalid render.indent: 40")

	_, err = config.Load(writeConfig(test, "log: [\n"))
	assert.Error(test, err)

	assert.Panics(test, func() {
		config.MustLoad(writeConfig(test, "log:\n  level: loud\n"))
	})
}

func TestLoadFillsBlanks(test *testing.T) {
	assert := assert.New(test)

	cfg, err := config.Load(writeConfig(test, `
listen: ""
log:
  format: ""
  outputs: []
render:
  default_mimetype: ""
`))
	require.NoError(test, err)

	assert.Equal(":8080", cfg.Listen)
	assert.Equal("console", cfg.Log.Format)
	assert.Equal([]string{"stdout"}, cfg.Log.Outputs)
	assert.Equal(string(mimetype.JSON), cfg.Render.DefaultMimeType)
}
