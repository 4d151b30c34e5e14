package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadThresholdPresent(t *testing.T) {
	path := writeFile(t, "config.json", `{"youden_threshold": 0.35}`)
	assert.Equal(t, 0.35, LoadThreshold(path, nil))

	value, err := ReadThreshold(path)
	require.NoError(t, err)
	assert.Equal(t, 0.35, value)
}

func TestLoadThresholdFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		wantErr bool
	}{
		{name: "missing file", content: nil, wantErr: true},
		{name: "malformed json", content: strPtr(`{"youden_threshold": `), wantErr: true},
		{name: "not an object", content: strPtr(`[0.3]`), wantErr: true},
		{name: "non numeric", content: strPtr(`{"youden_threshold": true}`), wantErr: true},
		{name: "null value", content: strPtr(`{"youden_threshold": null}`), wantErr: true},
		{name: "bad string", content: strPtr(`{"youden_threshold": "high"}`), wantErr: true},
		{name: "out of range", content: strPtr(`{"youden_threshold": 1.5}`), wantErr: true},
		{name: "key absent", content: strPtr(`{"other": 1}`), wantErr: false},
		{name: "empty object", content: strPtr(`{}`), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if tt.content != nil {
				path = writeFile(t, "config.json", *tt.content)
			}

			var reported error
			got := LoadThreshold(path, func(err error) { reported = err })
			assert.Equal(t, 0.50, got)
			if tt.wantErr {
				assert.Error(t, reported)
			} else {
				assert.NoError(t, reported)
			}
		})
	}
}

func TestParseThresholdNullIsMalformed(t *testing.T) {
	value, err := ParseThreshold([]byte(`{"youden_threshold": null}`))
	assert.Error(t, err)
	assert.Equal(t, DefaultThreshold, value)
}

func TestParseThresholdNumericString(t *testing.T) {
	value, err := ParseThreshold([]byte(`{"youden_threshold": "0.42"}`))
	require.NoError(t, err)
	assert.Equal(t, 0.42, value)
}

func TestParseThresholdBounds(t *testing.T) {
	for _, v := range []string{"0", "1", "0.0", "1.0"} {
		_, err := ParseThreshold([]byte(`{"youden_threshold": ` + v + `}`))
		assert.NoError(t, err, v)
	}
	_, err := ParseThreshold([]byte(`{"youden_threshold": -0.01}`))
	assert.ErrorIs(t, err, ErrThresholdRange)
}

func TestBundledThresholdConfig(t *testing.T) {
	assert.Equal(t, 0.412, LoadThreshold("../config.json", nil))
}

func TestLoadSettingsDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	settings, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, 8501, settings.Http.Port)
	assert.Equal(t, filepath.Join("models", "model.json"), settings.Model.Path)
	assert.Equal(t, "config.json", settings.Model.ConfigPath)
	assert.Equal(t, "en", settings.Display.Locale)
}

func TestLoadSettingsFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
http:
  port: 9000
log:
  level: debug
model:
  path: /srv/model.json
  watch: true
cache:
  size: -1
`)
	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, settings.Http.Port)
	assert.Equal(t, "debug", settings.Log.Level)
	assert.Equal(t, "/srv/model.json", settings.Model.Path)
	assert.True(t, settings.Model.Watch)
	assert.Equal(t, -1, settings.Cache.Size)
	assert.Equal(t, []string{"*"}, settings.Http.AllowedOrigins)
}

func TestLoadSettingsErrors(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	path := writeFile(t, "config.yaml", "http: [unterminated")
	_, err = LoadSettings(path)
	assert.Error(t, err)
}

func TestLoadSettingsEmptyFile(t *testing.T) {
	settings, err := LoadSettings(writeFile(t, "config.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, 1024, settings.Cache.Size)
}

func strPtr(s string) *string { return &s }
