package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "clargen", configBaseName)
	assert.Equal(t, "clargen.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "name", nameFlagName)
	assert.Equal(t, "prefix", prefixFlagName)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "force", forceFlagName)
	assert.Equal(t, "pattern", patternFlagName)
	assert.Equal(t, "", defaultOutput)
	assert.Equal(t, false, defaultForce)
	assert.Equal(t, "CLARGEN", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}

func captureDefaultLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	original := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, nil)))
	t.Cleanup(func() { slog.SetDefault(original) })

	return buf
}

func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	return dir
}

func TestLoadConfigFile_MissingIsSilent(t *testing.T) {
	chdirTemp(t)
	logs := captureDefaultLog(t)

	loadConfigFile()

	assert.Empty(t, logs.String())
}

func TestLoadConfigFile_MalformedIsReported(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("name: [unclosed\n"), 0o644))
	logs := captureDefaultLog(t)

	loadConfigFile()

	assert.Contains(t, logs.String(), "ignoring config file")
	assert.Equal(t, "clar", viper.GetString(nameFlagName))
}
