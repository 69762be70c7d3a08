package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeViper_NoFile(t *testing.T) {
	globalViper = nil
	t.Setenv(NoConfigEnv, "1")

	err := InitializeViper("")
	require.NoError(t, err)

	assert.Equal(t, 4, GetViper().GetInt("scan.bytes"))
	assert.Equal(t, "s", GetViper().GetString("scan.encoding"))
	assert.Equal(t, "default", GetViper().GetString("scan.unicode"))
	assert.Equal(t, "", GetViper().GetString("scan.radix"))
	assert.Equal(t, "\n", GetViper().GetString("scan.output_separator"))
	assert.False(t, GetViper().GetBool("scan.data"))
	assert.Empty(t, ConfigFileUsed())
}

func TestInitializeViper_WithYAML(t *testing.T) {
	globalViper = nil

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
scan:
  bytes: 8
  encoding: l
  unicode: escape
  radix: d
  print_file_name: true
  include_all_whitespace: true
  output_separator: "|"
  data: true
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	err = InitializeViper(configFile)
	require.NoError(t, err)

	assert.Equal(t, 8, GetViper().GetInt("scan.bytes"))
	assert.Equal(t, "l", GetViper().GetString("scan.encoding"))
	assert.Equal(t, "escape", GetViper().GetString("scan.unicode"))
	assert.Equal(t, "d", GetViper().GetString("scan.radix"))
	assert.True(t, GetViper().GetBool("scan.print_file_name"))
	assert.True(t, GetViper().GetBool("scan.include_all_whitespace"))
	assert.Equal(t, "|", GetViper().GetString("scan.output_separator"))
	assert.True(t, GetViper().GetBool("scan.data"))
	assert.Equal(t, configFile, ConfigFileUsed())
}

func TestInitializeViper_InvalidFile(t *testing.T) {
	globalViper = nil

	err := InitializeViper("/nonexistent/path/to/config.yaml")
	assert.Error(t, err)
}

func TestInitializeViper_InvalidYAML(t *testing.T) {
	globalViper = nil

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "invalid.yaml")

	invalidContent := `
scan:
  bytes: 8
  encoding: l
    invalid_indentation: here
`

	err := os.WriteFile(configFile, []byte(invalidContent), 0644)
	require.NoError(t, err)

	err = InitializeViper(configFile)
	assert.Error(t, err)
}

func TestGetViper(t *testing.T) {
	globalViper = nil
	t.Setenv(NoConfigEnv, "1")

	v := GetViper()
	require.NotNil(t, v)

	// Check that subsequent calls return the same instance
	v2 := GetViper()
	assert.Equal(t, v, v2)

	ResetViper()
	assert.Nil(t, globalViper)
}

func TestInitializeViper_PartialConfig(t *testing.T) {
	globalViper = nil

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "partial.yaml")

	configContent := `
scan:
  encoding: b
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	err = InitializeViper(configFile)
	require.NoError(t, err)

	assert.Equal(t, "b", GetViper().GetString("scan.encoding"))
	assert.Equal(t, 4, GetViper().GetInt("scan.bytes"))
	assert.Equal(t, "default", GetViper().GetString("scan.unicode"))
}

func TestInitializeViper_EmptyValues(t *testing.T) {
	globalViper = nil

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "empty.yaml")

	configContent := `
scan:
  output_separator: ""
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	err = InitializeViper(configFile)
	require.NoError(t, err)

	// Empty strings should be preserved (not replaced with defaults)
	assert.Equal(t, "", GetViper().GetString("scan.output_separator"))
}

func TestInitializeViper_NoConfigSkipsSearch(t *testing.T) {
	globalViper = nil

	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("HOME", tmpDir)
	t.Setenv(NoConfigEnv, "1")

	err := os.WriteFile(filepath.Join(tmpDir, "binstrings.yaml"), []byte("scan:\n  bytes: 12\n"), 0644)
	require.NoError(t, err)

	require.NoError(t, InitializeViper(""))
	assert.Equal(t, 4, GetViper().GetInt("scan.bytes"))
	assert.Empty(t, ConfigFileUsed())
}

func TestUnmarshalConfig(t *testing.T) {
	globalViper = nil

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configFile, []byte("scan:\n  bytes: 6\n  unicode: hex\n  print_file_name: true\n"), 0644)
	require.NoError(t, err)
	require.NoError(t, InitializeViper(configFile))

	cfg, err := UnmarshalConfig()
	require.NoError(t, err)
	assert.Equal(t, ScanConfig{
		Bytes:           6,
		Encoding:        "s",
		Unicode:         "hex",
		PrintFileName:   true,
		OutputSeparator: "\n",
	}, cfg.Scan)
}
