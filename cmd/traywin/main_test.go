package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: demo\n  theme: light\n"), 0o644))

	out, err := execute(t, "validate", "--config", path, "--theme", "system")
	require.NoError(t, err)

	assert.Contains(t, out, "App name:      demo")
	assert.Contains(t, out, "Theme:         system")
	assert.Contains(t, out, "Icon:          (built-in)")
	assert.Contains(t, out, "Configuration is valid")
}

func TestValidateCmd_InvalidTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: demo\n"), 0o644))

	_, err := execute(t, "validate", "--config", path, "--theme", "darkly")
	assert.ErrorContains(t, err, "app.theme")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}
