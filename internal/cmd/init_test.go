package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghsync/pkg/config"
)

func TestInit_WritesValidSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ghsync.yaml")

	output, err := executeCommand(t, nil, nil, "init", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Configuration file created at: "+path)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, sampleConfiguration(), cfg)
}

func TestInit_DoesNotOverwriteWithoutConfirmation(t *testing.T) {
	path := writeFile(t, "ghsync.yaml", "keep me")

	output, err := executeCommand(t, nil, nil, "init", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Configuration initialization cancelled.")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestInit_Force(t *testing.T) {
	path := writeFile(t, "ghsync.yaml", "replace me")

	_, err := executeCommand(t, nil, nil, "init", path, "--force")
	require.NoError(t, err)

	_, err = config.LoadFromPath(path)
	assert.NoError(t, err)
}
