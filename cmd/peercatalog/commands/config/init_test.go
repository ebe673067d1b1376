package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/peercatalog/cmd/peercatalog/cmdutil"
	"github.com/marmos91/peercatalog/pkg/config"
)

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cmdutil.Flags.ConfigFile = path
	t.Cleanup(func() {
		cmdutil.Flags.ConfigFile = ""
		initForce = false
	})

	var out bytes.Buffer
	initCmd.SetOut(&out)
	require.NoError(t, runInit(initCmd, nil))
	assert.Contains(t, out.String(), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "peerdb", cfg.Catalog.Database)

	assert.Error(t, runInit(initCmd, nil), "existing file needs --force")

	initForce = true
	assert.NoError(t, runInit(initCmd, nil))
}
