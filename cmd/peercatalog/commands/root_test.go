package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersSubcommands(t *testing.T) {
	root := GetRootCmd()
	for _, path := range [][]string{
		{"migrate"},
		{"monitor"},
		{"version"},
		{"config", "init"},
		{"config", "show"},
		{"peer", "list"},
		{"peer", "create", "postgres"},
		{"peer", "create", "snowflake"},
		{"peer", "create", "bigquery"},
		{"peer", "create", "mongo"},
		{"flow", "create"},
		{"flow", "show"},
		{"flow", "workflow", "get"},
		{"flow", "workflow", "set"},
		{"flow", "delete"},
		{"flow", "schema"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestVersionShort(t *testing.T) {
	prev := Version
	Version = "1.2.3"
	t.Cleanup(func() {
		Version = prev
		versionShort = false
	})

	var out bytes.Buffer
	root := GetRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--short"})
	t.Cleanup(func() {
		root.SetOut(nil)
		root.SetArgs(nil)
	})

	require.NoError(t, root.Execute())
	assert.Equal(t, "1.2.3\n", out.String())
}
