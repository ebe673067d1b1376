package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/peercatalog/pkg/catalog/migrations"
)

func testSource(t *testing.T) source.Driver {
	t.Helper()
	fsys := fstest.MapFS{
		"000001_create_peers.up.sql":          {Data: []byte("CREATE TABLE peers ();")},
		"000001_create_peers.down.sql":        {Data: []byte("DROP TABLE peers;")},
		"000002_create_flows.up.sql":          {Data: []byte("CREATE TABLE flows ();")},
		"000004_add_index.up.sql":             {Data: []byte("CREATE INDEX i ON flows (name);")},
		"000003_add_flows_workflow_id.up.sql": {Data: []byte("ALTER TABLE flows ADD workflow_id TEXT;")},
	}
	src, err := iofs.New(fsys, ".")
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestCollectAppliedFromEmpty(t *testing.T) {
	applied, err := collectApplied(testSource(t), 0, false, 3)
	require.NoError(t, err)

	assert.Equal(t, []AppliedMigration{
		{Version: 1, Name: "000001_create_peers"},
		{Version: 2, Name: "000002_create_flows"},
		{Version: 3, Name: "000003_add_flows_workflow_id"},
	}, applied)
}

func TestCollectAppliedIncremental(t *testing.T) {
	applied, err := collectApplied(testSource(t), 2, true, 4)
	require.NoError(t, err)

	assert.Equal(t, []AppliedMigration{
		{Version: 3, Name: "000003_add_flows_workflow_id"},
		{Version: 4, Name: "000004_add_index"},
	}, applied)
}

func TestCollectAppliedNothingPending(t *testing.T) {
	applied, err := collectApplied(testSource(t), 4, true, 4)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	defer src.Close()

	applied, err := collectApplied(src, 0, false, ^uint(0))
	require.NoError(t, err)

	names := make([]string, 0, len(applied))
	for _, a := range applied {
		names = append(names, a.String())
	}
	assert.Equal(t, []string{
		"000001_create_peers",
		"000002_create_flows",
		"000003_add_flows_workflow_id",
	}, names)
}
