package output

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/marmos91/peercatalog/pkg/catalog"
	"github.com/marmos91/peercatalog/pkg/flow"
	"github.com/marmos91/peercatalog/pkg/peers"
)

// PeerSummary is a peer as shown by the CLI. Credentials are never included.
type PeerSummary struct {
	ID       int32  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// PeerList renders peers sorted by id.
type PeerList []PeerSummary

// NewPeerList summarizes the peers returned by Catalog.GetAllPeers.
func NewPeerList(all map[string]*peers.Peer) PeerList {
	list := make(PeerList, 0, len(all))
	for key, p := range all {
		list = append(list, PeerSummary{
			ID:       p.ID,
			Name:     key,
			Type:     p.Type.String(),
			Endpoint: Endpoint(p.Config),
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Headers implements TableRenderer.
func (l PeerList) Headers() []string {
	return []string{"ID", "Name", "Type", "Endpoint"}
}

// Rows implements TableRenderer.
func (l PeerList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, p := range l {
		rows = append(rows, []string{strconv.Itoa(int(p.ID)), p.Name, p.Type, p.Endpoint})
	}
	return rows
}

// Endpoint describes where a peer lives without exposing secrets.
func Endpoint(cfg peers.Config) string {
	switch c := cfg.(type) {
	case *peers.PostgresConfig:
		return fmt.Sprintf("%s:%d/%s", c.Host, c.Port, c.Database)
	case *peers.SnowflakeConfig:
		return fmt.Sprintf("%s/%s", c.AccountID, c.Database)
	case *peers.BigqueryConfig:
		return fmt.Sprintf("%s.%s", c.ProjectID, c.DatasetID)
	case *peers.MongoConfig:
		return fmt.Sprintf("%s:%d/%s", c.ClusterURL, c.ClusterPort, c.Database)
	default:
		return "-"
	}
}

// FlowView renders a registered flow's mappings.
type FlowView struct {
	flow.Entry `yaml:",inline"`
}

// Headers implements TableRenderer.
func (v FlowView) Headers() []string {
	return []string{"Source Table", "Destination Table"}
}

// Rows implements TableRenderer.
func (v FlowView) Rows() [][]string {
	rows := make([][]string, 0, len(v.TableMappings))
	for _, m := range v.TableMappings {
		rows = append(rows, []string{m.SourceTableIdentifier, m.TargetTableIdentifier})
	}
	return rows
}

// Details returns the flow's scalar fields as label/value pairs.
func (v FlowView) Details() [][2]string {
	workflowID := v.WorkflowID
	if workflowID == "" {
		workflowID = "-"
	}
	return [][2]string{
		{"Name", v.Name},
		{"Description", v.Description},
		{"Source peer", strconv.Itoa(int(v.SourcePeerID))},
		{"Destination peer", strconv.Itoa(int(v.DestinationPeerID))},
		{"Workflow", workflowID},
	}
}

// MigrationList renders the migrations applied by one run.
type MigrationList []catalog.AppliedMigration

// Headers implements TableRenderer.
func (l MigrationList) Headers() []string {
	return []string{"Version", "Name"}
}

// Rows implements TableRenderer.
func (l MigrationList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, m := range l {
		rows = append(rows, []string{strconv.FormatUint(uint64(m.Version), 10), m.Name})
	}
	return rows
}
