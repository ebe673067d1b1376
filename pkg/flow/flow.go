// Package flow holds the flow-job payload consumed from the orchestration
// layer and the table identifier rules applied when a flow is registered.
package flow

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/marmos91/peercatalog/pkg/peers"
)

// DefaultSchema is prepended to single-segment identifiers on peers that
// namespace tables by schema.
const DefaultSchema = "public"

// TableMapping pairs a source table with its destination table.
type TableMapping struct {
	SourceTableIdentifier string `json:"source_table_identifier" yaml:"source_table_identifier" jsonschema:"minLength=1,description=Table on the source peer; a bare name gets the public schema unless the peer is BigQuery"`
	TargetTableIdentifier string `json:"target_table_identifier" yaml:"target_table_identifier" jsonschema:"minLength=1,description=Table on the destination peer; normalized like the source"`
}

// FlowJob is a data-movement definition as submitted by the orchestrator.
// SourcePeer and TargetPeer are peer names.
type FlowJob struct {
	Name          string         `json:"name" yaml:"name" jsonschema:"minLength=1,description=Flow name shared by every mapping row"`
	Description   string         `json:"description,omitempty" yaml:"description" jsonschema:"description=Free-form description"`
	SourcePeer    string         `json:"source_peer" yaml:"source_peer" jsonschema:"minLength=1,description=Name of a registered source peer"`
	TargetPeer    string         `json:"target_peer" yaml:"target_peer" jsonschema:"minLength=1,description=Name of a registered destination peer"`
	TableMappings []TableMapping `json:"table_mappings" yaml:"table_mappings" jsonschema:"minItems=1"`
}

// Validate checks the fields the catalog relies on when registering a job.
func (j *FlowJob) Validate() error {
	if j.Name == "" {
		return fmt.Errorf("flow name is required")
	}
	if j.SourcePeer == "" {
		return fmt.Errorf("flow %s: source peer is required", j.Name)
	}
	if j.TargetPeer == "" {
		return fmt.Errorf("flow %s: target peer is required", j.Name)
	}
	if len(j.TableMappings) == 0 {
		return fmt.Errorf("flow %s: at least one table mapping is required", j.Name)
	}
	for i, m := range j.TableMappings {
		if m.SourceTableIdentifier == "" || m.TargetTableIdentifier == "" {
			return fmt.Errorf("flow %s: table mapping %d has an empty identifier", j.Name, i)
		}
	}
	return nil
}

// DecodeJSON reads a FlowJob payload.
func DecodeJSON(r io.Reader) (*FlowJob, error) {
	var job FlowJob
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to decode flow job: %w", err)
	}
	return &job, nil
}

// NormalizeSchema reports whether identifiers on a peer of type t get the
// default schema. BigQuery addresses tables as dataset.table inside the
// peer's configured dataset, so bare names are left alone there.
func NormalizeSchema(t peers.DBType) bool {
	return t != peers.DBTypeBigquery
}

// QualifiedTable returns identifier with DefaultSchema prepended when it has
// a single segment and normalize is set. Multi-segment identifiers are
// returned unchanged.
func QualifiedTable(identifier string, normalize bool) string {
	parts := strings.Split(identifier, ".")
	if len(parts) == 1 && normalize {
		parts = append([]string{DefaultSchema}, parts...)
	}
	return strings.Join(parts, ".")
}

// Row is one persisted mapping of a flow, after normalization.
type Row struct {
	Name                       string
	SourcePeerID               int32
	DestinationPeerID          int32
	Description                string
	SourceTableIdentifier      string
	DestinationTableIdentifier string
}

// Rows expands a job into the rows stored for it, given each side's peer id
// and backend type.
func (j *FlowJob) Rows(sourceID int32, sourceType peers.DBType, destID int32, destType peers.DBType) []Row {
	normalizeSource := NormalizeSchema(sourceType)
	normalizeDest := NormalizeSchema(destType)

	rows := make([]Row, 0, len(j.TableMappings))
	for _, m := range j.TableMappings {
		rows = append(rows, Row{
			Name:                       j.Name,
			SourcePeerID:               sourceID,
			DestinationPeerID:          destID,
			Description:                j.Description,
			SourceTableIdentifier:      QualifiedTable(m.SourceTableIdentifier, normalizeSource),
			DestinationTableIdentifier: QualifiedTable(m.TargetTableIdentifier, normalizeDest),
		})
	}
	return rows
}

// Entry is a registered flow as read back from the catalog.
type Entry struct {
	Name              string         `json:"name" yaml:"name"`
	Description       string         `json:"description" yaml:"description"`
	SourcePeerID      int32          `json:"source_peer_id" yaml:"source_peer_id"`
	DestinationPeerID int32          `json:"destination_peer_id" yaml:"destination_peer_id"`
	WorkflowID        string         `json:"workflow_id,omitempty" yaml:"workflow_id,omitempty"`
	TableMappings     []TableMapping `json:"table_mappings" yaml:"table_mappings"`
}
