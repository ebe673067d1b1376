package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/marmos91/peercatalog/internal/logger"
	"github.com/marmos91/peercatalog/internal/telemetry"
	"github.com/marmos91/peercatalog/pkg/flow"
	"github.com/marmos91/peercatalog/pkg/peers"
)

// CreateFlowJobEntry registers a flow, one row per table mapping.
//
// Both peers are resolved by name. Single-segment table identifiers get the
// default schema on every side whose peer is not BigQuery. Rows are written
// one at a time without a transaction: if a later insert fails the earlier
// rows stay, and the caller reconciles with DeleteFlowJobEntry.
func (c *Catalog) CreateFlowJobEntry(ctx context.Context, job *flow.FlowJob) (err error) {
	if job == nil {
		return newError(ErrInvalidArgument, "", "flow job is required", nil)
	}

	ctx, end := c.begin(ctx, "CreateFlowJobEntry",
		telemetry.FlowName(job.Name),
		telemetry.TableMappings(len(job.TableMappings)),
	)
	defer func() { end(err) }()
	ctx = logger.WithContext(ctx, logger.FromContext(ctx).WithFlow(job.Name))

	if err = c.sup.alive("CreateFlowJobEntry"); err != nil {
		return err
	}
	if err = job.Validate(); err != nil {
		return newError(ErrInvalidArgument, job.Name, "invalid flow job", err)
	}

	sourceID, sourceType, err := c.resolvePeer(ctx, job.SourcePeer, "source")
	if err != nil {
		return err
	}
	destID, destType, err := c.resolvePeer(ctx, job.TargetPeer, "destination")
	if err != nil {
		return err
	}

	for i, row := range job.Rows(sourceID, sourceType, destID, destType) {
		_, err = c.pool.Exec(ctx,
			`INSERT INTO flows (name, source_peer, destination_peer, description,
				source_table_identifier, destination_table_identifier)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			row.Name, row.SourcePeerID, row.DestinationPeerID, row.Description,
			row.SourceTableIdentifier, row.DestinationTableIdentifier,
		)
		if err != nil {
			if i > 0 {
				logger.WarnCtx(ctx, "Flow partially registered", "rows_written", i, logger.Err(err))
			}
			return mapPgError(err, "create flow entry", job.Name)
		}
	}

	logger.InfoCtx(ctx, "Flow registered",
		logger.KeyMappings, len(job.TableMappings),
		"source_peer_id", sourceID,
		"destination_peer_id", destID,
	)
	return nil
}

// resolvePeer returns the id and type of a peer referenced by a flow. side
// is "source" or "destination" and is used in error messages.
func (c *Catalog) resolvePeer(ctx context.Context, name, side string) (int32, peers.DBType, error) {
	id, err := c.lookupPeerID(ctx, name)
	if err != nil {
		return 0, 0, wrapContext(err, fmt.Sprintf("unable to get %s peer id", side))
	}
	t, err := c.lookupPeerType(ctx, id)
	if err != nil {
		return 0, 0, wrapContext(err, fmt.Sprintf("unable to get %s peer db type", side))
	}
	return id, t, nil
}

// wrapContext prefixes the message of a catalog error, keeping its code.
func wrapContext(err error, msg string) error {
	var ce *Error
	if errors.As(err, &ce) {
		wrapped := *ce
		wrapped.Message = msg + ": " + ce.Message
		return &wrapped
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// UpdateWorkflowID sets the workflow id on every row of the named flow.
func (c *Catalog) UpdateWorkflowID(ctx context.Context, flowName, workflowID string) (err error) {
	ctx, end := c.begin(ctx, "UpdateWorkflowID", telemetry.FlowName(flowName), telemetry.WorkflowID(workflowID))
	defer func() { end(err) }()

	if err = c.sup.alive("UpdateWorkflowID"); err != nil {
		return err
	}

	tag, err := c.pool.Exec(ctx, `UPDATE flows SET workflow_id = $1 WHERE name = $2`, workflowID, flowName)
	if err != nil {
		return mapPgError(err, "update workflow id", flowName)
	}
	if tag.RowsAffected() == 0 {
		return newError(ErrNotFound, flowName, "unable to find metadata for flow", nil)
	}

	logger.DebugCtx(ctx, "Workflow id updated",
		logger.Flow(flowName),
		logger.WorkflowID(workflowID),
		"rows", tag.RowsAffected(),
	)
	return nil
}

// GetWorkflowID returns the workflow id of the named flow. ok is false when
// the flow has no rows or its workflow id has not been set. All rows of a
// flow are expected to share one workflow id; the first row is reported.
func (c *Catalog) GetWorkflowID(ctx context.Context, flowName string) (workflowID string, ok bool, err error) {
	ctx, end := c.begin(ctx, "GetWorkflowID", telemetry.FlowName(flowName))
	defer func() { end(err) }()

	if err = c.sup.alive("GetWorkflowID"); err != nil {
		return "", false, err
	}

	var stored *string
	err = c.pool.QueryRow(ctx,
		`SELECT workflow_id FROM flows WHERE name = $1 ORDER BY id LIMIT 1`, flowName,
	).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		logger.InfoCtx(ctx, "No workflow id found for flow job", logger.Flow(flowName))
		return "", false, nil
	}
	if err != nil {
		return "", false, mapPgError(err, "get workflow id", flowName)
	}
	if stored == nil {
		return "", false, nil
	}
	return *stored, true, nil
}

// DeleteFlowJobEntry removes every row of the named flow.
func (c *Catalog) DeleteFlowJobEntry(ctx context.Context, flowName string) (err error) {
	ctx, end := c.begin(ctx, "DeleteFlowJobEntry", telemetry.FlowName(flowName))
	defer func() { end(err) }()

	if err = c.sup.alive("DeleteFlowJobEntry"); err != nil {
		return err
	}

	tag, err := c.pool.Exec(ctx, `DELETE FROM flows WHERE name = $1`, flowName)
	if err != nil {
		return mapPgError(err, "delete flow entry", flowName)
	}
	if tag.RowsAffected() == 0 {
		return newError(ErrNotFound, flowName, "unable to delete flow job metadata", nil)
	}

	logger.InfoCtx(ctx, "Flow deleted", logger.Flow(flowName), "rows", tag.RowsAffected())
	return nil
}

// GetFlowJob reads back a registered flow with all of its table mappings,
// as stored after normalization.
func (c *Catalog) GetFlowJob(ctx context.Context, flowName string) (entry *flow.Entry, err error) {
	ctx, end := c.begin(ctx, "GetFlowJob", telemetry.FlowName(flowName))
	defer func() { end(err) }()

	if err = c.sup.alive("GetFlowJob"); err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx,
		`SELECT source_peer, destination_peer, description, workflow_id,
			source_table_identifier, destination_table_identifier
		FROM flows WHERE name = $1 ORDER BY id`, flowName)
	if err != nil {
		return nil, mapPgError(err, "get flow", flowName)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sourceID, destID int32
			description      *string
			workflowID       *string
			mapping          flow.TableMapping
		)
		if err := rows.Scan(&sourceID, &destID, &description, &workflowID,
			&mapping.SourceTableIdentifier, &mapping.TargetTableIdentifier); err != nil {
			return nil, mapPgError(err, "get flow", flowName)
		}

		if entry == nil {
			entry = &flow.Entry{
				Name:              flowName,
				SourcePeerID:      sourceID,
				DestinationPeerID: destID,
			}
			if description != nil {
				entry.Description = *description
			}
			if workflowID != nil {
				entry.WorkflowID = *workflowID
			}
		}
		entry.TableMappings = append(entry.TableMappings, mapping)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "get flow", flowName)
	}

	if entry == nil {
		return nil, newError(ErrNotFound, flowName, "flow not found", nil)
	}
	return entry, nil
}
