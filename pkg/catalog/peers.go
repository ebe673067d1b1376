package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/marmos91/peercatalog/internal/logger"
	"github.com/marmos91/peercatalog/internal/telemetry"
	"github.com/marmos91/peercatalog/pkg/peers"
)

// CreatePeer registers a peer and returns its store-assigned id.
//
// The configuration is encoded according to its variant; peer.Type must match
// that variant. A duplicate name fails with ErrConstraintViolation.
func (c *Catalog) CreatePeer(ctx context.Context, peer *peers.Peer) (id int64, err error) {
	if peer == nil {
		return 0, newError(ErrInvalidConfig, "", "peer is required", nil)
	}

	ctx, end := c.begin(ctx, "CreatePeer", telemetry.PeerName(peer.Name), telemetry.PeerType(peer.Type.String()))
	defer func() { end(err) }()

	if err = c.sup.alive("CreatePeer"); err != nil {
		return 0, err
	}

	if peer.Config == nil {
		return 0, newError(ErrInvalidConfig, peer.Name, "peer configuration is required", nil)
	}
	if peer.Config.DBType() != peer.Type {
		return 0, newError(ErrInvalidConfig, peer.Name,
			fmt.Sprintf("configuration is for %s but peer type is %s", peer.Config.DBType(), peer.Type), nil)
	}

	options, err := peers.Encode(peer.Config)
	if err != nil {
		return 0, newError(ErrInvalidConfig, peer.Name, "unable to encode peer configuration", err)
	}

	_, err = c.pool.Exec(ctx,
		`INSERT INTO peers (name, type, options) VALUES ($1, $2, $3)`,
		peer.Name, int32(peer.Type), options,
	)
	if err != nil {
		return 0, mapPgError(err, "create peer", peer.Name)
	}

	peerID, err := c.lookupPeerID(ctx, peer.Name)
	if err != nil {
		return 0, err
	}

	logger.InfoCtx(ctx, "Peer created",
		logger.Peer(peer.Name),
		logger.PeerID(int64(peerID)),
		logger.PeerType(peer.Type.String()),
	)
	return int64(peerID), nil
}

// GetPeerID returns the id of the peer with the given name.
func (c *Catalog) GetPeerID(ctx context.Context, name string) (id int32, err error) {
	ctx, end := c.begin(ctx, "GetPeerID", telemetry.PeerName(name))
	defer func() { end(err) }()

	if err = c.sup.alive("GetPeerID"); err != nil {
		return 0, err
	}
	return c.lookupPeerID(ctx, name)
}

func (c *Catalog) lookupPeerID(ctx context.Context, name string) (int32, error) {
	var id int32
	err := c.pool.QueryRow(ctx, `SELECT id FROM peers WHERE name = $1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, newError(ErrNotFound, name, "peer not found", nil)
	}
	if err != nil {
		return 0, mapPgError(err, "get peer id", name)
	}
	return id, nil
}

// GetPeerType returns the backend type of the peer with the given id.
func (c *Catalog) GetPeerType(ctx context.Context, id int32) (t peers.DBType, err error) {
	ctx, end := c.begin(ctx, "GetPeerType", telemetry.PeerID(int64(id)))
	defer func() { end(err) }()

	if err = c.sup.alive("GetPeerType"); err != nil {
		return 0, err
	}
	return c.lookupPeerType(ctx, id)
}

func (c *Catalog) lookupPeerType(ctx context.Context, id int32) (peers.DBType, error) {
	entity := fmt.Sprintf("peer id %d", id)

	var raw int32
	err := c.pool.QueryRow(ctx, `SELECT type FROM peers WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, newError(ErrNotFound, entity, "peer not found", nil)
	}
	if err != nil {
		return 0, mapPgError(err, "get peer type", entity)
	}

	t, ok := peers.DBTypeFromInt32(raw)
	if !ok {
		return 0, newError(ErrInternalInconsistency, entity,
			fmt.Sprintf("stored peer type %d is not a known backend", raw), nil)
	}
	return t, nil
}

// GetAllPeers returns every registered peer keyed by its stored name.
//
// A row whose type is not a known backend is still returned, with a nil
// Config and its Name lower-cased; the map key keeps the stored name. A row
// of a known type whose options fail to decode aborts the call with
// ErrDecodeFailure.
func (c *Catalog) GetAllPeers(ctx context.Context) (result map[string]*peers.Peer, err error) {
	ctx, end := c.begin(ctx, "GetAllPeers")
	defer func() { end(err) }()

	if err = c.sup.alive("GetAllPeers"); err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx, `SELECT id, name, type, options FROM peers ORDER BY id`)
	if err != nil {
		return nil, mapPgError(err, "list peers", "")
	}
	defer rows.Close()

	result = make(map[string]*peers.Peer)
	for rows.Next() {
		var (
			id      int32
			name    string
			raw     int32
			options []byte
		)
		if err := rows.Scan(&id, &name, &raw, &options); err != nil {
			return nil, mapPgError(err, "list peers", "")
		}

		peer, err := decodePeer(id, name, raw, options)
		if err != nil {
			return nil, err
		}
		if peer.Config == nil {
			logger.WarnCtx(ctx, "Peer has unknown type, returning without configuration",
				logger.Peer(name), logger.PeerID(int64(id)), "type", raw)
		}
		result[name] = peer
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "list peers", "")
	}

	telemetry.SetAttributes(ctx, telemetry.PeerCount(len(result)))
	return result, nil
}

// decodePeer builds a Peer from one stored row.
func decodePeer(id int32, name string, raw int32, options []byte) (*peers.Peer, error) {
	t, ok := peers.DBTypeFromInt32(raw)
	if !ok {
		return &peers.Peer{
			ID:   id,
			Name: strings.ToLower(name),
			Type: peers.DBType(raw),
		}, nil
	}

	cfg, err := peers.Decode(t, options)
	if err != nil {
		return nil, newError(ErrDecodeFailure, name,
			fmt.Sprintf("unable to decode %s options for peer %s", t, name), err)
	}

	return &peers.Peer{ID: id, Name: name, Type: t, Config: cfg}, nil
}
