package peers

import (
	"errors"
	"fmt"
)

var (
	// ErrNilConfig is returned when encoding a peer without a configuration.
	ErrNilConfig = errors.New("peer config is nil")

	// ErrUnknownType is returned when no codec is registered for a DBType.
	ErrUnknownType = errors.New("unknown peer type")
)

// codec is the encode/decode pair of one configuration variant.
type codec struct {
	encode func(Config) ([]byte, error)
	decode func([]byte) (Config, error)
}

// codecs is the dispatch table from discriminant to variant codec.
var codecs = map[DBType]codec{
	DBTypePostgres:  variantCodec(DBTypePostgres, encodePostgres, decodePostgres),
	DBTypeSnowflake: variantCodec(DBTypeSnowflake, encodeSnowflake, decodeSnowflake),
	DBTypeBigquery:  variantCodec(DBTypeBigquery, encodeBigquery, decodeBigquery),
	DBTypeMongo:     variantCodec(DBTypeMongo, encodeMongo, decodeMongo),
}

func variantCodec[P interface {
	comparable
	Config
}](t DBType, enc func(P) []byte, dec func([]byte) (P, error)) codec {
	return codec{
		encode: func(c Config) ([]byte, error) {
			v, ok := c.(P)
			if !ok {
				return nil, fmt.Errorf("config %T does not match peer type %s", c, t)
			}
			var zero P
			if v == zero {
				return nil, ErrNilConfig
			}
			return enc(v), nil
		},
		decode: func(data []byte) (Config, error) {
			v, err := dec(data)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// Encode serializes cfg to the compact binary form stored in peers.options.
func Encode(cfg Config) ([]byte, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	c, ok := codecs[cfg.DBType()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, cfg.DBType())
	}
	return c.encode(cfg)
}

// Decode parses data as the configuration variant selected by t.
func Decode(t DBType, data []byte) (Config, error) {
	c, ok := codecs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	return c.decode(data)
}
