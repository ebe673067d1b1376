package peers

import (
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// wireEncoder appends proto3 fields, omitting zero values.
type wireEncoder struct {
	buf []byte
}

func (e *wireEncoder) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

func (e *wireEncoder) uint64(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

func (e *wireEncoder) int32(num protowire.Number, v int32) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, uint64(int64(v)))
}

// fieldDecoder consumes one field value from b and returns the bytes used.
type fieldDecoder func(typ protowire.Type, b []byte) (int, error)

// decodeMessage walks the fields of a message, handing known field numbers
// to their decoder and skipping the rest.
func decodeMessage(data []byte, fields map[protowire.Number]fieldDecoder) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		if dec, ok := fields[num]; ok {
			m, err := dec(typ, data)
			if err != nil {
				return fmt.Errorf("field %d: %w", num, err)
			}
			data = data[m:]
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, data)
		if m < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(m))
		}
		data = data[m:]
	}
	return nil
}

func stringField(dst *string) fieldDecoder {
	return func(typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.BytesType {
			return 0, fmt.Errorf("unexpected wire type %d for string", typ)
		}
		v, n := protowire.ConsumeString(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		if !utf8.ValidString(v) {
			return 0, fmt.Errorf("string field contains invalid UTF-8")
		}
		*dst = v
		return n, nil
	}
}

func varintField(typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, fmt.Errorf("unexpected wire type %d for varint", typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func uint64Field(dst *uint64) fieldDecoder {
	return func(typ protowire.Type, b []byte) (int, error) {
		v, n, err := varintField(typ, b)
		if err != nil {
			return 0, err
		}
		*dst = v
		return n, nil
	}
}

func uint32Field(dst *uint32) fieldDecoder {
	return func(typ protowire.Type, b []byte) (int, error) {
		v, n, err := varintField(typ, b)
		if err != nil {
			return 0, err
		}
		*dst = uint32(v)
		return n, nil
	}
}

func int32Field(dst *int32) fieldDecoder {
	return func(typ protowire.Type, b []byte) (int, error) {
		v, n, err := varintField(typ, b)
		if err != nil {
			return 0, err
		}
		*dst = int32(v)
		return n, nil
	}
}
