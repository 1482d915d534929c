package codec

import (
	"math"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/smythg4/godb/internal/value"
)

// envelopeOverhead is the framing of msgpack's 32-bit array family (0xdd
// marker + 4-byte length), the largest array framing msgpack uses. It is
// an upper bound for every page: fixarray (under 16 entries) takes 1
// byte and array16 (up to 65535 entries) takes 3.
const envelopeOverhead = 5

// MsgpackCodec is the production Codec: a compact, self-describing binary
// format (github.com/vmihailenco/msgpack/v5). Value implements its own
// CustomEncoder/CustomDecoder so the tagged union round-trips without any
// external schema context.
type MsgpackCodec struct{}

func (MsgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (MsgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

type entry struct {
	Key value.Value
	Row value.Row
}

func (MsgpackCodec) EntrySize(key value.Value, row value.Row) (int, error) {
	b, err := msgpack.Marshal(entry{Key: key, Row: row})
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

func (MsgpackCodec) RowSize(schema *value.Schema) (int, int, error) {
	b, err := msgpack.Marshal(dummyRow(schema))
	if err != nil {
		return 0, 0, err
	}
	return len(b), envelopeOverhead, nil
}

// dummyRow builds the worst-case row for schema: every numeric column at
// its maximum magnitude, every Char column at its declared capacity.
func dummyRow(schema *value.Schema) value.Row {
	row := make(value.Row, len(schema.Columns))
	for i, col := range schema.Columns {
		switch col.Type.Kind {
		case value.KindBoolean:
			row[i] = value.NewBoolean(true)
		case value.KindInt:
			row[i] = value.NewInt(math.MaxInt32)
		case value.KindReal:
			row[i] = value.NewReal(math.MaxFloat32)
		case value.KindChar:
			row[i] = value.NewChar(strings.Repeat("x", col.Type.Size))
		default:
			row[i] = value.Null()
		}
	}
	return row
}
