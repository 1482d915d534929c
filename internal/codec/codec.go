// Package codec defines the pluggable byte-encoding strategy the pager and
// B+-tree depend on. Neither consumer assumes a concrete wire format: they
// only rely on Marshal/Unmarshal round-tripping and the size oracles
// RowSize/EntrySize.
package codec

import "github.com/smythg4/godb/internal/value"

// Codec converts typed values to and from bytes and answers the size
// queries the pager needs to lay out a page.
type Codec interface {
	// Marshal/Unmarshal round-trip any of: value.Row, []*value.Row (an
	// optional-row page array), or a pager header struct.
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error

	// EntrySize reports the encoded size of one B+-tree leaf entry
	// (key, row); the leaf sums these to decide when to split.
	EntrySize(key value.Value, row value.Row) (int, error)

	// RowSize reports the encoded size of a maximally-populated row
	// under schema (rowBytes), plus the fixed overhead a codec adds
	// when wrapping an array of such rows (envelopeOverhead).
	RowSize(schema *value.Schema) (rowBytes, envelopeOverhead int, err error)
}
