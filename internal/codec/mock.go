package codec

import (
	"errors"

	"github.com/smythg4/godb/internal/value"
)

// MockCodec reports a flat 1 byte per leaf entry and no envelope
// overhead. It exists purely to make B+-tree split points deterministic
// in tests; it cannot actually serialize pages or headers.
type MockCodec struct{}

func (MockCodec) Marshal(v any) ([]byte, error) {
	return nil, errors.New("codec: mock codec does not support marshaling")
}

func (MockCodec) Unmarshal(data []byte, v any) error {
	return errors.New("codec: mock codec does not support unmarshaling")
}

func (MockCodec) EntrySize(key value.Value, row value.Row) (int, error) {
	return 1, nil
}

func (MockCodec) RowSize(schema *value.Schema) (int, int, error) {
	return 1, 0, nil
}
