// Package value defines the typed value system shared by the table store:
// the tagged Value union, its DataType, and the Column/Schema/Row shapes
// built from them.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind tags which variant a Value or DataType holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInt
	KindReal
	KindChar
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindBoolean:
		return "BOOLEAN"
	case KindInt:
		return "INT"
	case KindReal:
		return "REAL"
	case KindChar:
		return "CHAR"
	default:
		return "UNKNOWN"
	}
}

// Value is a tagged variant over the atomic SQL types this database
// supports. Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	Bool bool
	Int  int32
	Real float32
	Char string
}

func Null() Value                 { return Value{Kind: KindNull} }
func NewBoolean(b bool) Value     { return Value{Kind: KindBoolean, Bool: b} }
func NewInt(i int32) Value        { return Value{Kind: KindInt, Int: i} }
func NewReal(r float32) Value     { return Value{Kind: KindReal, Real: r} }
func NewChar(s string) Value      { return Value{Kind: KindChar, Char: s} }
func (v Value) IsNull() bool      { return v.Kind == KindNull }

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case KindReal:
		return strconv.FormatFloat(float64(v.Real), 'g', -1, 32)
	case KindChar:
		return v.Char
	default:
		return "?"
	}
}

// Compare orders two values of the same Kind. Comparing values of
// different kinds is a caller contract violation, not a recoverable
// database error: keys handed to the index must already be of one type.
func (v Value) Compare(other Value) (int, error) {
	if v.Kind != other.Kind {
		return 0, fmt.Errorf("value: cannot compare %s with %s", v.Kind, other.Kind)
	}
	switch v.Kind {
	case KindNull:
		return 0, nil
	case KindBoolean:
		if v.Bool == other.Bool {
			return 0, nil
		}
		if !v.Bool {
			return -1, nil
		}
		return 1, nil
	case KindInt:
		switch {
		case v.Int < other.Int:
			return -1, nil
		case v.Int > other.Int:
			return 1, nil
		default:
			return 0, nil
		}
	case KindReal:
		switch {
		case v.Real < other.Real:
			return -1, nil
		case v.Real > other.Real:
			return 1, nil
		default:
			return 0, nil
		}
	case KindChar:
		return strings.Compare(v.Char, other.Char), nil
	default:
		return 0, fmt.Errorf("value: unknown kind %d", v.Kind)
	}
}

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
)

// EncodeMsgpack writes the kind tag followed by the variant's payload, so
// decoding never needs outside schema context to know what it's reading.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeUint8(uint8(v.Kind)); err != nil {
		return err
	}
	switch v.Kind {
	case KindNull:
		return nil
	case KindBoolean:
		return enc.EncodeBool(v.Bool)
	case KindInt:
		return enc.EncodeInt32(v.Int)
	case KindReal:
		return enc.EncodeFloat32(v.Real)
	case KindChar:
		return enc.EncodeString(v.Char)
	default:
		return fmt.Errorf("value: unknown kind %d", v.Kind)
	}
}

func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	kind, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	v.Kind = Kind(kind)
	switch v.Kind {
	case KindNull:
		return nil
	case KindBoolean:
		v.Bool, err = dec.DecodeBool()
	case KindInt:
		v.Int, err = dec.DecodeInt32()
	case KindReal:
		v.Real, err = dec.DecodeFloat32()
	case KindChar:
		v.Char, err = dec.DecodeString()
	default:
		return fmt.Errorf("value: unknown kind %d on decode", v.Kind)
	}
	return err
}
