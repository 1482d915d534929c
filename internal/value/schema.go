package value

import (
	"fmt"
	"strings"

	"github.com/smythg4/godb/internal/dberr"
)

// DataType is the declared type of a column: one atomic Kind, plus a
// character capacity for Char columns (unused by the others).
type DataType struct {
	Kind Kind
	Size int
}

func BooleanType() DataType  { return DataType{Kind: KindBoolean} }
func IntType() DataType      { return DataType{Kind: KindInt} }
func RealType() DataType     { return DataType{Kind: KindReal} }
func CharType(n int) DataType { return DataType{Kind: KindChar, Size: n} }

func (d DataType) String() string {
	if d.Kind == KindChar {
		return fmt.Sprintf("CHAR(%d)", d.Size)
	}
	return d.Kind.String()
}

// Column is one field of a Schema.
type Column struct {
	Name       string
	Type       DataType
	PrimaryKey bool
}

// Row is a positional list of Values, one per Schema column.
type Row []Value

// Schema describes one table: its lower-cased name and ordered columns.
type Schema struct {
	TableName string
	Columns   []Column
}

// NewSchema validates and constructs a Schema: column names must be
// non-empty and unique, and exactly one column must be the primary key.
func NewSchema(tableName string, columns []Column) (*Schema, error) {
	if strings.TrimSpace(tableName) == "" {
		return nil, dberr.New(dberr.SchemaInvalid, "table name must not be empty")
	}
	if len(columns) == 0 {
		return nil, dberr.New(dberr.SchemaInvalid, "schema must have at least one column")
	}
	seen := make(map[string]bool, len(columns))
	pkCount := 0
	for _, c := range columns {
		if strings.TrimSpace(c.Name) == "" {
			return nil, dberr.New(dberr.SchemaInvalid, "column name must not be empty")
		}
		if seen[c.Name] {
			return nil, dberr.New(dberr.SchemaInvalid, fmt.Sprintf("duplicate column name: %s", c.Name))
		}
		seen[c.Name] = true
		if c.PrimaryKey {
			pkCount++
		}
	}
	if pkCount != 1 {
		return nil, dberr.New(dberr.SchemaInvalid, fmt.Sprintf("schema must have exactly one primary key, got %d", pkCount))
	}
	return &Schema{
		TableName: strings.ToLower(tableName),
		Columns:   append([]Column(nil), columns...),
	}, nil
}

// ColumnIndex returns the position of the named column, if any.
func (s *Schema) ColumnIndex(name string) (int, bool) {
	for i, c := range s.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// PrimaryKeyIndex returns the position of the schema's primary-key column.
// NewSchema guarantees exactly one exists.
func (s *Schema) PrimaryKeyIndex() int {
	for i, c := range s.Columns {
		if c.PrimaryKey {
			return i
		}
	}
	return -1
}
