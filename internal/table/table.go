// Package table binds a schema to a pager, routing inserts through a
// primary-key index and exposing row iteration over the pager's physical
// page-array order.
package table

import (
	"fmt"

	"github.com/smythg4/godb/internal/btree"
	"github.com/smythg4/godb/internal/codec"
	"github.com/smythg4/godb/internal/dberr"
	"github.com/smythg4/godb/internal/pager"
	"github.com/smythg4/godb/internal/value"
)

// The primary-key index is a small in-memory structure (it stores only a
// RecordID per key, not the row itself) so its own size/degree budget is
// independent of the table's on-disk page_byte_size.
const (
	indexPageByteSize = 4096
	indexDegree       = 64
)

// Table owns one schema and the pager backing its rows.
type Table struct {
	schema *value.Schema
	pager  *pager.Pager
	index  *btree.BTree
}

// New wraps a freshly created pager (no existing rows) with an empty
// primary-key index.
func New(schema *value.Schema, p *pager.Pager, c codec.Codec) *Table {
	return &Table{
		schema: schema,
		pager:  p,
		index:  btree.New(c, indexPageByteSize, indexDegree),
	}
}

// Load wraps a pager reloaded from disk, rebuilding the primary-key index
// from its existing records.
func Load(p *pager.Pager, c codec.Codec) (*Table, error) {
	schema := p.Schema()
	t := &Table{
		schema: schema,
		pager:  p,
		index:  btree.New(c, indexPageByteSize, indexDegree),
	}
	pkIdx := schema.PrimaryKeyIndex()
	for _, rec := range p.Records() {
		key := rec.Row[pkIdx]
		loc := value.Row{value.NewInt(int32(rec.ID.PageNumber)), value.NewInt(int32(rec.ID.Slot))}
		if err := t.index.Insert(key, loc); err != nil {
			return nil, dberr.Wrap(dberr.Corrupt, err, fmt.Sprintf("rebuilding index for table %s", schema.TableName))
		}
	}
	return t, nil
}

// Name returns the table's lower-cased name.
func (t *Table) Name() string { return t.schema.TableName }

// Schema returns the table's schema.
func (t *Table) Schema() *value.Schema { return t.schema }

// InsertPositional appends row, which must have one value per schema
// column in order.
func (t *Table) InsertPositional(row value.Row) error {
	if len(row) != len(t.schema.Columns) {
		return dberr.New(dberr.ArityMismatch, fmt.Sprintf("expected %d values, got %d", len(t.schema.Columns), len(row)))
	}
	pkIdx := t.schema.PrimaryKeyIndex()
	key := row[pkIdx]
	if key.IsNull() {
		return dberr.New(dberr.NullPrimaryKey, "primary key column must not be null")
	}

	exists, err := t.index.Contains(key)
	if err != nil {
		return err
	}
	if exists {
		return dberr.New(dberr.DuplicateKey, fmt.Sprintf("duplicate entry: %v", key))
	}

	if !t.pager.HasFreePages() {
		if err := t.pager.AllocatePage(); err != nil {
			return err
		}
	}
	rid, err := t.pager.Insert(row)
	if err != nil {
		return err
	}
	loc := value.Row{value.NewInt(int32(rid.PageNumber)), value.NewInt(int32(rid.Slot))}
	// key was just confirmed absent and nothing else can race with us
	// (single-threaded cooperative scheduling), so this cannot fail.
	return t.index.Insert(key, loc)
}

// InsertNamed builds a positional row from a name->value map, filling any
// column missing from values with Null. The primary-key column must be
// supplied.
func (t *Table) InsertNamed(values map[string]value.Value) error {
	pkIdx := t.schema.PrimaryKeyIndex()
	pkName := t.schema.Columns[pkIdx].Name
	if _, ok := values[pkName]; !ok {
		return dberr.New(dberr.NullPrimaryKey, "primary key column must be present")
	}

	row := make(value.Row, len(t.schema.Columns))
	for i := range row {
		row[i] = value.Null()
	}
	for name, v := range values {
		idx, ok := t.schema.ColumnIndex(name)
		if !ok {
			return dberr.New(dberr.UnknownColumn, fmt.Sprintf("unknown column: %s", name))
		}
		row[idx] = v
	}
	return t.InsertPositional(row)
}

// SelectAll returns every row in ascending (page_number, slot) order.
func (t *Table) SelectAll() []value.Row {
	return t.pager.Rows()
}

// SelectColumns returns every row projected onto the named columns, in
// the order requested.
func (t *Table) SelectColumns(names []string) ([]value.Row, error) {
	idxs := make([]int, len(names))
	for i, n := range names {
		idx, ok := t.schema.ColumnIndex(n)
		if !ok {
			return nil, dberr.New(dberr.UnknownColumn, fmt.Sprintf("unknown column: %s", n))
		}
		idxs[i] = idx
	}
	rows := t.pager.Rows()
	out := make([]value.Row, len(rows))
	for i, r := range rows {
		projected := make(value.Row, len(idxs))
		for j, idx := range idxs {
			projected[j] = r[idx]
		}
		out[i] = projected
	}
	return out, nil
}

// Flush persists the table's pager to disk.
func (t *Table) Flush() error { return t.pager.Flush() }
