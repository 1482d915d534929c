package table_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smythg4/godb/internal/codec"
	"github.com/smythg4/godb/internal/dberr"
	"github.com/smythg4/godb/internal/pager"
	"github.com/smythg4/godb/internal/table"
	"github.com/smythg4/godb/internal/value"
)

func newTable(t *testing.T) *table.Table {
	t.Helper()
	schema, err := value.NewSchema("apples", []value.Column{
		{Name: "slices", Type: value.IntType(), PrimaryKey: true},
		{Name: "label", Type: value.CharType(8)},
	})
	require.NoError(t, err)

	f, err := os.CreateTemp(t.TempDir(), "apples-*.db")
	require.NoError(t, err)
	p, err := pager.Create(f, codec.MsgpackCodec{}, schema, 4096)
	require.NoError(t, err)

	return table.New(schema, p, codec.MsgpackCodec{})
}

func TestInsertAndSelectAll(t *testing.T) {
	tbl := newTable(t)
	require.NoError(t, tbl.InsertPositional(value.Row{value.NewInt(15), value.NewChar("x")}))

	rows := tbl.SelectAll()
	require.Len(t, rows, 1)
	assert.Equal(t, int32(15), rows[0][0].Int)
}

func TestInsertRejectsDuplicateKey(t *testing.T) {
	tbl := newTable(t)
	require.NoError(t, tbl.InsertPositional(value.Row{value.NewInt(7), value.NewChar("a")}))
	err := tbl.InsertPositional(value.Row{value.NewInt(7), value.NewChar("b")})
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.DuplicateKey))
	assert.Equal(t, "duplicate entry: 7", err.Error())

	rows := tbl.SelectAll()
	assert.Len(t, rows, 1)
}

func TestInsertNamedFillsGapsWithNull(t *testing.T) {
	schema, err := value.NewSchema("t", []value.Column{
		{Name: "a", Type: value.IntType(), PrimaryKey: true},
		{Name: "b", Type: value.IntType()},
	})
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "t-*.db")
	require.NoError(t, err)
	p, err := pager.Create(f, codec.MsgpackCodec{}, schema, 4096)
	require.NoError(t, err)
	tbl := table.New(schema, p, codec.MsgpackCodec{})

	require.NoError(t, tbl.InsertNamed(map[string]value.Value{"a": value.NewInt(5)}))

	rows := tbl.SelectAll()
	require.Len(t, rows, 1)
	assert.Equal(t, int32(5), rows[0][0].Int)
	assert.True(t, rows[0][1].IsNull())
}

func TestInsertNamedRequiresPrimaryKey(t *testing.T) {
	schema, err := value.NewSchema("t", []value.Column{
		{Name: "a", Type: value.IntType(), PrimaryKey: true},
		{Name: "b", Type: value.IntType()},
	})
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "t-*.db")
	require.NoError(t, err)
	p, err := pager.Create(f, codec.MsgpackCodec{}, schema, 4096)
	require.NoError(t, err)
	tbl := table.New(schema, p, codec.MsgpackCodec{})

	err = tbl.InsertNamed(map[string]value.Value{"b": value.NewInt(1)})
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.NullPrimaryKey))
}

func TestSelectColumnsProjectsInRequestedOrder(t *testing.T) {
	tbl := newTable(t)
	require.NoError(t, tbl.InsertPositional(value.Row{value.NewInt(1), value.NewChar("x")}))

	rows, err := tbl.SelectColumns([]string{"label", "slices"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "x", rows[0][0].Char)
	assert.Equal(t, int32(1), rows[0][1].Int)

	_, err = tbl.SelectColumns([]string{"nope"})
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.UnknownColumn))
}

func TestArityMismatch(t *testing.T) {
	tbl := newTable(t)
	err := tbl.InsertPositional(value.Row{value.NewInt(1)})
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.ArityMismatch))
}
