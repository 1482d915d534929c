package pager_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smythg4/godb/internal/codec"
	"github.com/smythg4/godb/internal/dberr"
	"github.com/smythg4/godb/internal/pager"
	"github.com/smythg4/godb/internal/value"
)

func testSchema(t *testing.T) *value.Schema {
	t.Helper()
	s, err := value.NewSchema("widgets", []value.Column{
		{Name: "id", Type: value.IntType(), PrimaryKey: true},
		{Name: "label", Type: value.CharType(8)},
	})
	require.NoError(t, err)
	return s
}

func openTemp(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "table-*.db")
	require.NoError(t, err)
	return f
}

func TestInsertFillsLowestIndexedSlot(t *testing.T) {
	f := openTemp(t)
	p, err := pager.Create(f, codec.MsgpackCodec{}, testSchema(t), 4096)
	require.NoError(t, err)
	require.NoError(t, p.AllocatePage())

	row := value.Row{value.NewInt(1), value.NewChar("a")}
	rid, err := p.Insert(row)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), rid.PageNumber)
	assert.Equal(t, uint16(0), rid.Slot)

	rid2, err := p.Insert(value.Row{value.NewInt(2), value.NewChar("b")})
	require.NoError(t, err)
	assert.Equal(t, uint16(1), rid2.Slot)
}

func TestInsertFailsFullWithoutAllocation(t *testing.T) {
	f := openTemp(t)
	p, err := pager.Create(f, codec.MsgpackCodec{}, testSchema(t), 4096)
	require.NoError(t, err)

	_, err = p.Insert(value.Row{value.NewInt(1), value.NewChar("a")})
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.Full))
}

func TestPageTooSmallRejectsCreate(t *testing.T) {
	f := openTemp(t)
	_, err := pager.Create(f, codec.MsgpackCodec{}, testSchema(t), 4)
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.PageTooSmall))
	assert.Equal(t, "page size is not large enough", err.Error())
}

func TestFlushAndLoadRoundTrip(t *testing.T) {
	f := openTemp(t)
	path := f.Name()
	schema := testSchema(t)

	p, err := pager.Create(f, codec.MsgpackCodec{}, schema, 4096)
	require.NoError(t, err)
	require.NoError(t, p.AllocatePage())

	_, err = p.Insert(value.Row{value.NewInt(1), value.NewChar("a")})
	require.NoError(t, err)
	_, err = p.Insert(value.Row{value.NewInt(2), value.NewChar("b")})
	require.NoError(t, err)

	require.NoError(t, p.Flush())
	require.NoError(t, f.Close())

	reopened, err := os.OpenFile(path, os.O_RDWR, 0o644)
	require.NoError(t, err)
	loaded, err := pager.LoadFrom(reopened, codec.MsgpackCodec{})
	require.NoError(t, err)

	rows := loaded.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, int32(1), rows[0][0].Int)
	assert.Equal(t, int32(2), rows[1][0].Int)
}

func TestCapacityMonotonicity(t *testing.T) {
	schema := testSchema(t)
	rowBytes, envelope, err := codec.MsgpackCodec{}.RowSize(schema)
	require.NoError(t, err)

	// Both page sizes leave room for the header, which must also fit in
	// a single page for Create to succeed.
	const headerRoom = 512
	small, err := pager.Create(openTemp(t), codec.MsgpackCodec{}, schema, headerRoom+rowBytes*3+envelope)
	require.NoError(t, err)
	large, err := pager.Create(openTemp(t), codec.MsgpackCodec{}, schema, headerRoom+rowBytes*10+envelope)
	require.NoError(t, err)

	assert.LessOrEqual(t, small.Capacity(), large.Capacity())
}
