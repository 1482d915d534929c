package btree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smythg4/godb/internal/btree"
	"github.com/smythg4/godb/internal/codec"
	"github.com/smythg4/godb/internal/dberr"
	"github.com/smythg4/godb/internal/value"
)

func collect(t *btree.BTree) []value.Row {
	var out []value.Row
	for r := range t.Iter() {
		out = append(out, r)
	}
	return out
}

func TestInsertAscendingOrder(t *testing.T) {
	tree := btree.New(codec.MsgpackCodec{}, 4096, 4)

	keys := []int32{5, 1, 4, 2, 3}
	for _, k := range keys {
		require.NoError(t, tree.Insert(value.NewInt(k), value.Row{value.NewInt(k)}))
	}

	rows := collect(tree)
	require.Len(t, rows, len(keys))
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1][0].Int, rows[i][0].Int)
	}
}

func TestInsertDuplicateKeyRejected(t *testing.T) {
	tree := btree.New(codec.MsgpackCodec{}, 4096, 4)

	require.NoError(t, tree.Insert(value.NewInt(7), value.Row{value.NewInt(7)}))
	err := tree.Insert(value.NewInt(7), value.Row{value.NewInt(99)})
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.DuplicateKey))
	assert.Equal(t, "duplicate entry: 7", err.Error())

	rows := collect(tree)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(7), rows[0][0].Int)
}

// TestSizeDrivenLeafSplit reproduces the documented split scenario: a
// page_byte_size of 4 with the mock codec's 1-byte-per-entry accounting
// splits a leaf the moment its 4th entry would make the cumulative size
// reach the budget, leaving [1,2] in the original leaf and [3,4] in its
// successor, in that insertion order (1,3,2,4).
func TestSizeDrivenLeafSplit(t *testing.T) {
	tree := btree.New(codec.MockCodec{}, 4, 4)

	for _, k := range []int32{1, 3, 2, 4} {
		require.NoError(t, tree.Insert(value.NewInt(k), value.Row{value.NewInt(k)}))
	}

	keys := tree.Keys()
	ints := make([]int32, len(keys))
	for i, k := range keys {
		ints[i] = k.Int
	}
	assert.Contains(t, ints, int32(1))
	assert.Contains(t, ints, int32(2))
	assert.Contains(t, ints, int32(3))
	assert.Contains(t, ints, int32(4))

	rows := collect(tree)
	got := make([]int32, len(rows))
	for i, r := range rows {
		got[i] = r[0].Int
	}
	assert.Equal(t, []int32{1, 2, 3, 4}, got)
}

func TestInternalNodeSplitsAndKeepsOrder(t *testing.T) {
	tree := btree.New(codec.MockCodec{}, 2, 3)

	for k := int32(0); k < 50; k++ {
		require.NoError(t, tree.Insert(value.NewInt(k), value.Row{value.NewInt(k)}))
	}

	rows := collect(tree)
	require.Len(t, rows, 50)
	for i, r := range rows {
		assert.Equal(t, int32(i), r[0].Int)
	}
}
