package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smythg4/godb/internal/ast"
	"github.com/smythg4/godb/internal/codec"
	"github.com/smythg4/godb/internal/database"
	"github.com/smythg4/godb/internal/dberr"
	"github.com/smythg4/godb/internal/value"
)

func cfg(t *testing.T) database.FactoryConfig {
	t.Helper()
	return database.FactoryConfig{
		Dir:          t.TempDir(),
		Ext:          "table",
		PageByteSize: 4096,
		Codec:        codec.MsgpackCodec{},
	}
}

func applesSchema(t *testing.T) *value.Schema {
	t.Helper()
	s, err := value.NewSchema("apples", []value.Column{
		{Name: "slices", Type: value.IntType(), PrimaryKey: true},
	})
	require.NoError(t, err)
	return s
}

func TestCreateInsertSelect(t *testing.T) {
	db, err := database.Open(cfg(t))
	require.NoError(t, err)

	require.NoError(t, db.CreateTable(applesSchema(t)))
	require.NoError(t, db.InsertPositional("apples", value.Row{value.NewInt(15)}))

	rows, names, err := db.Select("apples", ast.ColumnSet{WildCard: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"slices"}, names)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(15), rows[0][0].Int)
}

func TestCreateTableExists(t *testing.T) {
	db, err := database.Open(cfg(t))
	require.NoError(t, err)
	require.NoError(t, db.CreateTable(applesSchema(t)))

	err = db.CreateTable(applesSchema(t))
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.TableExists))
}

func TestInsertUnknownTable(t *testing.T) {
	db, err := database.Open(cfg(t))
	require.NoError(t, err)

	err = db.InsertPositional("missing", value.Row{value.NewInt(1)})
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.UnknownTable))
}

func TestFlushAndReopen(t *testing.T) {
	c := cfg(t)
	db, err := database.Open(c)
	require.NoError(t, err)
	require.NoError(t, db.CreateTable(applesSchema(t)))
	require.NoError(t, db.InsertPositional("apples", value.Row{value.NewInt(1)}))
	require.NoError(t, db.InsertPositional("apples", value.Row{value.NewInt(2)}))
	require.NoError(t, db.Flush())

	reopened, err := database.Open(c)
	require.NoError(t, err)
	rows, _, err := reopened.Select("apples", ast.ColumnSet{WildCard: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int32(1), rows[0][0].Int)
	assert.Equal(t, int32(2), rows[1][0].Int)
}
