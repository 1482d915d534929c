package cli_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smythg4/godb/internal/cli"
	"github.com/smythg4/godb/internal/codec"
	"github.com/smythg4/godb/internal/database"
)

func openDB(t *testing.T, pageByteSize int) *database.Database {
	t.Helper()
	db, err := database.Open(database.FactoryConfig{
		Dir:          t.TempDir(),
		Ext:          "table",
		PageByteSize: pageByteSize,
		Codec:        codec.MsgpackCodec{},
	})
	require.NoError(t, err)
	return db
}

func runScript(t *testing.T, db *database.Database, script string) string {
	t.Helper()
	var out strings.Builder
	repl := cli.NewRepl(db, strings.NewReader(script), &out)
	require.NoError(t, repl.Run())
	return out.String()
}

func TestScenarioCreateInsertSelect(t *testing.T) {
	db := openDB(t, 4096)
	out := runScript(t, db, "CREATE TABLE apples(slices INT PRIMARY KEY);\n"+
		"INSERT INTO apples(slices) VALUES(15);\n"+
		"SELECT * FROM apples;\n.exit\n")
	assert.Contains(t, out, "15\n")
}

func TestScenarioDuplicateKey(t *testing.T) {
	db := openDB(t, 4096)
	out := runScript(t, db, "CREATE TABLE a(id INT PRIMARY KEY);\n"+
		"INSERT INTO a VALUES(7);\n"+
		"INSERT INTO a VALUES(7);\n"+
		"SELECT * FROM a;\n.exit\n")
	assert.Contains(t, out, "Error: duplicate entry: 7")
	assert.Contains(t, out, "7\n")
}

func TestScenarioNamedInsertWithGaps(t *testing.T) {
	db := openDB(t, 4096)
	out := runScript(t, db, "CREATE TABLE t(a INT PRIMARY KEY, b INT);\n"+
		"INSERT INTO t(a) VALUES(5);\n"+
		"SELECT * FROM t;\n.exit\n")
	assert.Contains(t, out, "5|null\n")
}

func TestScenarioPageTooSmall(t *testing.T) {
	db := openDB(t, 16)
	out := runScript(t, db, "CREATE TABLE w(s CHAR(1000));\n.exit\n")
	assert.Contains(t, out, "Error: page size is not large enough")
}
