// Package ast defines the statement shapes the SQL parser produces and
// the database dispatch layer consumes. It deliberately carries no
// behavior of its own.
package ast

import "github.com/smythg4/godb/internal/value"

// Statement is implemented by every parsed command.
type Statement interface{ isStatement() }

// ColumnDef is one column in a CREATE TABLE statement.
type ColumnDef struct {
	Name       string
	Type       value.DataType
	PrimaryKey bool
}

// CreateTable creates a new table with the given schema.
type CreateTable struct {
	TableName string
	Columns   []ColumnDef
}

// Insertion appends one row to a table. Columns is nil for a positional
// INSERT INTO t VALUES (...); otherwise it names the supplied values'
// columns for INSERT INTO t (a, b) VALUES (...).
type Insertion struct {
	TableName string
	Columns   []string
	Values    []value.Value
}

// ColumnSet distinguishes SELECT * from SELECT a, b, ... — these are
// genuinely different statement shapes, not one list with a sentinel.
type ColumnSet struct {
	WildCard bool
	Names    []string
}

// Selection selects rows (optionally projected) from one table.
type Selection struct {
	TableName string
	Columns   ColumnSet
}

// Exit is the .exit meta-command.
type Exit struct{}

func (CreateTable) isStatement() {}
func (Insertion) isStatement()   {}
func (Selection) isStatement()   {}
func (Exit) isStatement()        {}
