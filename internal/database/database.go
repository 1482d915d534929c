package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/smythg4/godb/internal/ast"
	"github.com/smythg4/godb/internal/dberr"
	"github.com/smythg4/godb/internal/table"
	"github.com/smythg4/godb/internal/value"
)

// Database owns a lower-cased-name-keyed map of tables and the factory
// that materializes new ones.
type Database struct {
	tables  map[string]*table.Table
	factory *Factory
}

func New(factory *Factory, tables map[string]*table.Table) *Database {
	if tables == nil {
		tables = make(map[string]*table.Table)
	}
	return &Database{tables: tables, factory: factory}
}

// Open creates the database directory if absent, loads every existing
// table file matching cfg.Ext, and returns a ready Database. Any
// unrecognized or corrupt file aborts the whole open.
func Open(cfg FactoryConfig) (*Database, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, dberr.Wrap(dberr.Io, err, fmt.Sprintf("create database directory %s", cfg.Dir))
	}
	factory := NewFactory(cfg)

	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		return nil, dberr.Wrap(dberr.Io, err, fmt.Sprintf("read database directory %s", cfg.Dir))
	}
	suffix := "." + cfg.Ext
	tables := make(map[string]*table.Table)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		path := filepath.Join(cfg.Dir, e.Name())
		t, err := factory.LoadTableFromFile(path)
		if err != nil {
			return nil, err
		}
		tables[t.Name()] = t
	}
	return New(factory, tables), nil
}

func (d *Database) table(name string) (*table.Table, error) {
	t, ok := d.tables[strings.ToLower(name)]
	if !ok {
		return nil, dberr.New(dberr.UnknownTable, fmt.Sprintf("unknown table: %s", name))
	}
	return t, nil
}

// CheckCapacity delegates to the factory's page-size preflight check.
func (d *Database) CheckCapacity(columns []value.Column) error {
	return d.factory.CheckCapacity(columns)
}

// CreateTable creates and registers a new table. Fails with
// dberr.TableExists if the (lower-cased) name is already taken.
func (d *Database) CreateTable(schema *value.Schema) error {
	if _, exists := d.tables[schema.TableName]; exists {
		return dberr.New(dberr.TableExists, fmt.Sprintf("table already exists: %s", schema.TableName))
	}
	t, err := d.factory.NewTable(schema)
	if err != nil {
		return err
	}
	d.tables[schema.TableName] = t
	return nil
}

func (d *Database) InsertPositional(tableName string, row value.Row) error {
	t, err := d.table(tableName)
	if err != nil {
		return err
	}
	return t.InsertPositional(row)
}

func (d *Database) InsertNamed(tableName string, values map[string]value.Value) error {
	t, err := d.table(tableName)
	if err != nil {
		return err
	}
	return t.InsertNamed(values)
}

// Select returns the rows produced by cols against tableName, along with
// the column names they're projected onto (useful for callers that print
// a header or count columns).
func (d *Database) Select(tableName string, cols ast.ColumnSet) ([]value.Row, []string, error) {
	t, err := d.table(tableName)
	if err != nil {
		return nil, nil, err
	}
	if cols.WildCard {
		names := make([]string, len(t.Schema().Columns))
		for i, c := range t.Schema().Columns {
			names[i] = c.Name
		}
		return t.SelectAll(), names, nil
	}
	rows, err := t.SelectColumns(cols.Names)
	if err != nil {
		return nil, nil, err
	}
	return rows, cols.Names, nil
}

// Flush flushes every table, in arbitrary order, attempting all of them
// even if one fails; it returns the first error encountered.
func (d *Database) Flush() error {
	var firstErr error
	for _, t := range d.tables {
		if err := t.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
