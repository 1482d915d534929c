// Package database owns the table map and the factory that creates and
// reloads table files, and dispatches CREATE/INSERT/SELECT to the right
// table.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/smythg4/godb/internal/codec"
	"github.com/smythg4/godb/internal/dberr"
	"github.com/smythg4/godb/internal/pager"
	"github.com/smythg4/godb/internal/table"
	"github.com/smythg4/godb/internal/value"
)

// FactoryConfig fixes how the factory names and opens table files.
type FactoryConfig struct {
	Dir          string
	Ext          string
	PageByteSize int
	Codec        codec.Codec
}

// Factory encapsulates table-file naming ({dir}/{table}.{ext}), open
// flags, and page/codec configuration.
type Factory struct {
	cfg FactoryConfig
}

func NewFactory(cfg FactoryConfig) *Factory { return &Factory{cfg: cfg} }

func (f *Factory) pathFor(tableName string) string {
	return filepath.Join(f.cfg.Dir, fmt.Sprintf("%s.%s", strings.ToLower(tableName), f.cfg.Ext))
}

// NewTable creates the backing file for schema and writes its header.
func (f *Factory) NewTable(schema *value.Schema) (*table.Table, error) {
	path := f.pathFor(schema.TableName)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, dberr.Wrap(dberr.Io, err, fmt.Sprintf("create table file %s", path))
	}
	p, err := pager.Create(file, f.cfg.Codec, schema, f.cfg.PageByteSize)
	if err != nil {
		file.Close()
		os.Remove(path)
		return nil, err
	}
	return table.New(schema, p, f.cfg.Codec), nil
}

// CheckCapacity reports whether a schema built from columns would fit at
// least one row per page under this factory's configured page size,
// without requiring the columns to already satisfy the primary-key
// invariant — CREATE TABLE checks page capacity before schema validity,
// so an oversized row is reported as PageTooSmall rather than masked by
// an unrelated SchemaInvalid.
func (f *Factory) CheckCapacity(columns []value.Column) error {
	draft := &value.Schema{Columns: columns}
	rowBytes, envelope, err := f.cfg.Codec.RowSize(draft)
	if err != nil {
		return err
	}
	_, err = pager.ComputeCapacity(rowBytes, envelope, f.cfg.PageByteSize)
	return err
}

// LoadTableFromFile reconstructs a Table (schema included) from an
// existing table file.
func (f *Factory) LoadTableFromFile(path string) (*table.Table, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, dberr.Wrap(dberr.Io, err, fmt.Sprintf("open table file %s", path))
	}
	p, err := pager.LoadFrom(file, f.cfg.Codec)
	if err != nil {
		return nil, err
	}
	return table.Load(p, f.cfg.Codec)
}
