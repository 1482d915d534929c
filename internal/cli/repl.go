package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/smythg4/godb/internal/ast"
	"github.com/smythg4/godb/internal/database"
	"github.com/smythg4/godb/internal/sqlparse"
	"github.com/smythg4/godb/internal/value"
)

const prompt = "db> "

var errExit = errors.New("cli: exit requested")

// Repl is the interactive command loop: one statement per line,
// terminated by ';' (or the bare .exit meta-command).
type Repl struct {
	db  *database.Database
	in  *bufio.Scanner
	out io.Writer
}

func NewRepl(db *database.Database, in io.Reader, out io.Writer) *Repl {
	return &Repl{db: db, in: bufio.NewScanner(in), out: out}
}

// Run reads and executes statements until .exit or end of input, then
// flushes every table regardless of how the loop ended.
func (r *Repl) Run() error {
	for {
		fmt.Fprint(r.out, prompt)
		if !r.in.Scan() {
			break
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		if err := r.handleLine(line); err != nil {
			if errors.Is(err, errExit) {
				break
			}
			fmt.Fprintf(r.out, "Error: %v\n", err)
		}
	}
	return r.db.Flush()
}

func (r *Repl) handleLine(line string) error {
	if strings.EqualFold(line, ".exit") {
		return errExit
	}
	text := strings.TrimSuffix(line, ";")
	stmt, err := sqlparse.Parse(text)
	if err != nil {
		return err
	}
	return r.execute(stmt)
}

func (r *Repl) execute(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case ast.Exit:
		return errExit
	case ast.CreateTable:
		return r.executeCreateTable(s)
	case ast.Insertion:
		return r.executeInsertion(s)
	case ast.Selection:
		return r.executeSelection(s)
	default:
		return fmt.Errorf("unsupported statement")
	}
}

func (r *Repl) executeCreateTable(s ast.CreateTable) error {
	cols := make([]value.Column, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = value.Column{Name: c.Name, Type: c.Type, PrimaryKey: c.PrimaryKey}
	}
	// Page capacity is checked before the schema's own invariants
	// (unique names, exactly one primary key): an oversized row should
	// be reported as a page-size problem, not masked by whatever else
	// happens to be wrong with the schema.
	if err := r.db.CheckCapacity(cols); err != nil {
		return err
	}
	schema, err := value.NewSchema(s.TableName, cols)
	if err != nil {
		return err
	}
	return r.db.CreateTable(schema)
}

func (r *Repl) executeInsertion(s ast.Insertion) error {
	if s.Columns == nil {
		return r.db.InsertPositional(s.TableName, value.Row(s.Values))
	}
	named := make(map[string]value.Value, len(s.Columns))
	for i, name := range s.Columns {
		named[name] = s.Values[i]
	}
	return r.db.InsertNamed(s.TableName, named)
}

func (r *Repl) executeSelection(s ast.Selection) error {
	rows, _, err := r.db.Select(s.TableName, s.Columns)
	if err != nil {
		return err
	}
	for _, row := range rows {
		fields := make([]string, len(row))
		for i, v := range row {
			if v.IsNull() {
				fields[i] = "null"
			} else {
				fields[i] = v.String()
			}
		}
		fmt.Fprintln(r.out, strings.Join(fields, "|"))
	}
	return nil
}
