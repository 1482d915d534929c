// Package cli is the interactive command loop: flag-based configuration,
// statement dispatch against a database.Database, and result printing.
package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Config holds the parsed command-line flags (spec.md §6.3).
type Config struct {
	Dir          string
	PageByteSize int
	Ext          string
}

// ParseFlags parses args (typically os.Args[1:]) with GNU-style flags.
func ParseFlags(args []string) (Config, error) {
	fs := pflag.NewFlagSet("godb", pflag.ContinueOnError)
	dir := fs.StringP("dir", "d", "", "database directory (required)")
	pageSize := fs.IntP("page-size", "p", 64, "page size in bytes")
	ext := fs.StringP("ext", "e", "table", "file extension for table files")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if *dir == "" {
		return Config{}, fmt.Errorf("--dir is required")
	}
	return Config{Dir: *dir, PageByteSize: *pageSize, Ext: *ext}, nil
}
