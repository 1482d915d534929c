// Command godb runs the interactive command loop described in
// spec.md: it opens (or creates) a database directory, then accepts
// CREATE TABLE / INSERT / SELECT statements and the .exit meta-command
// until end of input, flushing every table before it quits.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/smythg4/godb/internal/cli"
	"github.com/smythg4/godb/internal/codec"
	"github.com/smythg4/godb/internal/database"
)

func main() {
	log.SetOutput(os.Stderr)

	cfg, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	db, err := database.Open(database.FactoryConfig{
		Dir:          cfg.Dir,
		Ext:          cfg.Ext,
		PageByteSize: cfg.PageByteSize,
		Codec:        codec.MsgpackCodec{},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	log.Printf("opened database at %s", cfg.Dir)

	// Flush on SIGINT/SIGTERM too, so an interrupted session doesn't
	// lose rows that were only ever committed to memory.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("signal received, flushing and exiting")
		if err := db.Flush(); err != nil {
			log.Printf("flush on signal failed: %v", err)
		}
		os.Exit(0)
	}()

	repl := cli.NewRepl(db, os.Stdin, os.Stdout)
	if err := repl.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	log.Println("flushed all tables, exiting")
}
