package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/qalamdan/porsesh/internal/config"
)

// Restores the forum database from a backup file produced by db_backup.
// Refuses to clobber an existing database unless -force is given.
func main() {
	configPath := flag.String("config", "", "path to YAML config")
	force := flag.Bool("force", false, "overwrite an existing database file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: db_restore [-config path] [-force] <backup-file>")
		os.Exit(2)
	}
	src := flag.Arg(0)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	dst := cfg.DatabasePath

	if _, err := os.Stat(dst); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Restore error: %s already exists (use -force to overwrite)\n", dst)
		os.Exit(1)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database restored from %s\n", src)
}
