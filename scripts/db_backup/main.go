package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/qalamdan/porsesh/internal/config"
)

// Copies the live forum database to a timestamped backup file. SQLite keeps
// everything in one file, so a plain copy while the server is stopped is a
// complete backup.
func main() {
	configPath := flag.String("config", "", "path to YAML config")
	outDir := flag.String("out", ".", "directory to write the backup into")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	src := cfg.DatabasePath
	dst := filepath.Join(*outDir, fmt.Sprintf("porsesh-%s.db.bak", time.Now().UTC().Format("20060102-150405")))

	srcFile, err := os.Open(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Backup written to %s\n", dst)
}
