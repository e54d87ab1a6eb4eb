package main

import (
	"flag"
	"fmt"
	"os"

	"book-lending/internal/config"
	"book-lending/internal/importer"
	"book-lending/internal/logger"
	"book-lending/library"
)

func main() {
	file := flag.String("file", "books.csv", "CSV file with title,author,category rows")
	backend := flag.String("backend", "", "Storage backend (sqlite, badger, memory)")
	data := flag.String("data", "", "Database file or directory")
	flag.Parse()

	if err := run(*file, config.Overrides{Backend: *backend, DataPath: *data}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(file string, overrides config.Overrides) error {
	cfg, err := config.Load(overrides)
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{
		Format:      cfg.Logger.Format,
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	})

	blobs, err := library.OpenBlobStore(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer blobs.Close()

	store, err := library.NewLibraryStore(blobs, library.WithLogger(log))
	if err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("Importing books from %s...\n", file)
	summary, err := importer.Import(f, store, os.Stdout)

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", summary.Imported)
	fmt.Printf("Skipped: %d rows\n", summary.Skipped)
	return err
}
