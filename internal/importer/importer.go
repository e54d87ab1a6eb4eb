// Package importer bulk-loads books from CSV rows of title,author,category.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"book-lending/library"

	"github.com/go-playground/validator/v10"
)

// BookAdder is the part of LibraryStore the importer needs.
type BookAdder interface {
	AddBook(title, author, category string) (library.Book, error)
}

// Summary counts what happened to the rows of one import.
type Summary struct {
	Imported int
	Skipped  int
}

type row struct {
	Title    string `validate:"required"`
	Author   string `validate:"required"`
	Category string `validate:"required"`
}

// Import adds one book per CSV row, writing a progress line per row to w.
// An optional header row is skipped. Rows with a missing field are skipped
// and counted; a storage error stops the import.
func Import(r io.Reader, books BookAdder, w io.Writer) (Summary, error) {
	var summary Summary
	validate := validator.New()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return summary, nil
		}
		if err != nil {
			return summary, fmt.Errorf("read csv: %w", err)
		}
		if line == 1 && isHeader(record) {
			continue
		}

		var in row
		if len(record) >= 3 {
			in = row{Title: record[0], Author: record[1], Category: record[2]}
		}
		if err := validate.Struct(in); err != nil {
			fmt.Fprintf(w, "Warning: line %d is missing book details, skipping\n", line)
			summary.Skipped++
			continue
		}

		fmt.Fprintf(w, "Importing: %s by %s... ", strings.TrimSpace(in.Title), strings.TrimSpace(in.Author))
		book, err := books.AddBook(in.Title, in.Author, in.Category)
		if err != nil {
			fmt.Fprintln(w, "ERROR")
			return summary, fmt.Errorf("line %d: %w", line, err)
		}
		fmt.Fprintf(w, "SUCCESS (ID: %d)\n", book.ID)
		summary.Imported++
	}
}

func isHeader(record []string) bool {
	return len(record) >= 3 &&
		strings.EqualFold(strings.TrimSpace(record[0]), "title") &&
		strings.EqualFold(strings.TrimSpace(record[1]), "author") &&
		strings.EqualFold(strings.TrimSpace(record[2]), "category")
}
