// Package render prints the library's books, categories and borrow log as
// plain-text tables. A Renderer subscribes to a LibraryStore and redraws the
// views a mutation touched.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"book-lending/library"

	"golang.org/x/term"
)

// Source is the read side of a LibraryStore.
type Source interface {
	Books() []library.Book
	BorrowHistory() []library.BorrowRecord
	Categories() []library.CategoryCount
}

// Renderer writes views of a Source to w.
type Renderer struct {
	w      io.Writer
	src    Source
	glyphs bool
}

// New creates a Renderer. Status glyphs are used only when w is a terminal.
func New(w io.Writer, src Source) *Renderer {
	glyphs := false
	if f, ok := w.(*os.File); ok {
		glyphs = term.IsTerminal(int(f.Fd()))
	}
	return &Renderer{w: w, src: src, glyphs: glyphs}
}

// WithGlyphs forces status glyphs on or off.
func (r *Renderer) WithGlyphs(on bool) *Renderer {
	r.glyphs = on
	return r
}

// Notify implements library.Observer.
func (r *Renderer) Notify(change library.Change) {
	if change.Has(library.ChangeBooks) {
		r.Books(r.src.Books())
	}
	if change.Has(library.ChangeCatalog) {
		r.Categories()
	}
	if change.Has(library.ChangeHistory) {
		r.History()
	}
}

// Books renders the given books, which may be a search result.
func (r *Renderer) Books(books []library.Book) {
	if len(books) == 0 {
		fmt.Fprintln(r.w, "No books in library.")
		return
	}

	fmt.Fprintf(r.w, "%-15s %-30s %-25s %-15s %s\n", "ID", "Title", "Author", "Category", "Status")
	fmt.Fprintln(r.w, strings.Repeat("-", 100))
	for _, b := range books {
		fmt.Fprintf(r.w, "%-15d %-30s %-25s %-15s %s\n",
			b.ID,
			truncateString(b.Title, 30),
			truncateString(b.Author, 25),
			truncateString(b.Category, 15),
			r.status(b))
	}
}

// Categories renders "name: n books" lines in first-seen order.
func (r *Renderer) Categories() {
	for _, c := range r.src.Categories() {
		fmt.Fprintf(r.w, "%s: %d books\n", c.Name, c.Count)
	}
}

// History renders the borrow log.
func (r *Renderer) History() {
	records := r.src.BorrowHistory()
	if len(records) == 0 {
		fmt.Fprintln(r.w, "No books borrowed.")
		return
	}

	fmt.Fprintf(r.w, "%-30s %-25s %s\n", "Title", "Borrowed by", "Date")
	fmt.Fprintln(r.w, strings.Repeat("-", 80))
	for _, rec := range records {
		fmt.Fprintf(r.w, "%-30s %-25s %s\n",
			truncateString(rec.BookTitle, 30),
			truncateString(rec.BorrowerName, 25),
			rec.BorrowDate)
	}
}

func (r *Renderer) status(b library.Book) string {
	if !r.glyphs {
		return b.Status()
	}
	if b.Available {
		return "✅ Available"
	}
	return "❌ Borrowed"
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
