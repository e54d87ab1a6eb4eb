package library

// Book is a catalog entry with its current availability.
// ID is the creation time in Unix milliseconds and is unique within a store.
type Book struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	Available bool   `json:"available"`
}

// BorrowRecord pairs a lent title with the borrower and the time it went out.
// BookID is zero for records written before ids were tracked on the log.
type BorrowRecord struct {
	BookTitle    string `json:"bookTitle"`
	BorrowerName string `json:"borrowerName"`
	BorrowDate   string `json:"borrowDate"`
	BookID       int64  `json:"bookId,omitempty"`
}

// CategoryCount is one row of the per-category summary.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Status names the two states a Book moves between.
func (b Book) Status() string {
	if b.Available {
		return "Available"
	}
	return "Borrowed"
}

// Change is a bit set describing which collections a mutation touched.
type Change uint8

const (
	// ChangeBooks: a book's fields changed or a book was added.
	ChangeBooks Change = 1 << iota
	// ChangeCatalog: the set of books grew, so per-category counts moved.
	ChangeCatalog
	// ChangeHistory: the borrow log changed.
	ChangeHistory
)

// Has reports whether c includes every bit in other.
func (c Change) Has(other Change) bool { return c&other == other }

// Persisted keys. Each holds one JSON array.
const (
	BooksKey         = "books"
	BorrowHistoryKey = "borrowHistory"
)
