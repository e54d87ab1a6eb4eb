package library

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// BorrowDateLayout formats BorrowRecord.BorrowDate, e.g. "3/14/2026, 2:05:09 PM".
const BorrowDateLayout = "1/2/2006, 3:04:05 PM"

// Observer is told which collections changed after a mutation is persisted.
type Observer interface {
	Notify(change Change)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Change)

func (f ObserverFunc) Notify(c Change) { f(c) }

// LibraryStore owns the book list and the borrow log. Every mutation is
// written through to the BlobStore before observers are notified.
type LibraryStore struct {
	mu      sync.RWMutex
	books   []Book
	history []BorrowRecord
	lastID  int64

	blobs     BlobStore
	observers []Observer
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a LibraryStore.
type Option func(*LibraryStore)

// WithLogger sets the logger used for load/save diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *LibraryStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for ids and borrow dates.
func WithClock(now func() time.Time) Option {
	return func(s *LibraryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewLibraryStore loads both collections from blobs. Missing keys start empty;
// a value that does not decode is an error.
func NewLibraryStore(blobs BlobStore, opts ...Option) (*LibraryStore, error) {
	s := &LibraryStore{
		blobs:   blobs,
		books:   []Book{},
		history: []BorrowRecord{},
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := loadArray(blobs, BooksKey, &s.books); err != nil {
		return nil, err
	}
	if err := loadArray(blobs, BorrowHistoryKey, &s.history); err != nil {
		return nil, err
	}
	if s.books == nil {
		s.books = []Book{}
	}
	if s.history == nil {
		s.history = []BorrowRecord{}
	}
	for _, b := range s.books {
		s.lastID = max(s.lastID, b.ID)
	}

	s.logger.Debug("library loaded", "books", len(s.books), "borrow_records", len(s.history))
	return s, nil
}

// Subscribe registers o for change notifications.
func (s *LibraryStore) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// ------------------ Mutations ------------------

// AddBook trims its arguments and appends a new available book.
func (s *LibraryStore) AddBook(title, author, category string) (Book, error) {
	s.mu.Lock()
	book := Book{
		ID:        s.nextID(),
		Title:     strings.TrimSpace(title),
		Author:    strings.TrimSpace(author),
		Category:  strings.TrimSpace(category),
		Available: true,
	}
	s.books = append(s.books, book)
	err := s.saveLocked()
	s.mu.Unlock()

	if err != nil {
		return book, err
	}
	s.logger.Debug("book added", "id", book.ID, "title", book.Title)
	s.notify(ChangeBooks | ChangeCatalog)
	return book, nil
}

// LendBook lends the first book whose title matches case-insensitively.
// It reports false, changing nothing, when no book matches or the match is
// already borrowed.
func (s *LibraryStore) LendBook(title, borrowerName string) (bool, error) {
	return s.lend(func(b Book) bool { return sameTitle(b.Title, title) }, borrowerName)
}

// LendBookByID is LendBook addressed by id instead of title.
func (s *LibraryStore) LendBookByID(id int64, borrowerName string) (bool, error) {
	return s.lend(func(b Book) bool { return b.ID == id }, borrowerName)
}

func (s *LibraryStore) lend(match func(Book) bool, borrowerName string) (bool, error) {
	s.mu.Lock()
	i := s.indexLocked(match)
	if i < 0 || !s.books[i].Available {
		s.mu.Unlock()
		return false, nil
	}

	s.books[i].Available = false
	s.history = append(s.history, BorrowRecord{
		BookTitle:    s.books[i].Title,
		BorrowerName: borrowerName,
		BorrowDate:   s.now().Format(BorrowDateLayout),
		BookID:       s.books[i].ID,
	})
	err := s.saveLocked()
	s.mu.Unlock()

	if err != nil {
		return true, err
	}
	s.notify(ChangeBooks | ChangeHistory)
	return true, nil
}

// ReturnBook marks the first book matching title as available and drops every
// borrow record for that title. An unknown title is a no-op.
func (s *LibraryStore) ReturnBook(title string) error {
	s.mu.Lock()
	i := s.indexLocked(func(b Book) bool { return sameTitle(b.Title, title) })
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.books[i].Available = true
	s.history = filterRecords(s.history, func(r BorrowRecord) bool {
		return sameTitle(r.BookTitle, title)
	})
	err := s.saveLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(ChangeBooks | ChangeHistory)
	return nil
}

// ReturnBookByID returns the book with id. It drops the records lent under
// that id and any older records, without an id, that carry its title.
func (s *LibraryStore) ReturnBookByID(id int64) error {
	s.mu.Lock()
	i := s.indexLocked(func(b Book) bool { return b.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.books[i].Available = true
	title := s.books[i].Title
	s.history = filterRecords(s.history, func(r BorrowRecord) bool {
		if r.BookID != 0 {
			return r.BookID == id
		}
		return sameTitle(r.BookTitle, title)
	})
	err := s.saveLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(ChangeBooks | ChangeHistory)
	return nil
}

// ------------------ Queries ------------------

// SearchBooks returns the books whose title, author or category contains the
// trimmed query, ignoring case. An empty query returns every book.
func (s *LibraryStore) SearchBooks(query string) []Book {
	q := fold(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()
	if q == "" {
		return append([]Book{}, s.books...)
	}
	results := []Book{}
	for _, b := range s.books {
		if strings.Contains(fold(b.Title), q) ||
			strings.Contains(fold(b.Author), q) ||
			strings.Contains(fold(b.Category), q) {
			results = append(results, b)
		}
	}
	return results
}

// Books returns every book in insertion order.
func (s *LibraryStore) Books() []Book { return s.SearchBooks("") }

// Book returns the book with id.
func (s *LibraryStore) Book(id int64) (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(func(b Book) bool { return b.ID == id }); i >= 0 {
		return s.books[i], true
	}
	return Book{}, false
}

// BorrowHistory returns the borrow log in insertion order.
func (s *LibraryStore) BorrowHistory() []BorrowRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]BorrowRecord{}, s.history...)
}

// Categories counts books per exact category string, in first-seen order.
func (s *LibraryStore) Categories() []CategoryCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var counts []CategoryCount
	pos := make(map[string]int)
	for _, b := range s.books {
		i, ok := pos[b.Category]
		if !ok {
			i = len(counts)
			pos[b.Category] = i
			counts = append(counts, CategoryCount{Name: b.Category})
		}
		counts[i].Count++
	}
	return counts
}

// ------------------ Internals ------------------

// nextID is the creation time in milliseconds, bumped past the last issued id
// when two books land in the same millisecond.
func (s *LibraryStore) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *LibraryStore) indexLocked(match func(Book) bool) int {
	for i, b := range s.books {
		if match(b) {
			return i
		}
	}
	return -1
}

// saveLocked overwrites both persisted collections.
func (s *LibraryStore) saveLocked() error {
	if err := saveArray(s.blobs, BooksKey, s.books); err != nil {
		return fmt.Errorf("persist library: %w", err)
	}
	if err := saveArray(s.blobs, BorrowHistoryKey, s.history); err != nil {
		return fmt.Errorf("persist library: %w", err)
	}
	s.logger.Debug("library saved", "books", len(s.books), "borrow_records", len(s.history))
	return nil
}

func (s *LibraryStore) notify(change Change) {
	s.mu.RLock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.RUnlock()
	for _, o := range observers {
		o.Notify(change)
	}
}

// filterRecords returns the records for which drop reports false.
func filterRecords(records []BorrowRecord, drop func(BorrowRecord) bool) []BorrowRecord {
	kept := make([]BorrowRecord, 0, len(records))
	for _, r := range records {
		if !drop(r) {
			kept = append(kept, r)
		}
	}
	return kept
}
