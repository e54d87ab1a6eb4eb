package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"book-lending/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport(t *testing.T) {
	store, err := library.NewLibraryStore(library.NewMemoryBlobStore())
	require.NoError(t, err)

	csv := "Title,Author,Category\n" +
		"Dune,Frank Herbert,Sci-Fi\n" +
		"\"The Guns of August\", Barbara Tuchman ,History\n" +
		"Untitled,,Poetry\n" +
		"Short row\n"

	var log bytes.Buffer
	summary, err := Import(strings.NewReader(csv), store, &log)
	require.NoError(t, err)

	assert.Equal(t, Summary{Imported: 2, Skipped: 2}, summary)
	books := store.Books()
	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "Barbara Tuchman", books[1].Author)
	assert.Contains(t, log.String(), "line 4 is missing book details")
	assert.Contains(t, log.String(), "line 5 is missing book details")
}

type brokenAdder struct{}

func (brokenAdder) AddBook(string, string, string) (library.Book, error) {
	return library.Book{}, errors.New("disk full")
}

func TestImportStopsOnStorageError(t *testing.T) {
	var log bytes.Buffer
	summary, err := Import(strings.NewReader("Dune,Herbert,Sci-Fi\nEmma,Austen,Classic\n"), brokenAdder{}, &log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
	assert.Zero(t, summary.Imported)
	assert.Equal(t, 1, strings.Count(log.String(), "ERROR"))
}
