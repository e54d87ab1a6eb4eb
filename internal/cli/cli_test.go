package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	dataPath string
	envFile  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		dataPath: filepath.Join(dir, "lib.db"),
		envFile:  filepath.Join(dir, "absent.env"),
	}
}

// run executes one CLI invocation against the harness database and returns
// its stdout.
func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	root := a.rootCommand()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{
		"--backend", "sqlite",
		"--data", h.dataPath,
		"--env-file", h.envFile,
		"--log-level", "error",
	}, args...))

	err := root.Execute()
	a.close()
	return out.String(), err
}

func TestAddListSearch(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "add", "  Dune ", "Herbert", "Sci-Fi")
	require.NoError(t, err)
	assert.Contains(t, out, "Added book ID")
	assert.Contains(t, out, "Sci-Fi: 1 books")

	_, err = h.run(t, "", "--quiet", "add", "SPQR", "Mary Beard", "history")
	require.NoError(t, err)

	out, err = h.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "SPQR")

	out, err = h.run(t, "", "search", "HISTORY")
	require.NoError(t, err)
	assert.Contains(t, out, "SPQR")
	assert.NotContains(t, out, "Dune")

	out, err = h.run(t, "", "search", "poetry")
	require.NoError(t, err)
	assert.Contains(t, out, "No books found matching 'poetry'.")

	out, err = h.run(t, "", "categories")
	require.NoError(t, err)
	assert.Equal(t, "Sci-Fi: 1 books\nhistory: 1 books\n", out)
}

func TestAddRequiresEveryField(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "add", "Dune", "", "Sci-Fi")
	require.ErrorIs(t, err, errMissingBookDetails)

	out, err := h.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No books in library.")
}

func TestLendAndReturnFlow(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "-q", "add", "Dune", "Herbert", "Sci-Fi")
	require.NoError(t, err)

	out, err := h.run(t, "", "lend", "dune", "Alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Book lent to Alice.")
	assert.Contains(t, out, "Borrowed")

	_, err = h.run(t, "", "lend", "Dune", "Bob")
	require.ErrorIs(t, err, errNotLent)

	out, err = h.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.NotContains(t, out, "Bob")

	_, err = h.run(t, "", "-q", "return", "Dune")
	require.NoError(t, err)

	out, err = h.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No books borrowed.")
}

func TestLendValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "lend", "Dune")
	require.ErrorIs(t, err, errMissingLendDetails)

	_, err = h.run(t, "", "lend", "Dune", "")
	require.ErrorIs(t, err, errMissingLendDetails)

	_, err = h.run(t, "", "return")
	require.ErrorIs(t, err, errMissingTitle)
}

func TestLendByID(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "-q", "add", "Dune", "Herbert", "Sci-Fi")
	require.NoError(t, err)

	_, err = h.run(t, "", "lend", "--id", "12345", "Alice")
	require.ErrorIs(t, err, errNotLent)

	_, err = h.run(t, "", "-q", "return", "--id", "12345")
	require.NoError(t, err)
}

func TestShell(t *testing.T) {
	h := newHarness(t)
	input := strings.Join([]string{
		"add book", "Dune", "Herbert", "Sci-Fi",
		"add book", "", "Nobody", "None",
		"lend", "Dune", "Alice",
		"lend", "Dune", "Bob",
		"search book", "herbert",
		"return", "DUNE",
		"history",
		"bogus",
		"exit",
	}, "\n") + "\n"

	out, err := h.run(t, input, "--quiet", "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "Added book ID")
	assert.Contains(t, out, "Error: please fill in all book details")
	assert.Contains(t, out, "Book lent to Alice.")
	assert.Contains(t, out, "Error: book not found or already borrowed")
	assert.Contains(t, out, "Unknown command.")
	assert.Contains(t, out, "No books borrowed.")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
}

func TestShellEndOfInput(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "list books\n", "shell")
	require.NoError(t, err)
}

func TestUnknownBackend(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "--backend", "redis", "list")
	require.Error(t, err)
}
