package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.runShell(cmd)
			return nil
		},
	}
}

const shellHelp = `Available commands:
  Books: add book, list books, search book, categories
  Circulation: lend, return, history
  System: help, exit`

// runShell reads commands until "exit" or end of input. Errors from a command
// are printed and the loop continues.
func (a *app) runShell(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	sc := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprintln(out, "Welcome to the book lending tracker!")
	fmt.Fprintln(out, shellHelp)

	for {
		fmt.Fprint(out, "\n> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return
		}

		var err error
		switch strings.TrimSpace(sc.Text()) {
		case "add book":
			err = a.handleAddBook(cmd, sc)
		case "list books":
			a.view.Books(a.store.Books())
		case "search book":
			err = a.handleSearch(cmd, sc)
		case "categories":
			a.view.Categories()
		case "lend":
			err = a.handleLend(cmd, sc)
		case "return":
			err = a.handleReturn(cmd, sc)
		case "history":
			a.view.History()
		case "help":
			fmt.Fprintln(out, shellHelp)
		case "":
		case "exit":
			fmt.Fprintln(out, "Goodbye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command. Type 'help' to list commands.")
		}
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

// prompt prints label and returns the next input line untrimmed.
func prompt(out io.Writer, sc *bufio.Scanner, label string) (string, bool) {
	fmt.Fprint(out, label)
	if !sc.Scan() {
		return "", false
	}
	return sc.Text(), true
}

func (a *app) handleAddBook(cmd *cobra.Command, sc *bufio.Scanner) error {
	out := cmd.OutOrStdout()
	var in addInput
	var ok bool
	if in.Title, ok = prompt(out, sc, "Title: "); !ok {
		return nil
	}
	if in.Author, ok = prompt(out, sc, "Author: "); !ok {
		return nil
	}
	if in.Category, ok = prompt(out, sc, "Category: "); !ok {
		return nil
	}
	return a.addBook(cmd, in)
}

func (a *app) handleSearch(cmd *cobra.Command, sc *bufio.Scanner) error {
	out := cmd.OutOrStdout()
	query, ok := prompt(out, sc, "Query: ")
	if !ok {
		return nil
	}
	books := a.store.SearchBooks(query)
	if len(books) == 0 && strings.TrimSpace(query) != "" {
		fmt.Fprintf(out, "No books found matching '%s'.\n", strings.TrimSpace(query))
		return nil
	}
	a.view.Books(books)
	return nil
}

func (a *app) handleLend(cmd *cobra.Command, sc *bufio.Scanner) error {
	out := cmd.OutOrStdout()
	var in lendInput
	var ok bool
	if in.Title, ok = prompt(out, sc, "Book title: "); !ok {
		return nil
	}
	if in.Borrower, ok = prompt(out, sc, "Borrower name: "); !ok {
		return nil
	}
	return a.lendBook(cmd, in)
}

func (a *app) handleReturn(cmd *cobra.Command, sc *bufio.Scanner) error {
	title, ok := prompt(cmd.OutOrStdout(), sc, "Book title: ")
	if !ok {
		return nil
	}
	return a.returnBook(cmd, returnInput{Title: title})
}
