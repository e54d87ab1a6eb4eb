package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type addInput struct {
	Title    string `validate:"required"`
	Author   string `validate:"required"`
	Category string `validate:"required"`
}

type lendInput struct {
	Title    string `validate:"required_without=BookID"`
	BookID   int64
	Borrower string `validate:"required"`
}

type returnInput struct {
	Title  string `validate:"required_without=BookID"`
	BookID int64
}

// ------------------ Operations shared with the shell ------------------

func (a *app) addBook(cmd *cobra.Command, in addInput) error {
	if err := a.check(in, errMissingBookDetails); err != nil {
		return err
	}
	book, err := a.store.AddBook(in.Title, in.Author, in.Category)
	if err != nil {
		return fmt.Errorf("add book: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added book ID %d.\n", book.ID)
	return nil
}

func (a *app) lendBook(cmd *cobra.Command, in lendInput) error {
	if err := a.check(in, errMissingLendDetails); err != nil {
		return err
	}

	var (
		ok  bool
		err error
	)
	if in.BookID != 0 {
		ok, err = a.store.LendBookByID(in.BookID, in.Borrower)
	} else {
		ok, err = a.store.LendBook(in.Title, in.Borrower)
	}
	if err != nil {
		return fmt.Errorf("lend book: %w", err)
	}
	if !ok {
		a.log.Info("lend refused", "title", in.Title, "id", in.BookID)
		return errNotLent
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Book lent to %s.\n", in.Borrower)
	return nil
}

func (a *app) returnBook(cmd *cobra.Command, in returnInput) error {
	if err := a.check(in, errMissingTitle); err != nil {
		return err
	}

	var err error
	if in.BookID != 0 {
		err = a.store.ReturnBookByID(in.BookID)
	} else {
		err = a.store.ReturnBook(in.Title)
	}
	if err != nil {
		return fmt.Errorf("return book: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Return recorded.")
	return nil
}

// ------------------ Commands ------------------

func (a *app) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> <author> <category>",
		Short: "Add a book to the library",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.addBook(cmd, addInput{Title: args[0], Author: args[1], Category: args[2]})
		},
	}
}

func (a *app) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Find books by title, author or category",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			books := a.store.SearchBooks(query)
			if len(books) == 0 && strings.TrimSpace(query) != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "No books found matching '%s'.\n", query)
				return nil
			}
			a.view.Books(books)
			return nil
		},
	}
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every book",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a.view.Books(a.store.Books())
			return nil
		},
	}
}

func (a *app) lendCommand() *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "lend (<title> | --id <id>) <borrower>",
		Short: "Lend an available book",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if id != 0 {
				if len(args) != 1 {
					return fmt.Errorf("with --id, pass only the borrower name")
				}
				return a.lendBook(cmd, lendInput{BookID: id, Borrower: args[0]})
			}
			if len(args) != 2 {
				return errMissingLendDetails
			}
			return a.lendBook(cmd, lendInput{Title: args[0], Borrower: args[1]})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Lend the book with this id instead of matching by title")
	return cmd
}

func (a *app) returnCommand() *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "return (<title> | --id <id>)",
		Short: "Return a borrowed book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := returnInput{BookID: id}
			if len(args) == 1 {
				in.Title = args[0]
			}
			return a.returnBook(cmd, in)
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Return the book with this id instead of matching by title")
	return cmd
}

func (a *app) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the borrow log",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a.view.History()
			return nil
		},
	}
}

func (a *app) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Count books per category",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a.view.Categories()
			return nil
		},
	}
}
