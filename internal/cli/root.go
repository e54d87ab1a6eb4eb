// Package cli wires the lending commands: it builds one LibraryStore per
// invocation and hands it to every command handler.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"book-lending/internal/config"
	"book-lending/internal/logger"
	"book-lending/internal/render"
	"book-lending/library"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

// app is the per-invocation object graph shared by the commands.
type app struct {
	flags config.Overrides
	quiet bool

	cfg      *config.Config
	log      *slog.Logger
	blobs    library.BlobStore
	store    *library.LibraryStore
	view     *render.Renderer
	validate *validator.Validate
}

// Execute runs the lending CLI with os.Args.
func Execute() error {
	a := &app{}
	defer a.close()
	return a.rootCommand().Execute()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "lending",
		Short:         "Track books and who borrowed them",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.Environment, "env", "", "Environment (development, production)")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&a.flags.LogFormat, "log-format", "", "Log format (json, pretty)")
	pf.StringVar(&a.flags.Backend, "backend", "", "Storage backend (sqlite, badger, memory)")
	pf.StringVar(&a.flags.DataPath, "data", "", "Database file or directory")
	pf.StringVar(&a.flags.EnvFile, "env-file", "", "Path to .env file (default .env)")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Do not redraw the library after changes")

	root.AddCommand(
		a.addCommand(),
		a.searchCommand(),
		a.listCommand(),
		a.lendCommand(),
		a.returnCommand(),
		a.historyCommand(),
		a.categoriesCommand(),
		a.shellCommand(),
	)
	return root
}

// open loads configuration and the library. Called once before any command.
func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(logger.Config{
		Writer:      cmd.ErrOrStderr(),
		Format:      cfg.Logger.Format,
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	})

	blobs, err := library.OpenBlobStore(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	a.blobs = blobs

	store, err := library.NewLibraryStore(blobs, library.WithLogger(a.log))
	if err != nil {
		return err
	}
	a.store = store
	a.view = render.New(cmd.OutOrStdout(), store)
	if !a.quiet {
		store.Subscribe(a.view)
	}
	a.validate = validator.New()

	a.log.Debug("library opened", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
	return nil
}

func (a *app) close() {
	if a.blobs == nil {
		return
	}
	if err := a.blobs.Close(); err != nil && a.log != nil {
		a.log.Error("close storage", "error", err)
	}
	a.blobs = nil
}

var (
	errMissingBookDetails = errors.New("please fill in all book details")
	errMissingLendDetails = errors.New("please fill in book title and borrower name")
	errMissingTitle       = errors.New("please fill in the book title")
	errNotLent            = errors.New("book not found or already borrowed")
)

// check runs presence validation on input and maps any failure to userErr.
func (a *app) check(input any, userErr error) error {
	if err := a.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				a.log.Debug("input rejected", "field", fe.Field(), "rule", fe.Tag())
			}
			return userErr
		}
		return err
	}
	return nil
}
