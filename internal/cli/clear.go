package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/wordlist/internal/config"
)

type ClearCommand struct {
	DatabasePath string
	Confirm      bool
	Out          io.Writer
}

func NewClearCommand() *ClearCommand {
	return &ClearCommand{Out: os.Stdout}
}

func (cmd *ClearCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.Confirm, "yes", false, "Confirm removal of every word")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s clear -yes [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Remove every stored word.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !cmd.Confirm {
		fs.Usage()
		return fmt.Errorf("refusing to clear the word list without -yes")
	}

	return nil
}

func (cmd *ClearCommand) Run(ctx context.Context) error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", cmd.DatabasePath)
	}

	store, closeStore, err := openStore(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear words: %w", err)
	}

	fmt.Fprintln(cmd.Out, "Word list cleared")
	return nil
}
