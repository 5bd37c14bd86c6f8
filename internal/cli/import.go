package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/wordlist/internal/config"
)

type ImportCommand struct {
	DatabasePath string
	File         string
	Out          io.Writer
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{Out: os.Stdout}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.File, "file", "", "YAML file with a top-level 'words' list (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Insert words from a YAML file. Words whose id already exists are skipped.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample file:\n")
		fmt.Fprintf(os.Stderr, "  words:\n    - id: 1\n      word: apple\n      meaning: a fruit\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.File == "" {
		fs.Usage()
		return fmt.Errorf("file is required")
	}

	return nil
}

func (cmd *ImportCommand) Run(ctx context.Context) error {
	wf, err := LoadWordFile(cmd.File)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeStore()

	view := store.ScanAscending()
	before, err := view.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to count words: %w", err)
	}

	for i, w := range wf.Words {
		if err := store.Insert(ctx, w); err != nil {
			return fmt.Errorf("failed to insert word %d of %d (id %d): %w", i+1, len(wf.Words), w.ID, err)
		}
	}

	after, err := view.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to count words: %w", err)
	}

	added := len(after) - len(before)
	fmt.Fprintf(cmd.Out, "Imported %d new words from %s (%d skipped)\n", added, cmd.File, len(wf.Words)-added)
	return nil
}
