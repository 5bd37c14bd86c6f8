package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/wordlist/internal/config"
	"github.com/mrlokans/wordlist/internal/entities"
)

type ListCommand struct {
	DatabasePath string
	Order        string
	Format       string
	Out          io.Writer
}

func NewListCommand() *ListCommand {
	return &ListCommand{Out: os.Stdout}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Order, "order", "asc", "Sort order by word: asc or desc")
	fs.StringVar(&cmd.Format, "format", "text", "Output format: text or yaml")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the stored words.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s list -order desc\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s list -format yaml > words.yaml\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Order != "asc" && cmd.Order != "desc" {
		return fmt.Errorf("order must be asc or desc, got %q", cmd.Order)
	}
	if cmd.Format != "text" && cmd.Format != "yaml" {
		return fmt.Errorf("format must be text or yaml, got %q", cmd.Format)
	}

	return nil
}

func (cmd *ListCommand) Run(ctx context.Context) error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", cmd.DatabasePath)
	}

	store, closeStore, err := openStore(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeStore()

	var list []entities.Word
	if cmd.Order == "desc" {
		list, err = store.ScanDescending(ctx)
	} else {
		list, err = store.ScanAscending().Snapshot(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list words: %w", err)
	}

	if cmd.Format == "yaml" {
		enc := yaml.NewEncoder(cmd.Out)
		enc.SetIndent(2)
		if err := enc.Encode(WordFile{Words: list}); err != nil {
			return fmt.Errorf("failed to encode words: %w", err)
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(cmd.Out, 0, 4, 2, ' ', 0)
	for _, w := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", w.ID, w.Word, w.Meaning)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "\n%d words\n", len(list))
	return nil
}
