package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/engine"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from CSV or OFX statement exports",
		Long: `Import bank statement exports into the transaction collection.

File layouts are detected automatically; CSV headers from card, checking,
and generic exports are all recognized, and files with no usable header
fall back to per-row shape detection.

Examples:
  # Import a single statement
  centsible import ~/Downloads/checking_jan.csv

  # Import a whole download folder
  centsible import ~/Downloads/statements/*.csv

  # Preview without saving
  centsible import --dry-run ~/Downloads/card_feb.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().String("format", "", "Force statement format (csv, ofx); default detects by extension")

	cmd.AddCommand(importUndoCmd())
	cmd.AddCommand(importListCmd())

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	format, _ := cmd.Flags().GetString("format")

	switch format {
	case "", string(engine.FormatCSV), string(engine.FormatOFX):
	default:
		return common.NewUserError(fmt.Sprintf("unknown format %q (want csv or ofx)", format), common.ErrUnknownFormat)
	}

	paths, err := expandPatterns(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return common.NewUserError("no files found to import", nil)
	}

	files := make([]engine.FileInput, 0, len(paths))
	for _, path := range paths {
		data, readErr := os.ReadFile(path) // #nosec G304 -- user-provided statement path
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", path, readErr)
		}
		info, statErr := os.Stat(path)
		if statErr != nil {
			return fmt.Errorf("failed to stat %s: %w", path, statErr)
		}
		files = append(files, engine.FileInput{
			Name:         filepath.Base(path),
			Text:         string(data),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
	}

	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	opts := engine.Options{DryRun: dryRun, Format: engine.Format(format)}

	var bar *progressbar.ProgressBar
	if len(files) > 1 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Importing statements"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		opts.OnFile = func(engine.FileResult) { _ = bar.Add(1) }
	}

	result, err := engine.New(store).ImportFiles(cmd.Context(), files, opts)
	if err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	for _, fr := range result.Files {
		cmd.Printf("  %s: %d transactions\n", fr.Name, fr.Count)
	}

	if result.DryRun {
		cmd.Println(cli.FormatWarning(fmt.Sprintf("Dry run: %d transactions parsed, nothing saved", result.Total)))
		return nil
	}

	cmd.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (batch %s)", result.Total, result.BatchID)))
	for _, c := range result.Contributions {
		cmd.Printf("  %s %s: +%s\n", cli.GoalIcon, c.GoalLabel, cli.FormatAmount(c.Amount, true))
	}
	return nil
}

// expandPatterns resolves glob patterns and literal paths. A pattern
// matching nothing is only an error when it is not an existing file.
func expandPatterns(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, statErr := os.Stat(pattern); statErr == nil {
				paths = append(paths, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

func importUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <batch-id>",
		Short: "Undo an import batch",
		Long:  `Delete every transaction from one import batch and roll back any automatic goal contributions it made.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			deleted, err := engine.New(store).Undo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Removed %d transactions from batch %s", deleted, args[0])))
			return nil
		},
	}
}

func importListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List import batches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			batches, err := store.ListImportBatches(cmd.Context())
			if err != nil {
				return err
			}
			if len(batches) == 0 {
				cmd.Println(cli.StyleSubtle("No import batches yet."))
				return nil
			}

			for _, batch := range batches {
				cmd.Printf("%s  %s  %d transactions\n",
					batch.ImportedAt.Format("2006-01-02 15:04"),
					batch.ID,
					batch.Count)
				for _, file := range batch.Files {
					cmd.Printf("    %s (%d bytes)\n", file.Name, file.Size)
				}
			}
			return nil
		},
	}
}
