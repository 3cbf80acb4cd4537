package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import expenses from OFX/QFX statements",
		Long: `Import the debits in OFX or QFX statements exported from your bank as
expenses of the selected user. Each one is categorized from its merchant name.
Credits are skipped, as are entries already recorded with the same date,
amount and note.

Examples:
  spendwise import ~/Downloads/chase_jan_2026.qfx
  spendwise import ~/Downloads/*.qfx --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "parse and summarize without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	parser := ofx.NewParser()
	var entries []ofx.Entry
	for _, path := range files {
		parsed, err := parseStatement(cmd, parser, path)
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}
		slog.Info("Processed file", "file", filepath.Base(path), "entries", len(parsed))
		entries = append(entries, parsed...)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No entries found in any file"))
		return nil
	}

	if dryRun {
		debits := 0
		for _, e := range entries {
			if e.Debit {
				debits++
			}
		}
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d entries in %d files, %d debits would be imported",
			len(entries), len(files), debits)))
		return nil
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import interrupted!", "Expenses imported so far are kept; re-run to finish.")
	ctx := interrupts.HandleInterrupts(cmd.Context())
	defer interrupts.Stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Importing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish())

	importer := ofx.NewImporter(a.expenses, slog.Default())
	importer.OnEntry = func() { _ = bar.Add(1) }

	result, err := importer.Import(ctx, user.ID, entries)
	_ = bar.Finish()
	if err != nil && !interrupts.WasInterrupted() {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d expenses (%d duplicates, %d credits skipped, %d failed)",
		result.Imported, result.Duplicates, result.Credits, result.Failed)))

	names := make([]string, 0, len(result.ByCategory))
	for name := range result.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %d\n", name, result.ByCategory[name])
	}
	return nil
}

func parseStatement(cmd *cobra.Command, parser *ofx.Parser, path string) ([]ofx.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseFile(cmd.Context(), f)
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}
