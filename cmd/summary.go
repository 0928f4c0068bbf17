/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/fulmenhq/docsync/internal/summary"
	"github.com/fulmenhq/docsync/pkg/ascii"
	"github.com/fulmenhq/docsync/pkg/exitcode"
	"github.com/fulmenhq/docsync/pkg/logger"
	"github.com/spf13/cobra"
)

const summaryBanner = "DATEYE Documentation Summary Generator"

func newSummaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Concatenate linked documents into summary.txt",
		Long: `Summary reads every document linked from the index, in link order, normalises
line endings and trailing whitespace, and writes them into one file with a
"FILE: <path>" header per document. The output is fully regenerated each run.

Documents that cannot be read are reported and skipped. Exits 1 only when the
index cannot be read or the output cannot be written.`,
		Args: cobra.NoArgs,
		RunE: runSummary,
	}
	cmd.Flags().String("output", summary.DefaultOutput, "Output file, relative to the root")
	cmd.Flags().String("title", summary.DefaultTitle, "First line of the summary document")
	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, summaryBanner)
	fmt.Fprintln(out, ascii.Rule("-", 40))

	res, err := summary.Generate(summary.Options{
		Root:   cfg.Root,
		Index:  cfg.Index,
		Output: cfg.Output,
		Title:  cfg.Title,
	}, out)
	if err != nil {
		if errors.Is(err, summary.ErrWriteOutput) {
			return silentExit(exitcode.GeneralError, err)
		}
		fmt.Fprintf(out, "Error reading %s: %v\n", cfg.Index, err)
		return silentExit(exitcode.GeneralError, err)
	}

	if len(res.Skipped) > 0 {
		logger.Warn("Some linked documents were skipped", logger.Int("skipped", len(res.Skipped)))
	}
	return nil
}
