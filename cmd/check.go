/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fulmenhq/docsync/internal/consistency"
	"github.com/fulmenhq/docsync/internal/exclude"
	"github.com/fulmenhq/docsync/internal/links"
	"github.com/fulmenhq/docsync/internal/scan"
	"github.com/fulmenhq/docsync/pkg/exitcode"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify index links against files on disk",
		Long: `Check compares the Markdown links in the index document with the .md files
found in the documentation layout.

  Broken links   are linked from the index but missing on disk.
  Missing links  are files on disk that the index never links to. README.md,
                 index.md, the tool directory and language variants
                 (e.g. overview-ZH.md) are exempt.

Exits 0 when both lists are empty, 1 otherwise.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
	cmd.Flags().String("format", "pretty", "Output format: pretty|json|yaml")
	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "pretty", "json", "yaml":
	default:
		return withExitCode(exitcode.ConfigError, fmt.Errorf("unsupported format %q (expected pretty, json or yaml)", format))
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	pretty := format == "pretty"
	if pretty {
		consistency.Banner(out)
	}

	report, err := consistency.Check(consistency.Options{
		Root:   cfg.Root,
		Index:  cfg.Index,
		Layout: scan.DefaultLayout(),
		Exclude: exclude.Options{
			ToolDir:            cfg.ToolDir,
			VariantLanguages:   cfg.VariantLanguages,
			RespectIgnoreFiles: cfg.RespectIgnoreFiles,
			Root:               cfg.Root,
		},
	})
	if err != nil {
		if pretty && errors.Is(err, links.ErrIndexNotFound) {
			consistency.WriteIndexError(out, cfg.Index)
			return silentExit(exitcode.GeneralError, err)
		}
		return withExitCode(exitcode.GeneralError, err)
	}

	if pretty {
		consistency.WritePretty(out, report)
	} else if err := consistency.WriteStructured(out, report, format); err != nil {
		return err
	}

	if !report.OK() {
		return silentExit(exitcode.GeneralError, consistency.ErrInconsistent)
	}
	return nil
}
