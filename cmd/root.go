/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"os"

	"github.com/fulmenhq/docsync/internal/ops"
	"github.com/fulmenhq/docsync/pkg/buildinfo"
	"github.com/fulmenhq/docsync/pkg/config"
	"github.com/fulmenhq/docsync/pkg/exitcode"
	"github.com/fulmenhq/docsync/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docsync",
		Short: "Keep a Markdown documentation index and its files in sync",
		Long: `Docsync maintains a Markdown knowledge base organised around one index document.
It verifies that every link in the index points at an existing file (and that every
file is linked), and exports all linked documents into a single summary file.

Examples:
   docsync check              # Report broken links and orphan files
   docsync check --format json
   docsync summary            # Regenerate summary.txt from the index
   docsync --root docs check  # Use docs/ as the documentation root`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("config", "", "Config file (default: ./.docsync.{yaml,yml,json,toml})")
	cmd.PersistentFlags().String("root", config.Default().Root, "Documentation root directory")
	cmd.PersistentFlags().String("index", config.Default().Index, "Index document, relative to the root")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("docsync {{.Version}}\n")

	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if cmd.HasParent() {
			cmd.Println(cmd.UsageString())
			return
		}
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		cmd.Println()
		cmd.Println("Documentation Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupDocs) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Support Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupSupport) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Flags:")
		cmd.Print(cmd.LocalFlags().FlagUsages())
	})

	return cmd
}

type subcommand struct {
	name        string
	group       ops.CommandGroup
	description string
	build       func() *cobra.Command
}

var subcommands = []subcommand{
	{"check", ops.GroupDocs, "Verify index links against files on disk", newCheckCommand},
	{"summary", ops.GroupDocs, "Concatenate linked documents into summary.txt", newSummaryCommand},
	{"version", ops.GroupSupport, "Show version information", newVersionCommand},
}

// registerSubcommands adds fresh instances of all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	for _, sc := range subcommands {
		c := sc.build()
		cmd.AddCommand(c)
		// the registry only feeds the grouped help; the first tree to register wins
		if _, exists := ops.GetRegistry().GetCommand(sc.name); exists {
			continue
		}
		if err := ops.RegisterCommand(sc.name, sc.group, c, sc.description); err != nil {
			logger.Debug("Command registration skipped", logger.String("command", sc.name), logger.Err(err))
		}
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func init() {
	registerSubcommands(rootCmd)
}

// Execute runs the root command with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(run(rootCmd, nil))
}

// ExecuteTool runs a single tool subcommand as if invoked as `docsync <name>`,
// forwarding any extra process arguments. It backs the zero-argument binaries.
func ExecuteTool(name string) {
	os.Exit(runTool(rootCmd, name, os.Args[1:]))
}

// runTool reports only success or failure: configuration errors exit 1 like
// any other failure of the zero-argument tools.
func runTool(cmd *cobra.Command, name string, args []string) int {
	code := run(cmd, append([]string{name}, args...))
	if code == exitcode.ConfigError {
		return exitcode.GeneralError
	}
	return code
}

func run(cmd *cobra.Command, args []string) int {
	if args != nil {
		cmd.SetArgs(args)
	}
	err := cmd.Execute()
	if err == nil {
		return exitcode.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.silent {
			logger.Error("Command execution failed", logger.Err(ee.err))
		}
		return ee.code
	}
	logger.Error("Command execution failed", logger.Err(err))
	return exitcode.GeneralError
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	cfg := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "docsync",
	}

	if err := logger.Initialize(cfg); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
	logger.SetOutput(cmd.ErrOrStderr())
}

// loadConfig resolves configuration for a subcommand, honouring --config and
// the root/index/output flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{File: file, Flags: cmd.Flags()})
	if err != nil {
		return nil, withExitCode(exitcode.ConfigError, err)
	}
	if cfg.Source != "" {
		logger.Debug("Loaded configuration", logger.String("file", cfg.Source))
	}
	return cfg, nil
}
