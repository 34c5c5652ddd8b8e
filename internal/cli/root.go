package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/imgajeed76/dfview/internal/ui/styles"
	"github.com/imgajeed76/dfview/internal/util"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dfview [file]",
		Short: "Browse tabular data in the terminal",
		Long: `dfview is a scrollable, sortable viewer for tabular data.

It reads CSV, TSV, JSON and YAML files (or standard input) and the
results of read-only PostgreSQL queries. Scroll with the mouse wheel
or keys, hover to highlight a row, click a header to sort.

Running dfview with a file is the same as running 'dfview view <file>'.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && stdinIsTerminal() {
				return cmd.Help()
			}
			return runView(cmd, args)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("log-file", "", "Write logs to this file")

	cmd.SetVersionTemplate(fmt.Sprintf("dfview version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		noColor, _ := cmd.Flags().GetBool("no-color")
		if noColor {
			styles.SetNoColor(true)
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		logFile, _ := cmd.Flags().GetString("log-file")
		return setupLogging(verbose, logFile)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return closeLogging()
	}

	addViewFlags(cmd)

	cmd.AddCommand(
		newVersionCmd(),
		newViewCmd(),
		newSQLCmd(),
		newExportCmd(),
		newConfigCmd(),
		newCompletionCmd(),
	)
	return cmd
}

// Execute runs the root command and prints errors the way users expect.
func Execute() error {
	err := rootCmd.Execute()
	_ = closeLogging()
	if err != nil {
		// Check if it's a structured DfError
		var dfErr *util.DfError
		if errors.As(err, &dfErr) {
			fmt.Fprintln(os.Stderr, dfErr.Format())
		} else {
			fmt.Fprintln(os.Stderr, styles.ErrorMsg(err.Error()))
		}
		return err
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════
// Logging
// ══════════════════════════════════════════════════════════════════════════

var (
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	logFile *os.File
)

// setupLogging installs the process logger. Without a log file, logs go to
// stderr; the viewer gets a discarding logger since it owns the terminal.
func setupLogging(verbose bool, path string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	noColor := styles.NoColor()
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		w = f
		noColor = true
	}

	logger = newLogger(w, level, noColor)
	slog.SetDefault(logger)
	return nil
}

func newLogger(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

// viewerLogger is the logger handed to the interactive viewer.
func viewerLogger() *slog.Logger {
	if logFile != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func closeLogging() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// ══════════════════════════════════════════════════════════════════════════
// Version and completion
// ══════════════════════════════════════════════════════════════════════════

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dfview.

To load completions:

Bash:
  $ source <(dfview completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ dfview completion bash > /etc/bash_completion.d/dfview
  # macOS:
  $ dfview completion bash > $(brew --prefix)/etc/bash_completion.d/dfview

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ dfview completion zsh > "${fpath[1]}/_dfview"

Fish:
  $ dfview completion fish | source

  # To load completions for each session, execute once:
  $ dfview completion fish > ~/.config/fish/completions/dfview.fish

PowerShell:
  PS> dfview completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dfview version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", CommitSHA)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
		},
	}
}
