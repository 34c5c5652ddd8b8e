package cli

import (
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"

	"github.com/imgajeed76/dfview/internal/config"
	"github.com/imgajeed76/dfview/internal/dataset"
	"github.com/imgajeed76/dfview/internal/grid"
	"github.com/imgajeed76/dfview/internal/ui/styles"
	"github.com/imgajeed76/dfview/internal/ui/table"
	"github.com/imgajeed76/dfview/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Browse a CSV, TSV, JSON or YAML file",
		Long: `Open a data file in the interactive viewer.

The format is inferred from the extension unless --format is given.
With no file, or with "-", data is read from standard input.

Mouse:
  wheel        scroll rows
  hover        highlight a row
  click        sort by a column (index column restores load order)
               or select a row in the body

When stdout is not a terminal, a plain table is printed instead.

Examples:
  dfview view sales.csv
  dfview view sales.csv --rows 25 --width region=12
  cat events.json | dfview view --format json
  dfview view sales.csv --pick | cut -f2`,
		Args: cobra.MaximumNArgs(1),
		RunE: runView,
	}

	addViewFlags(cmd)
	return cmd
}

// addViewFlags registers everything needed to load and show a file.
func addViewFlags(cmd *cobra.Command) {
	addSourceFlags(cmd)
	addGridFlags(cmd)
	addDisplayFlags(cmd)
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "Input format: csv, tsv, json, yaml (default: from extension)")
	cmd.Flags().Bool("no-header", false, "Treat the first CSV/TSV line as data")
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("rows", "n", 0, "Rows shown at once (default: viewer.visible_rows)")
	cmd.Flags().Int("padding", 0, "Extra characters per column (default: viewer.padding)")
	cmd.Flags().Int("sample", 0, "Rows measured for column widths (default: viewer.sample_rows)")
	cmd.Flags().StringArrayP("width", "w", nil, "Column width override as col=N (repeatable)")
}

func addDisplayFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("raw", false, "Output raw values without formatting (for piping)")
	cmd.Flags().Bool("json", false, "Output rows as a JSON array")
	cmd.Flags().Bool("no-pager", false, "Disable the interactive viewer")
	cmd.Flags().Bool("pick", false, "Print the selected row when the viewer exits")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src, err := fileSource(cmd, args)
	if err != nil {
		return err
	}

	ds, err := src.Load(cmd.Context())
	if err != nil {
		return util.LoadError(src.Path, err)
	}
	logger.Debug("loaded dataset", "name", ds.Name(), "rows", ds.Len(), "columns", len(ds.Columns()))

	opts, err := displayOptions(cmd, cfg)
	if err != nil {
		return err
	}
	return table.DisplayTo(cmd.OutOrStdout(), ds, opts)
}

func loadConfig() (*config.GlobalConfig, error) {
	cfg, err := config.LoadGlobal()
	if err != nil {
		return nil, util.NewError("Invalid configuration file").
			WithContext(config.GlobalConfigPath()).
			WithSuggestion("dfview config list   # Show current settings").
			Wrap(err)
	}
	return cfg, nil
}

func fileSource(cmd *cobra.Command, args []string) (dataset.FileSource, error) {
	src := dataset.FileSource{Path: "-"}
	if len(args) > 0 {
		src.Path = args[0]
	}
	src.NoHeader, _ = cmd.Flags().GetBool("no-header")

	name, _ := cmd.Flags().GetString("format")
	format, err := dataset.ParseFormat(name)
	if err != nil {
		return src, err
	}
	src.Format = format
	return src, nil
}

// gridOptions merges grid flags over the configured viewer settings.
func gridOptions(cmd *cobra.Command, cfg *config.GlobalConfig) (grid.Options, error) {
	opts := grid.Options{
		VisibleRows: cfg.Viewer.VisibleRows,
		SampleRows:  cfg.Viewer.SampleRows,
		Padding:     cfg.Viewer.Padding,
		Widths:      maps.Clone(cfg.Widths),
		Logger:      logger,
	}

	if cmd.Flags().Changed("rows") {
		rows, _ := cmd.Flags().GetInt("rows")
		if rows < 1 {
			return opts, fmt.Errorf("--rows must be at least 1")
		}
		opts.VisibleRows = rows
	}
	if cmd.Flags().Changed("padding") {
		padding, _ := cmd.Flags().GetInt("padding")
		if padding < 0 {
			return opts, fmt.Errorf("--padding cannot be negative")
		}
		opts.Padding = padding
	}
	if cmd.Flags().Changed("sample") {
		opts.SampleRows, _ = cmd.Flags().GetInt("sample")
	}

	specs, _ := cmd.Flags().GetStringArray("width")
	overrides, err := parseWidths(specs)
	if err != nil {
		return opts, err
	}
	if len(overrides) > 0 {
		if opts.Widths == nil {
			opts.Widths = make(map[string]int, len(overrides))
		}
		maps.Copy(opts.Widths, overrides)
	}
	return opts, nil
}

// parseWidths parses "col=N" overrides.
func parseWidths(specs []string) (map[string]int, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	widths := make(map[string]int, len(specs))
	for _, spec := range specs {
		col, n, ok := strings.Cut(spec, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid width %q: expected col=N", spec)
		}
		w, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || w < 1 {
			return nil, fmt.Errorf("invalid width %q: N must be a positive integer", spec)
		}
		widths[col] = w
	}
	return widths, nil
}

func loadTheme(cfg *config.GlobalConfig) (styles.Theme, error) {
	theme := styles.DefaultTheme()
	if err := theme.Apply(cfg.Theme); err != nil {
		return theme, util.NewError("Invalid theme override").
			WithSuggestion("dfview config list   # Show valid theme keys").
			Wrap(err)
	}
	return theme, nil
}

func displayOptions(cmd *cobra.Command, cfg *config.GlobalConfig) (table.DisplayOptions, error) {
	gridOpts, err := gridOptions(cmd, cfg)
	if err != nil {
		return table.DisplayOptions{}, err
	}
	theme, err := loadTheme(cfg)
	if err != nil {
		return table.DisplayOptions{}, err
	}

	opts := table.DisplayOptions{
		Grid:       gridOpts,
		Theme:      theme,
		WheelDelta: cfg.Viewer.WheelDelta,
		AltScreen:  cfg.Viewer.AltScreen,
		Logger:     viewerLogger(),
	}
	opts.Raw, _ = cmd.Flags().GetBool("raw")
	opts.JSON, _ = cmd.Flags().GetBool("json")
	opts.NoPager, _ = cmd.Flags().GetBool("no-pager")
	opts.Pick, _ = cmd.Flags().GetBool("pick")

	if opts.Raw && opts.JSON {
		return opts, fmt.Errorf("--raw and --json cannot be used together")
	}
	return opts, nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
