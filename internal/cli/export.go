package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/imgajeed76/dfview/internal/config"
	"github.com/imgajeed76/dfview/internal/grid"
	"github.com/imgajeed76/dfview/internal/ui/styles"
	"github.com/imgajeed76/dfview/internal/ui/table"
	"github.com/imgajeed76/dfview/internal/util"
	"github.com/spf13/cobra"
)

type exportFormat string

const (
	exportHTML  exportFormat = "html"
	exportJSON  exportFormat = "json"
	exportRaw   exportFormat = "raw"
	exportPlain exportFormat = "plain"
)

var exportExtensions = map[exportFormat]string{
	exportHTML:  ".html",
	exportJSON:  ".json",
	exportRaw:   ".tsv",
	exportPlain: ".txt",
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a data file as HTML, JSON, TSV or a plain table",
		Long: `Render a data file without the interactive viewer.

HTML export writes a static page that looks like the viewer: column
widths as percentages of a fixed-width container, banded rows and the
theme's cell padding. By default it contains the rows of the initial
window (see --rows and --top); --all writes every row.

JSON, raw and plain output always contain every row.

Without -o a unique file name is generated next to the working directory,
for example sales-01hx3k2m4n5p6q7r8s9t0v1w2x.html. Use -o - for stdout.`,
		Example: `  dfview export sales.csv
  dfview export sales.csv --all --sort region -o report.html
  dfview export events.json --plain -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}

	addSourceFlags(cmd)
	addGridFlags(cmd)
	cmd.Flags().Bool("html", false, "Write HTML (default)")
	cmd.Flags().Bool("json", false, "Write a JSON array")
	cmd.Flags().Bool("raw", false, "Write tab-separated values")
	cmd.Flags().Bool("plain", false, "Write a plain text table")
	cmd.MarkFlagsMutuallyExclusive("html", "json", "raw", "plain")
	cmd.Flags().Bool("all", false, "Include every row in HTML output")
	cmd.Flags().Int("top", 0, "First row of the exported HTML window")
	cmd.Flags().String("sort", "", "Sort by this column before exporting")
	cmd.Flags().StringP("output", "o", "", "Output file (default: generated name, - for stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
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

	gridOpts, err := gridOptions(cmd, cfg)
	if err != nil {
		return err
	}
	g := grid.New(ds, gridOpts)

	if col, _ := cmd.Flags().GetString("sort"); col != "" {
		if err := g.SortBy(col); err != nil {
			return util.NewError(fmt.Sprintf("Cannot sort by '%s'", col)).
				WithMessage(fmt.Sprintf("Columns: %v", ds.Columns())).
				Wrap(err)
		}
	}
	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		g.Scroll(top * grid.ScrollSensitivity)
	}

	format := selectedExportFormat(cmd)
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = util.ExportFileName(filepath.Base(src.Path), exportExtensions[format])
	}

	all, _ := cmd.Flags().GetBool("all")
	write := func(w io.Writer) error {
		return writeExport(w, g, format, all, cfg)
	}

	if output == "-" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Debug("exported dataset", "format", format, "path", output, "rows", ds.Len())
	fmt.Fprintln(cmd.ErrOrStderr(), styles.SuccessMsg(fmt.Sprintf("Wrote %s", output)))
	return nil
}

func selectedExportFormat(cmd *cobra.Command) exportFormat {
	for _, f := range []exportFormat{exportJSON, exportRaw, exportPlain} {
		if on, _ := cmd.Flags().GetBool(string(f)); on {
			return f
		}
	}
	return exportHTML
}

func writeExport(w io.Writer, g *grid.Grid, format exportFormat, all bool, cfg *config.GlobalConfig) error {
	ds := g.Dataset()
	switch format {
	case exportJSON:
		return table.PrintJSON(w, ds)
	case exportRaw:
		return table.PrintRaw(w, ds)
	case exportPlain:
		return table.PrintPlain(w, ds)
	}

	theme, err := loadTheme(cfg)
	if err != nil {
		return err
	}
	r, err := table.NewHTMLRenderer(theme)
	if err != nil {
		return err
	}
	r.PixelsPerChar = cfg.Viewer.PixelsPerChar
	return r.Render(w, g, all)
}
