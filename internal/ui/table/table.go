// Package table renders a dataset through the grid: an interactive
// terminal viewer driven by mouse wheel, hover and clicks, plain text
// tables, JSON, raw tab-separated output and a static HTML export.
package table

import (
	"io"
	"log/slog"
	"os"

	"github.com/imgajeed76/dfview/internal/dataset"
	"github.com/imgajeed76/dfview/internal/grid"
	"github.com/imgajeed76/dfview/internal/ui/styles"
	"golang.org/x/term"
)

// DisplayOptions controls how results are rendered.
type DisplayOptions struct {
	// JSON outputs results as a JSON array of objects.
	JSON bool
	// Raw outputs results as tab-separated values (for piping).
	Raw bool
	// NoPager forces plain table output even on a TTY.
	NoPager bool
	// Pick prints the selected row to stdout when the viewer exits.
	Pick bool

	Grid       grid.Options
	Theme      styles.Theme
	WheelDelta int
	AltScreen  bool
	Logger     *slog.Logger
}

// DisplayResults picks the right output mode based on options and
// environment, then renders ds to stdout.
func DisplayResults(ds *dataset.Dataset, opts DisplayOptions) error {
	return DisplayTo(os.Stdout, ds, opts)
}

// DisplayTo is DisplayResults for any writer. The interactive viewer only
// starts when w is a terminal.
func DisplayTo(w io.Writer, ds *dataset.Dataset, opts DisplayOptions) error {
	f, ok := w.(*os.File)
	return display(w, ds, opts, ok && term.IsTerminal(int(f.Fd())))
}

func display(w io.Writer, ds *dataset.Dataset, opts DisplayOptions, isTTY bool) error {
	if opts.Raw {
		return PrintRaw(w, ds)
	}

	if opts.JSON {
		return PrintJSON(w, ds)
	}

	if !isTTY || opts.NoPager || ds.Len() == 0 {
		return PrintPlain(w, ds)
	}

	return RunViewer(ds, opts)
}
