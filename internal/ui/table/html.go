package table

import (
	"embed"
	"fmt"
	"io"
	"strconv"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
	"github.com/imgajeed76/dfview/internal/dataset"
	"github.com/imgajeed76/dfview/internal/grid"
	"github.com/imgajeed76/dfview/internal/ui/styles"
)

//go:embed templates/*
var templateFS embed.FS

// HTMLRenderer renders a grid as a static HTML page.
type HTMLRenderer struct {
	tmpl  *template.Template
	theme styles.Theme

	// PixelsPerChar scales character widths to the container width.
	// Zero keeps grid.PixelsPerChar.
	PixelsPerChar int
}

// NewHTMLRenderer parses the embedded page template.
func NewHTMLRenderer(theme styles.Theme) (*HTMLRenderer, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)

	tmpl, err := template.New("grid.html").ParseFS(trustedFS, "templates/grid.html")
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{tmpl: tmpl, theme: theme}, nil
}

type htmlCell struct {
	Text  string
	Style safehtml.Style
}

type htmlRow struct {
	Style safehtml.Style
	Cells []htmlCell
}

type htmlPage struct {
	Title          string
	Caption        string
	ContainerStyle safehtml.Style
	SeparatorStyle safehtml.Style
	Header         []htmlCell
	Rows           []htmlRow
}

// Render writes g to w. With all set every row of the dataset is written;
// otherwise only the rows in the window, selection included.
func (r *HTMLRenderer) Render(w io.Writer, g *grid.Grid, all bool) error {
	return r.tmpl.Execute(w, r.page(g, all))
}

func (r *HTMLRenderer) page(g *grid.Grid, all bool) htmlPage {
	ds := g.Dataset()
	widths := g.Widths()
	percents := widths.Percents()
	p := r.theme.HTML

	cellStyle := func(i int, bold bool) safehtml.Style {
		props := safehtml.StyleProperties{
			Width:   fmt.Sprintf("%d%%", percents[i]),
			Padding: r.theme.CellPadding,
		}
		if bold {
			props.FontWeight = "bold"
		}
		return safehtml.StyleFromProperties(props)
	}
	rowStyle := func(color string) safehtml.Style {
		return safehtml.StyleFromProperties(safehtml.StyleProperties{BackgroundColor: color})
	}

	page := htmlPage{
		Title: ds.Name(),
		ContainerStyle: safehtml.StyleFromProperties(safehtml.StyleProperties{
			Width: fmt.Sprintf("%dpx", r.containerWidth(widths)),
		}),
		SeparatorStyle: safehtml.StyleFromProperties(safehtml.StyleProperties{
			Height:          "1px",
			BackgroundColor: p.Separator,
		}),
	}

	for i, label := range g.Header().Labels(g.SortPosition(), r.theme.SortMarker) {
		page.Header = append(page.Header, htmlCell{Text: label, Style: cellStyle(i, true)})
	}

	build := func(row dataset.Row, color string) htmlRow {
		hr := htmlRow{Style: rowStyle(color)}
		hr.Cells = append(hr.Cells, htmlCell{Text: strconv.Itoa(row.Key), Style: cellStyle(0, true)})
		for j, v := range row.Values {
			hr.Cells = append(hr.Cells, htmlCell{Text: v.String(), Style: cellStyle(j+1, false)})
		}
		return hr
	}
	band := func(pos int) string {
		if pos%2 == 0 {
			return p.RowEven
		}
		return p.RowOdd
	}

	if all {
		for i := 0; i < ds.Len(); i++ {
			page.Rows = append(page.Rows, build(ds.Row(i), band(i)))
		}
		page.Caption = fmt.Sprintf("%d rows, %d columns", ds.Len(), len(ds.Columns()))
		return page
	}

	win := g.Window()
	for _, v := range win.Visible() {
		color := band(v.Row)
		if win.IsSelected(v) {
			color = p.RowSelected
		}
		page.Rows = append(page.Rows, build(ds.Row(v.Row), color))
	}
	page.Caption = rangeCaption(win, ds.Len())
	return page
}

func (r *HTMLRenderer) containerWidth(w grid.Widths) int {
	if r.PixelsPerChar > 0 {
		return w.Total() * r.PixelsPerChar
	}
	return w.PixelWidth()
}

// rangeCaption describes the window position, counting rows from 1.
func rangeCaption(win *grid.Window, total int) string {
	if win.VisibleCount() == 0 {
		return "0 rows"
	}
	return fmt.Sprintf("rows %d-%d of %d", win.TopIndex()+1, win.TopIndex()+win.VisibleCount(), total)
}
