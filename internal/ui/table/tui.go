package table

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/imgajeed76/dfview/internal/dataset"
	"github.com/imgajeed76/dfview/internal/grid"
	"github.com/imgajeed76/dfview/internal/ui/styles"
)

// ═══════════════════════════════════════════════════════════════════════════
// Layout
// ═══════════════════════════════════════════════════════════════════════════

const (
	titleLine     = 0
	headerLine    = 1
	separatorLine = 2
	bodyTop       = 3

	// columnGap is the number of spaces between cells.
	columnGap = 1
)

// Exit mode: what to do after quitting the viewer
type exitMode int

const (
	exitNormal exitMode = iota
	exitJSON
	exitRaw
	exitPlain
)

// ═══════════════════════════════════════════════════════════════════════════
// Model
// ═══════════════════════════════════════════════════════════════════════════

type viewerModel struct {
	grid       *grid.Grid
	styles     styles.GridStyles
	marker     string
	wheelDelta int
	log        *slog.Logger

	colCursor int // selected column
	scrollX   int // horizontal scroll offset in characters
	width     int // terminal width
	height    int // terminal height
	ready     bool
	help      help.Model
	exitMode  exitMode // how to exit (for re-printing data)

	// Status message (flash notification, e.g. after yank)
	statusMsg   string    // message to show in footer
	statusUntil time.Time // when to clear the message
}

func newViewerModel(g *grid.Grid, opts DisplayOptions) viewerModel {
	wheel := opts.WheelDelta
	if wheel <= 0 {
		wheel = grid.ScrollSensitivity
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return viewerModel{
		grid:       g,
		styles:     opts.Theme.GridStyles(),
		marker:     opts.Theme.SortMarker,
		wheelDelta: wheel,
		log:        logger,
		help:       help.New(),
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Key Bindings
// ═══════════════════════════════════════════════════════════════════════════

type viewerKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	Sort        key.Binding
	SortIndex   key.Binding
	Select      key.Binding
	YankCell    key.Binding
	YankRow     key.Binding
	ExportJSON  key.Binding
	ExportRaw   key.Binding
	ExportPlain key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var viewerKeys = viewerKeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
	Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Home:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first row")),
	End:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last row")),
	Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by column")),
	SortIndex:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "sort by index")),
	Select:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select row")),
	YankCell:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
	YankRow:     key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row")),
	ExportJSON:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "print as JSON")),
	ExportRaw:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "print raw")),
	ExportPlain: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "print table")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

func (k viewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Left, k.Right, k.Sort, k.SortIndex, k.Help, k.Quit}
}

func (k viewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Left, k.Right, k.Sort, k.SortIndex, k.Select},
		{k.YankCell, k.YankRow, k.ExportJSON, k.ExportRaw, k.ExportPlain},
		{k.Help, k.Quit},
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Entry Point
// ═══════════════════════════════════════════════════════════════════════════

// RunViewer launches the interactive viewer. It blocks until the user
// quits. If the user requests an export (J/R/P), the data is printed to
// stdout, in the order the user left it, after the viewer exits.
func RunViewer(ds *dataset.Dataset, opts DisplayOptions) error {
	g := grid.New(ds, opts.Grid)
	m := newViewerModel(g, opts)

	programOpts := []tea.ProgramOption{tea.WithMouseAllMotion()}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, programOpts...)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(viewerModel)
	if !ok {
		return nil
	}
	switch fm.exitMode {
	case exitJSON:
		return PrintJSON(os.Stdout, ds)
	case exitRaw:
		return PrintRaw(os.Stdout, ds)
	case exitPlain:
		return PrintPlain(os.Stdout, ds)
	}

	if opts.Pick {
		if row, ok := g.SelectedRow(); ok {
			fmt.Fprintln(os.Stdout, rowText(row))
		}
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Bubble Tea Interface
// ═══════════════════════════════════════════════════════════════════════════

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.clampScrollX()

	case statusClearMsg:
		// Clear the flash message if it has expired
		if !m.statusUntil.IsZero() && time.Now().After(m.statusUntil) {
			m.statusMsg = ""
			m.statusUntil = time.Time{}
		}

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m viewerModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	win := m.grid.Window()
	page := max(1, win.VisibleCount())

	switch {
	case key.Matches(msg, viewerKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, viewerKeys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, viewerKeys.Up):
		win.ScrollRows(-1)

	case key.Matches(msg, viewerKeys.Down):
		win.ScrollRows(1)

	case key.Matches(msg, viewerKeys.PageUp):
		win.ScrollRows(-page)

	case key.Matches(msg, viewerKeys.PageDown):
		win.ScrollRows(page)

	case key.Matches(msg, viewerKeys.Home):
		win.JumpTo(0)
		m.scrollX = 0

	case key.Matches(msg, viewerKeys.End):
		win.JumpTo(win.MaxTop())

	case key.Matches(msg, viewerKeys.Left):
		if m.colCursor > 0 {
			m.colCursor--
			m.ensureColVisible()
		}

	case key.Matches(msg, viewerKeys.Right):
		if m.colCursor < len(m.grid.Dataset().Columns())-1 {
			m.colCursor++
			m.ensureColVisible()
		}

	case key.Matches(msg, viewerKeys.Sort):
		return m, m.sortColumn(m.colCursor)

	case key.Matches(msg, viewerKeys.SortIndex):
		m.grid.Header().ClickIndex()
		return m, m.setStatus("Sorted by index")

	case key.Matches(msg, viewerKeys.Select):
		slot := max(0, win.HoveredSlot())
		if k, ok := m.grid.Select(slot); ok {
			return m, m.setStatus(fmt.Sprintf("Selected row %d", k))
		}

	case key.Matches(msg, viewerKeys.YankCell):
		return m, m.yankCell()

	case key.Matches(msg, viewerKeys.YankRow):
		return m, m.yankRow()

	case key.Matches(msg, viewerKeys.ExportJSON):
		m.exitMode = exitJSON
		return m, tea.Quit

	case key.Matches(msg, viewerKeys.ExportRaw):
		m.exitMode = exitRaw
		return m, tea.Quit

	case key.Matches(msg, viewerKeys.ExportPlain):
		m.exitMode = exitPlain
		return m, tea.Quit
	}

	return m, nil
}

// updateMouse translates terminal mouse events into grid events: the wheel
// scrolls, motion over the body hovers, motion elsewhere leaves, and left
// clicks sort (header) or select (body).
func (m viewerModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	win := m.grid.Window()

	switch {
	case msg.Button == tea.MouseButtonWheelDown:
		win.Scroll(m.wheelDelta)

	case msg.Button == tea.MouseButtonWheelUp:
		win.Scroll(-m.wheelDelta)

	case msg.Action == tea.MouseActionMotion:
		if m.inBody(msg.Y) {
			win.Hover(msg.Y-bodyTop, win.VisibleCount())
		} else {
			win.LeaveHover()
		}

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		switch {
		case msg.Y == headerLine:
			col, ok := m.grid.Header().HitTest(msg.X+m.scrollX, columnGap)
			if !ok {
				return m, nil
			}
			if col == grid.IndexColumn {
				m.grid.Header().ClickIndex()
				return m, m.setStatus("Sorted by index")
			}
			m.colCursor = col
			return m, m.sortColumn(col)

		case m.inBody(msg.Y):
			if k, ok := m.grid.Select(msg.Y - bodyTop); ok {
				return m, m.setStatus(fmt.Sprintf("Selected row %d", k))
			}
		}
	}

	return m, nil
}

func (m viewerModel) inBody(y int) bool {
	return y >= bodyTop && y < bodyTop+m.grid.Window().VisibleCount()
}

func (m *viewerModel) sortColumn(col int) tea.Cmd {
	cols := m.grid.Dataset().Columns()
	if col < 0 || col >= len(cols) {
		return nil
	}
	if err := m.grid.Header().ClickColumn(col); err != nil {
		m.log.Debug("sort failed", "column", col, "error", err)
		return m.setStatus(fmt.Sprintf("sort error: %s", err))
	}
	return m.setStatus(fmt.Sprintf("Sorted by %s", cols[col]))
}

// ═══════════════════════════════════════════════════════════════════════════
// Status Message (flash notification)
// ═══════════════════════════════════════════════════════════════════════════

type statusClearMsg struct{}

const statusDuration = 2 * time.Second

// setStatus sets a temporary status message that auto-clears.
func (m *viewerModel) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusUntil = time.Now().Add(statusDuration)
	return tea.Tick(statusDuration, func(t time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// Clipboard (yank)
// ═══════════════════════════════════════════════════════════════════════════

// targetRow is the selected row, or the top visible row when nothing is
// selected.
func (m viewerModel) targetRow() (dataset.Row, bool) {
	if row, ok := m.grid.SelectedRow(); ok {
		return row, true
	}
	visible := m.grid.Window().Visible()
	if len(visible) == 0 || !visible[0].Bound() {
		return dataset.Row{}, false
	}
	return m.grid.Dataset().Row(visible[0].Row), true
}

func rowText(row dataset.Row) string {
	cells := make([]string, len(row.Values))
	for i, v := range row.Values {
		cells[i] = v.String()
	}
	return strings.Join(cells, "\t")
}

// yankCell copies the cell under the column cursor to the system clipboard.
func (m *viewerModel) yankCell() tea.Cmd {
	row, ok := m.targetRow()
	if !ok || m.colCursor >= len(row.Values) {
		return nil
	}
	val := row.Values[m.colCursor].String()
	if err := clipboard.WriteAll(val); err != nil {
		return m.setStatus(fmt.Sprintf("clipboard error: %s", err))
	}
	return m.setStatus(fmt.Sprintf("Copied: %s", truncate(val, 40)))
}

// yankRow copies the entire row (tab-separated) to the clipboard.
func (m *viewerModel) yankRow() tea.Cmd {
	row, ok := m.targetRow()
	if !ok {
		return nil
	}
	if err := clipboard.WriteAll(rowText(row)); err != nil {
		return m.setStatus(fmt.Sprintf("clipboard error: %s", err))
	}
	return m.setStatus(fmt.Sprintf("Copied row %d (%d columns)", row.Key, len(row.Values)))
}

// ═══════════════════════════════════════════════════════════════════════════
// Horizontal Scroll
// ═══════════════════════════════════════════════════════════════════════════

func (m viewerModel) viewportWidth() int {
	return max(1, m.width-1)
}

func (m viewerModel) maxScrollX() int {
	return max(0, m.grid.Widths().LineWidth(columnGap)-m.viewportWidth())
}

func (m *viewerModel) clampScrollX() {
	m.scrollX = min(max(0, m.scrollX), m.maxScrollX())
}

// ensureColVisible scrolls horizontally so the cursor column is on screen.
// The index column stays part of the scrolled line, as in the header.
func (m *viewerModel) ensureColVisible() {
	offsets := m.grid.Widths().Offsets(columnGap)
	start := offsets[m.colCursor+1]
	end := start + m.grid.Widths().Columns[m.colCursor]
	vw := m.viewportWidth()

	switch {
	case start < m.scrollX:
		m.scrollX = start
	case end > m.scrollX+vw:
		m.scrollX = end - vw
		if m.scrollX > start {
			m.scrollX = start
		}
	}
	m.clampScrollX()
}

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

func (m viewerModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder
	ds := m.grid.Dataset()
	win := m.grid.Window()

	title := fmt.Sprintf("%s: %d rows, %d columns", ds.Name(), ds.Len(), len(ds.Columns()))
	if sc := m.grid.SortColumn(); sc != "" {
		title += "  sorted by " + sc
	}
	sb.WriteString(styles.Title(title))
	sb.WriteString("\n")

	sb.WriteString(m.cut(m.headerLine()))
	sb.WriteString("\n")
	sb.WriteString(m.cut(m.separatorLine()))
	sb.WriteString("\n")

	for _, v := range win.Visible() {
		sb.WriteString(m.cut(m.rowLine(v)))
		sb.WriteString("\n")
	}

	// Position and scroll indicators
	indicators := []string{rangeCaption(win, ds.Len())}
	if m.scrollX > 0 {
		indicators = append(indicators, "◀")
	}
	if m.scrollX < m.maxScrollX() {
		indicators = append(indicators, "▶")
	}
	if win.TopIndex() > 0 {
		indicators = append(indicators, "▲")
	}
	if win.TopIndex() < win.MaxTop() {
		indicators = append(indicators, "▼")
	}
	sb.WriteString(styles.MutedMsg(strings.Join(indicators, " ")))
	sb.WriteString("\n")

	// Footer
	if m.statusMsg != "" && time.Now().Before(m.statusUntil) {
		sb.WriteString(styles.SuccessMsg(m.statusMsg))
	} else {
		sb.WriteString(m.help.View(viewerKeys))
	}

	return sb.String()
}

// cut keeps the part of a styled line inside the horizontal viewport.
func (m viewerModel) cut(line string) string {
	return ansi.Cut(line, m.scrollX, m.scrollX+m.viewportWidth())
}

func (m viewerModel) gap() string {
	return strings.Repeat(" ", columnGap)
}

func (m viewerModel) headerLine() string {
	widths := m.grid.Widths().All()
	sortIdx := m.grid.SortPosition()
	labels := m.grid.Header().Labels(sortIdx, m.marker)

	parts := make([]string, len(labels))
	for i, label := range labels {
		text := grid.FormatCell(label, widths[i])
		switch {
		case i == 0:
			parts[i] = m.styles.Index.Render(text)
		case i-1 == m.colCursor:
			parts[i] = m.styles.Cursor.Render(text)
		case i-1 == sortIdx:
			parts[i] = m.styles.HeaderSort.Render(text)
		default:
			parts[i] = m.styles.Header.Render(text)
		}
	}
	return strings.Join(parts, m.gap())
}

func (m viewerModel) separatorLine() string {
	widths := m.grid.Widths().All()
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w)
	}
	return m.styles.Separator.Render(strings.Join(parts, m.gap()))
}

func (m viewerModel) rowLine(v *grid.RowView) string {
	if !v.Bound() {
		return ""
	}
	style := m.styles.RowEven
	if v.Band == grid.BandOdd {
		style = m.styles.RowOdd
	}
	if m.grid.Window().IsSelected(v) {
		style = m.styles.RowSelected
	}
	if v.Highlighted {
		style = m.styles.RowHover
	}

	index := style.Inherit(m.styles.Index).Render(v.Cells[0])
	rest := style.Render(m.gap() + strings.Join(v.Cells[1:], m.gap()))
	return index + rest
}
