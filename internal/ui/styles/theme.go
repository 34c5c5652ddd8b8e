package styles

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

//go:embed theme.toml
var defaultThemeTOML string

// Palette names the colors of one rendering target. Empty means "no color".
type Palette struct {
	RowEven     string `toml:"row_even"`
	RowOdd      string `toml:"row_odd"`
	RowHover    string `toml:"row_hover"`
	RowSelected string `toml:"row_selected"`
	Header      string `toml:"header"`
	Index       string `toml:"index"`
	Separator   string `toml:"separator"`
	Cursor      string `toml:"cursor"`
}

func (p *Palette) fields() map[string]*string {
	return map[string]*string{
		"row_even":     &p.RowEven,
		"row_odd":      &p.RowOdd,
		"row_hover":    &p.RowHover,
		"row_selected": &p.RowSelected,
		"header":       &p.Header,
		"index":        &p.Index,
		"separator":    &p.Separator,
		"cursor":       &p.Cursor,
	}
}

// Theme is the style resource of the grid: one palette for the terminal,
// one for HTML export, and the shared cell settings.
type Theme struct {
	SortMarker  string  `toml:"sort_marker"`
	CellPadding string  `toml:"cell_padding"`
	Terminal    Palette `toml:"terminal"`
	HTML        Palette `toml:"html"`
}

// DefaultTheme decodes the embedded theme.
func DefaultTheme() Theme {
	var t Theme
	if _, err := toml.Decode(defaultThemeTOML, &t); err != nil {
		panic(fmt.Sprintf("embedded theme is invalid: %v", err))
	}
	return t
}

// ThemeKeys lists every key accepted by Apply, sorted.
func ThemeKeys() []string {
	keys := []string{"sort_marker", "cell_padding"}
	var p Palette
	for name := range p.fields() {
		keys = append(keys, "terminal."+name, "html."+name)
	}
	sort.Strings(keys)
	return keys
}

// Apply overrides single entries. Keys are "sort_marker", "cell_padding" or
// "<terminal|html>.<entry>".
func (t *Theme) Apply(overrides map[string]string) error {
	for k, v := range overrides {
		if err := t.set(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (t *Theme) set(key, value string) error {
	switch key {
	case "sort_marker":
		t.SortMarker = value
		return nil
	case "cell_padding":
		t.CellPadding = value
		return nil
	}

	target, entry, ok := strings.Cut(key, ".")
	if !ok {
		return fmt.Errorf("unknown theme key %q", key)
	}
	var p *Palette
	switch target {
	case "terminal":
		p = &t.Terminal
	case "html":
		p = &t.HTML
	default:
		return fmt.Errorf("unknown theme key %q", key)
	}
	field, ok := p.fields()[entry]
	if !ok {
		return fmt.Errorf("unknown theme key %q", key)
	}
	*field = value
	return nil
}

// GridStyles are the lipgloss styles the terminal grid renders with.
type GridStyles struct {
	RowEven     lipgloss.Style
	RowOdd      lipgloss.Style
	RowHover    lipgloss.Style
	RowSelected lipgloss.Style
	Header      lipgloss.Style
	HeaderSort  lipgloss.Style
	Index       lipgloss.Style
	Separator   lipgloss.Style
	Cursor      lipgloss.Style
}

func background(c string) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c != "" {
		s = s.Background(lipgloss.Color(c))
	}
	return s
}

func foreground(c string) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c != "" {
		s = s.Foreground(lipgloss.Color(c))
	}
	return s
}

// GridStyles builds the terminal styles from the theme. Without color the
// hover and selection fall back to reverse video and underline.
func (t Theme) GridStyles() GridStyles {
	if NoColor() {
		plain := lipgloss.NewStyle()
		return GridStyles{
			RowEven:     plain,
			RowOdd:      plain,
			RowHover:    plain.Reverse(true),
			RowSelected: plain.Underline(true),
			Header:      plain.Bold(true),
			HeaderSort:  plain.Bold(true).Underline(true),
			Index:       plain,
			Separator:   plain,
			Cursor:      plain.Bold(true).Reverse(true),
		}
	}

	p := t.Terminal
	return GridStyles{
		RowEven:     background(p.RowEven),
		RowOdd:      background(p.RowOdd),
		RowHover:    background(p.RowHover).Foreground(TextPrimary),
		RowSelected: background(p.RowSelected).Foreground(TextPrimary),
		Header:      foreground(p.Header).Bold(true),
		HeaderSort:  foreground(p.Cursor).Bold(true),
		Index:       foreground(p.Index).Bold(true),
		Separator:   foreground(p.Separator),
		Cursor:      foreground(p.Cursor).Bold(true).Underline(true),
	}
}
