package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/segment"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// RowListModel - Interactive row browser
// =============================================================================

// RowListModel is the bubbletea model for browsing the rows of a document.
type RowListModel struct {
	Name   string
	Doc    *bricks.Document
	Cursor int
	Height int
	Offset int
}

// NewRowListModel creates a row browser for doc.
func NewRowListModel(name string, doc *bricks.Document) RowListModel {
	return RowListModel{
		Name:   name,
		Doc:    doc,
		Height: 15,
	}
}

func (m RowListModel) Init() tea.Cmd {
	return nil
}

func (m RowListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	last := len(m.Doc.Rows) - 1
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < last {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(last, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

func (m RowListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Name))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s mode · %dx%d grid · %d bricks",
		m.Doc.Mode, m.Doc.Plan.GridWidth, m.Doc.Plan.GridHeight, m.Doc.Stats.Bricks)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Doc.Rows))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Doc.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", r.Row),
			fmt.Sprintf("%d", len(r.Segments)),
			classList(r.Segments),
			rowPreview(r.Segments),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Row", "Bricks", "Classes", "Preview").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if len(m.Doc.Rows) > 0 {
		b.WriteString(m.detail(m.Doc.Rows[m.Cursor]))
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Doc.Rows))))
	return b.String()
}

// detail lists the segments of one row.
func (m RowListModel) detail(r segment.RowPlan) string {
	var b strings.Builder
	if len(r.Segments) == 0 {
		b.WriteString(listDimStyle.Render("  (transparent row)"))
		b.WriteString("\n")
		return b.String()
	}
	for _, s := range r.Segments {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(hexColor(s.Color))).Render("  ")
		fmt.Fprintf(&b, "  %s %s\n", swatch, listNormalStyle.Render(segmentLine(s)))
	}
	return b.String()
}

// =============================================================================
// Plain output
// =============================================================================

// writePlainRows prints every row and its segments without styling.
func writePlainRows(w io.Writer, doc *bricks.Document) error {
	if _, err := fmt.Fprintf(w, "%s mode, %dx%d grid, %d bricks, %d merges\n",
		doc.Mode, doc.Plan.GridWidth, doc.Plan.GridHeight, doc.Stats.Bricks, doc.Stats.Merges); err != nil {
		return err
	}
	for _, r := range doc.Rows {
		if _, err := fmt.Fprintf(w, "row %d: %d bricks [%s]\n", r.Row, len(r.Segments), classList(r.Segments)); err != nil {
			return err
		}
		for _, s := range r.Segments {
			if _, err := fmt.Fprintf(w, "  %s\n", segmentLine(s)); err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func segmentLine(s segment.Segment) string {
	return fmt.Sprintf("[%d,%d) class %d %s", s.Start, s.End(), s.Class, hexColor(s.Color))
}

func classList(segs []segment.Segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = fmt.Sprintf("%d", s.Class)
	}
	return strings.Join(parts, " ")
}

// rowPreview draws each segment as a bracketed run two characters per cell
// on its own color.
func rowPreview(segs []segment.Segment) string {
	var b strings.Builder
	col := 0
	for _, s := range segs {
		if s.Start > col {
			b.WriteString(strings.Repeat("  ", s.Start-col))
		}
		body := "[" + strings.Repeat("=", 2*int(s.Class)-2) + "]"
		b.WriteString(lipgloss.NewStyle().
			Background(lipgloss.Color(hexColor(s.Color))).
			Foreground(lipgloss.Color(contrast(s.Color))).
			Render(body))
		col = s.End()
	}
	return b.String()
}

func hexColor(c grid.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// contrast picks black or white text for a background color.
func contrast(c grid.RGB) string {
	luma := 299*int(c.R) + 587*int(c.G) + 114*int(c.B)
	if luma > 128*1000 {
		return "#000000"
	}
	return "#ffffff"
}
