package cli

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks"
)

func testDocument(t *testing.T) *bricks.Document {
	t.Helper()
	red := grid.Cell{Opaque: true, Color: grid.RGB{R: 255}}
	empty := grid.Cell{}
	cells := []grid.Cell{
		red, red, empty, red,
		red, red, red, red,
		empty, empty, empty, empty,
	}
	g, err := grid.New(4, 3, cells)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := bricks.Build(g, bricks.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestRowListModelNavigation(t *testing.T) {
	m := NewRowListModel("logo", testDocument(t))

	tests := []struct {
		key  string
		want int
	}{
		{"up", 0},
		{"down", 1},
		{"j", 2},
		{"down", 2},
		{"k", 1},
		{"g", 0},
		{"G", 2},
	}
	for _, tt := range tests {
		next, _ := m.Update(key(tt.key))
		m = next.(RowListModel)
		if m.Cursor != tt.want {
			t.Errorf("after %q cursor = %d, want %d", tt.key, m.Cursor, tt.want)
		}
	}
}

func TestRowListModelScrolls(t *testing.T) {
	m := NewRowListModel("logo", testDocument(t))
	m.Height = 1

	next, _ := m.Update(key("down"))
	m = next.(RowListModel)
	if got, want := m.Offset, 1; got != want {
		t.Errorf("Offset = %d, want %d", got, want)
	}
	next, _ = m.Update(key("up"))
	m = next.(RowListModel)
	if got, want := m.Offset, 0; got != want {
		t.Errorf("Offset = %d, want %d", got, want)
	}
}

func TestRowListModelQuit(t *testing.T) {
	m := NewRowListModel("logo", testDocument(t))
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestRowListModelView(t *testing.T) {
	m := NewRowListModel("logo", testDocument(t))
	view := m.View()
	for _, want := range []string{"logo", "Row", "[1/3]", "#ff0000"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q", want)
		}
	}

	next, _ := m.Update(key("G"))
	if !strings.Contains(next.View(), "transparent row") {
		t.Error("empty row should be labeled transparent")
	}
}

func TestWritePlainRows(t *testing.T) {
	var buf bytes.Buffer
	if err := writePlainRows(&buf, testDocument(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"auto mode, 4x3 grid", "row 0:", "row 2: 0 bricks", "class"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestInspectPlain(t *testing.T) {
	c := newTestCLI(t, "logo.png")
	var out bytes.Buffer
	if err := execute(c, &out, "inspect", "logo.png", "--plain", "--pixel-width", "4", "--no-cache"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "row 1:") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestContrast(t *testing.T) {
	tests := []struct {
		c    grid.RGB
		want string
	}{
		{grid.RGB{}, "#ffffff"},
		{grid.RGB{R: 255, G: 255, B: 255}, "#000000"},
		{grid.RGB{R: 255, G: 221}, "#000000"},
		{grid.RGB{B: 200}, "#ffffff"},
	}
	for _, tt := range tests {
		if got := contrast(tt.c); got != tt.want {
			t.Errorf("contrast(%v) = %s, want %s", tt.c, got, tt.want)
		}
	}
}
