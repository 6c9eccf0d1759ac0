package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/pipeline"
)

// uiOut receives all human-facing status lines. Logs go to stderr instead.
var uiOut io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// status line markers
var (
	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	markError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	markWarning = lipgloss.NewStyle().Foreground(colorYellow).Render("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
)

func printLine(mark, format string, args ...any) {
	fmt.Fprintln(uiOut, mark+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { printLine(markSuccess, format, args...) }
func printError(format string, args ...any)   { printLine(markError, format, args...) }
func printInfo(format string, args ...any)    { printLine(markInfo, format, args...) }

func printWarning(format string, args ...any) {
	fmt.Fprintln(uiOut, markWarning+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// statsLine summarizes a render: grid size, brick count and whether the
// result came from the cache. A zero grid is left out, which happens when a
// cached artifact was served without building.
func statsLine(gridW, gridH, bricks int, cached bool) string {
	var parts []string
	if gridW > 0 && gridH > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d grid", gridW, gridH))
	}
	if bricks > 0 {
		parts = append(parts, fmt.Sprintf("%d bricks", bricks))
	}
	if cached {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGreen).Render("cached"))
	} else {
		parts = append(parts, "fresh")
	}
	return "  " + StyleDim.Render(strings.Join(parts, " · "))
}

// printRendered reports one rendered input and the files written for it.
func printRendered(input string, written []string, result *pipeline.Result) {
	printSuccess("Rendered %s", StyleHighlight.Render(input))
	for _, path := range written {
		fmt.Fprintln(uiOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
	}
	fmt.Fprintln(uiOut, statsLine(result.Stats.GridWidth, result.Stats.GridHeight, result.Stats.Bricks,
		result.CacheInfo.RenderHit || result.CacheInfo.RasterHit))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
