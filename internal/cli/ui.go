package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette
// =============================================================================

// Terminal colours. The accent pair mirrors the default overlay theme so the
// CLI and the preview read as one tool.
var (
	colorCyan  = lipgloss.Color("37")
	colorGreen = lipgloss.Color("41")  // Y axis
	colorRed   = lipgloss.Color("203") // X axis
	colorAmber = lipgloss.Color("214")
	colorBlue  = lipgloss.Color("69") // origin accent
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("247") // grid lines
	colorDim   = lipgloss.Color("240")
)

var (
	// StyleTitle is used for headings and the preview title.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// statusKind selects the icon and colour of a status line.
type statusKind int

const (
	statusSuccess statusKind = iota
	statusError
	statusWarning
	statusInfo
)

var statusIcons = [...]struct {
	icon  string
	style lipgloss.Style
}{
	statusSuccess: {"✓", lipgloss.NewStyle().Foreground(colorGreen)},
	statusError:   {"✗", lipgloss.NewStyle().Foreground(colorRed)},
	statusWarning: {"!", lipgloss.NewStyle().Foreground(colorAmber)},
	statusInfo:    {"›", lipgloss.NewStyle().Foreground(colorGray)},
}

// stdout receives all human-facing status output.
var stdout io.Writer = os.Stdout

// =============================================================================
// Status Output
// =============================================================================

func printStatus(kind statusKind, msg string) {
	s := statusIcons[kind]
	if kind == statusWarning {
		msg = StyleWarning.Render(msg)
	}
	fmt.Fprintln(stdout, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	printStatus(statusSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printStatus(statusError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printStatus(statusWarning, fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	printStatus(statusInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints one written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints the element summary of a render:
//
//	944 elements · 722/182/38 per tier · fresh
func printStats(elements int, tierCounts [3]int, cached bool) {
	state := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		state = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d elements", elements)),
		StyleDim.Render(fmt.Sprintf("%d/%d/%d per tier", tierCounts[0], tierCounts[1], tierCounts[2])),
		state,
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}
