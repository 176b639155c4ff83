package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Interactive reports whether the wizard can prompt on f. CI runs, NO_INTERACTION
// and dumb terminals are never interactive.
func Interactive(f *os.File) bool {
	if truthy("NO_INTERACTION") || truthy("CI") {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("TERM")), "dumb") {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ConfigureColors disables styling when the output is not a terminal.
func ConfigureColors(interactive bool) {
	if interactive {
		lipgloss.SetColorProfile(termenv.ColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

func truthy(env string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(env)))
	return err == nil && v
}
