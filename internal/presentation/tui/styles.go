package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("43")
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	dim    = lipgloss.Color("243")
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(dim)
	problemStyle = lipgloss.NewStyle().Foreground(red)
	successStyle = lipgloss.NewStyle().Foreground(green)
)
