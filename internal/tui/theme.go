package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the workspace view. Colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Node kinds.
	DirectoryColor lipgloss.Color
	PreviewedColor lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Notices.
	NoticeColor lipgloss.Color
	ErrorColor  lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("237"),
	SelectedForeground: lipgloss.Color("255"),
	DirectoryColor:     lipgloss.Color("75"),
	PreviewedColor:     lipgloss.Color("114"),
	HeaderForeground:   lipgloss.Color("81"),
	BorderColor:        lipgloss.Color("240"),
	HelpText:           lipgloss.Color("241"),
	NoticeColor:        lipgloss.Color("179"),
	ErrorColor:         lipgloss.Color("203"),
}
