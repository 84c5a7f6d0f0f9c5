package ui

import "github.com/charmbracelet/lipgloss"

var TitleStyle = lipgloss.NewStyle().Inline(true).Bold(true).Foreground(lipgloss.Color("252")).Render
var HelpStyle = lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("241")).Render
var HeadingStyle = lipgloss.NewStyle().Inline(true).Bold(true).Foreground(lipgloss.Color("111")).Render
var BehindStyle = lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("214")).Render
var AheadStyle = lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("78")).Render
var ErrorStyle = lipgloss.NewStyle().Inline(true).Bold(true).Foreground(lipgloss.Color("203")).Render
