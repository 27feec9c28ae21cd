package main

import "github.com/charmbracelet/lipgloss"

// The ok/fail/label palette mirrors the tool output the pipelines exist to
// check: green ok, red fail, yellow labels.
var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func okMark() string   { return okStyle.Render("ok") }
func failMark() string { return failStyle.Render("fail") }
