package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	bold   = lipgloss.NewStyle().Bold(true)
)

func printSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, green.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, yellow.Render(fmt.Sprintf(format, args...)))
}

func printError(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, red.Render(fmt.Sprintf(format, args...)))
}

func printStartupBanner(w io.Writer, addr string, formats []string) {
	check := green.Render("●")

	lines := []string{
		cyan.Bold(true).Render("Slow Query Log Parser"),
		"",
		fmt.Sprintf("  %s %s %s", check, bold.Render("Upload UI"), cyan.Render("http://"+addr+"/")),
	}
	for _, f := range formats {
		lines = append(lines, fmt.Sprintf("  %s %s %s", check, bold.Render(f), dim.Render("POST /api/"+f+"/report")))
	}
	lines = append(lines, "", dim.Render("  Press Ctrl+C to stop"))

	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
}
