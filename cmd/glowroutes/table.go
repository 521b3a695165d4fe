package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// isTTY reports whether stdout is a terminal.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// printTitle prints a heading, styled on a terminal.
func printTitle(title string) {
	if isTTY() {
		fmt.Println(titleStyle.Render(title))
	} else {
		fmt.Println(title)
	}
	fmt.Println()
}

// printTable renders rows as a bordered table on a terminal and as
// tab-separated text otherwise, so output stays scriptable.
func printTable(headers []string, rows [][]string) {
	if !isTTY() {
		fmt.Println(strings.Join(headers, "\t"))
		for _, r := range rows {
			fmt.Println(strings.Join(r, "\t"))
		}
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	out := t.Render()
	// Squeeze into narrow terminals
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && lipgloss.Width(out) > w {
		out = t.Width(w).Render()
	}
	fmt.Println(out)
}
