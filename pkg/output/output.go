// Package output provides terminal output helpers for the threatmesh CLI.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32;1m"
	ansiRed    = "\033[31;1m"
	ansiCyan   = "\033[36m"
	ansiYellow = "\033[33m"
)

// colorize wraps s in the given ANSI code unless NO_COLOR is set.
func colorize(code, s string) string {
	if os.Getenv("NO_COLOR") != "" {
		return s
	}
	return code + s + ansiReset
}

func Success(format string, a ...interface{}) {
	fmt.Println(colorize(ansiGreen, "✓ "+fmt.Sprintf(format, a...)))
}

func Error(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, colorize(ansiRed, "✗ "+fmt.Sprintf(format, a...)))
}

func Info(format string, a ...interface{}) {
	fmt.Println(colorize(ansiCyan, fmt.Sprintf(format, a...)))
}

func Warn(format string, a ...interface{}) {
	fmt.Println(colorize(ansiYellow, "⚠ "+fmt.Sprintf(format, a...)))
}

// JSON pretty-prints v to stdout.
func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders rows with padded columns.
type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, 0, len(cells))
		for i, cell := range cells {
			if i < len(widths) {
				parts = append(parts, pad(cell, widths[i]))
			}
		}
		fmt.Println(strings.Join(parts, "  "))
	}

	printRow(t.headers)
	separators := make([]string, len(t.headers))
	for i := range t.headers {
		separators[i] = strings.Repeat("-", widths[i])
	}
	printRow(separators)
	for _, row := range t.rows {
		printRow(row)
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
