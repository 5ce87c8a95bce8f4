package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	commandStyle = lipgloss.NewStyle().Faint(true)
	detailStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// logger centralises all user-facing output: formatting, verbosity
// filtering, and color. Status output goes to out, errors to err.
type logger struct {
	out     io.Writer
	err     io.Writer
	verbose bool
	styled  bool

	headings int
}

func newLogger(out, err io.Writer) *logger {
	styled := false
	if f, ok := out.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &logger{out: out, err: err, styled: styled}
}

func (l *logger) render(s lipgloss.Style, text string) string {
	if !l.styled {
		return text
	}
	return s.Render(text)
}

// heading prints a section heading, separated from the previous section
// by a blank line.
func (l *logger) heading(format string, args ...any) {
	if l.headings > 0 {
		fmt.Fprintln(l.out)
	}
	l.headings++
	fmt.Fprintln(l.out, l.render(headingStyle, "# "+fmt.Sprintf(format, args...)))
}

// command echoes an external command line, both when it is about to run
// and when a dry run only renders it.
func (l *logger) command(cmd string) {
	fmt.Fprintln(l.out, l.render(commandStyle, "> "+cmd))
}

// stdin echoes input piped to a command, verbose only.
func (l *logger) stdin(text string) {
	if !l.verbose {
		return
	}
	fmt.Fprintln(l.out, "stdin:")
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(l.out, "  %s\n", line)
	}
}

func (l *logger) detail(key string, value any) {
	fmt.Fprintf(l.out, "%s: %v\n", l.render(detailStyle, key), value)
}

func (l *logger) info(format string, args ...any) {
	fmt.Fprintf(l.out, format+"\n", args...)
}

func (l *logger) verbosef(format string, args ...any) {
	if !l.verbose {
		return
	}
	fmt.Fprintf(l.out, format+"\n", args...)
}

func (l *logger) elapsed(d time.Duration) {
	fmt.Fprintf(l.out, "elapsed: %s\n", d.Round(time.Millisecond))
}

func (l *logger) error(format string, args ...any) {
	fmt.Fprintln(l.err, l.render(errorStyle, fmt.Sprintf(format, args...)))
}
