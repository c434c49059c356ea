// Package action emits GitHub Actions workflow commands and reads the
// Actions runtime context from the environment.
package action

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Level is the severity of a workflow command
type Level string

const (
	LevelDebug   Level = "debug"
	LevelNotice  Level = "notice"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Format selects how commands are rendered
type Format int

const (
	// FormatWorkflow renders `::level::message`, understood by the Actions runner
	FormatWorkflow Format = iota
	// FormatPlain renders `level: message` for people reading a terminal
	FormatPlain
)

// Notifier writes leveled notices to the invoking CI system
type Notifier struct {
	out    io.Writer
	format Format
}

// NewNotifier creates a notifier writing to out in the given format
func NewNotifier(out io.Writer, format Format) *Notifier {
	if out == nil {
		out = os.Stdout
	}
	return &Notifier{out: out, format: format}
}

// DetectFormat picks the workflow format under GitHub Actions, and the plain
// format when out is an interactive terminal outside of Actions
func DetectFormat(out io.Writer, vars *Variables) Format {
	if vars != nil && vars.GitHubActions {
		return FormatWorkflow
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatPlain
	}
	return FormatWorkflow
}

// Send writes a single command
func (n *Notifier) Send(level Level, message string) {
	switch n.format {
	case FormatPlain:
		fmt.Fprintf(n.out, "%s: %s\n", level, message)
	default:
		fmt.Fprintf(n.out, "::%s::%s\n", level, escapeData(message))
	}
}

func (n *Notifier) Debug(message string)   { n.Send(LevelDebug, message) }
func (n *Notifier) Notice(message string)  { n.Send(LevelNotice, message) }
func (n *Notifier) Warning(message string) { n.Send(LevelWarning, message) }
func (n *Notifier) Error(message string)   { n.Send(LevelError, message) }

// escapeData encodes the characters the runner treats as command delimiters
// https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}
