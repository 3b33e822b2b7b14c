// Package logger provides the console and no-op ports.Logger implementations.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"
	"github.com/user/framegrab/pkg/ports"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// stream is one output destination and whether it accepts color.
type stream struct {
	w     io.Writer
	color bool
}

// ConsoleLogger translates message keys with go-l10n and prints them.
// Debug and info go to out, warn and error to errOut.
type ConsoleLogger struct {
	level     ports.LogLevel
	component string
	out       stream
	errOut    stream
}

// NewConsole creates a logger on stdout and stderr. Each stream is colored
// when it is a terminal and NO_COLOR is unset.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	return &ConsoleLogger{
		level:  level,
		out:    stream{w: os.Stdout, color: colorable(os.Stdout)},
		errOut: stream{w: os.Stderr, color: colorable(os.Stderr)},
	}
}

// NewWriter creates a logger on the given writers without color.
func NewWriter(level ports.LogLevel, out, errOut io.Writer) *ConsoleLogger {
	return &ConsoleLogger{
		level:  level,
		out:    stream{w: out},
		errOut: stream{w: errOut},
	}
}

func colorable(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Level returns the minimum level that is printed.
func (l *ConsoleLogger) Level() ports.LogLevel {
	return l.level
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	l.log(ports.LevelDebug, msg, args...)
}

func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	l.log(ports.LevelInfo, msg, args...)
}

func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	l.log(ports.LevelWarn, msg, args...)
}

func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	l.log(ports.LevelError, msg, args...)
}

// WithComponent returns a logger tagged with component. Nested components
// are joined with a slash, e.g. "extract/decode".
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	c := *l
	if l.component != "" {
		c.component = l.component + "/" + component
	} else {
		c.component = component
	}
	return &c
}

func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args ...interface{}) {
	if level < l.level {
		return
	}

	s := l.out
	if level >= ports.LevelWarn {
		s = l.errOut
	}
	fmt.Fprintln(s.w, l.format(level, l10n.F(msg, args...), s.color))
}

func (l *ConsoleLogger) format(level ports.LogLevel, text string, color bool) string {
	if !color {
		if l.component == "" {
			return text
		}
		return "[" + l.component + "] " + text
	}

	if l.component != "" {
		text = colorCyan + "[" + l.component + "]" + colorReset + " " + text
	}
	switch level {
	case ports.LevelDebug:
		return colorGray + text + colorReset
	case ports.LevelWarn:
		return colorYellow + text + colorReset
	case ports.LevelError:
		return colorRed + text + colorReset
	default:
		return text
	}
}
