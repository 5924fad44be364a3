// Package logging writes colored, timestamped log lines to the console.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

var (
	stamp = color.New(color.FgHiBlack)
	debug = color.New(color.FgCyan)
	info  = color.New(color.FgGreen)
	warn  = color.New(color.FgYellow)
	fail  = color.New(color.FgRed)
)

// Logger prints INFO and DEBUG lines to out, WARN and ERROR lines to errOut.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	quiet   bool
	verbose bool
	now     func() time.Time
}

// Options controls which levels are printed.
type Options struct {
	// Quiet hides INFO lines.
	Quiet bool
	// Verbose shows DEBUG lines.
	Verbose bool
}

// New returns a logger on stdout and stderr.
func New(opts Options) *Logger {
	return NewWithWriters(os.Stdout, os.Stderr, opts)
}

// NewWithWriters returns a logger on the given writers.
func NewWithWriters(out, errOut io.Writer, opts Options) *Logger {
	return &Logger{
		out:     out,
		errOut:  errOut,
		quiet:   opts.Quiet,
		verbose: opts.Verbose,
		now:     time.Now,
	}
}

// Discard returns a logger that prints nothing.
func Discard() *Logger {
	return NewWithWriters(io.Discard, io.Discard, Options{})
}

func (l *Logger) Debug(format string, args ...any) {
	if l.verbose {
		l.write(l.out, debug, "DEBUG", format, args)
	}
}

func (l *Logger) Info(format string, args ...any) {
	if !l.quiet {
		l.write(l.out, info, "INFO", format, args)
	}
}

func (l *Logger) Warn(format string, args ...any) {
	l.write(l.errOut, warn, "WARN", format, args)
}

func (l *Logger) Error(format string, args ...any) {
	l.write(l.errOut, fail, "ERROR", format, args)
}

func (l *Logger) write(w io.Writer, c *color.Color, label, format string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(w, "%s %s %s\n",
		stamp.Sprint(l.now().UTC().Format(timeLayout)),
		c.Sprintf("%5s", label),
		fmt.Sprintf(format, args...))
}
