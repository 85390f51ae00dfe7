// Package output handles tidy's terminal output: plain and coloured
// messages, a transient status line and confirmation prompts.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	Reader    io.Reader // Answers to prompts (default: os.Stdin)
	IsTTY     bool      // Whether output is a terminal
	Theme     string    // dark, light or none
}

// Output handles formatted output with verbose and status-line support.
type Output struct {
	config       Config
	palette      palette
	in           *bufio.Reader
	statusActive bool
	statusMu     sync.Mutex
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	if config.Reader == nil {
		config.Reader = os.Stdin
	}
	return &Output{
		config:  config,
		palette: newPalette(config.Theme, config.IsTTY),
		in:      bufio.NewReader(config.Reader),
	}
}

// DefaultConfig returns a Config writing to the standard streams with TTY detection.
func DefaultConfig() Config {
	return Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Reader:    os.Stdin,
		IsTTY:     IsTerminal(os.Stdout),
	}
}

// IsTerminal reports whether w is a terminal. Anything other than an
// *os.File, such as a test buffer, is not.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.println(o.config.Writer, fmt.Sprintf(format, args...))
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.println(o.config.Writer, fmt.Sprintf(format, args...))
}

// Success prints a message in the success colour.
func (o *Output) Success(format string, args ...interface{}) {
	o.println(o.config.Writer, o.palette.success.Sprintf(format, args...))
}

// Warn prints a message in the warning colour.
func (o *Output) Warn(format string, args ...interface{}) {
	o.println(o.config.Writer, o.palette.warning.Sprintf(format, args...))
}

// Error prints an error message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.println(o.config.ErrWriter, o.palette.failure.Sprintf(format, args...))
}

// JSON writes v as indented JSON.
func (o *Output) JSON(v interface{}) error {
	o.ClearStatus()
	enc := json.NewEncoder(o.config.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *Output) println(w io.Writer, msg string) {
	o.ClearStatus()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

// Status shows a transient line such as "Reading folder..." while a long
// call runs. It is suppressed when not on a terminal or in verbose mode.
func (o *Output) Status(message string) {
	if !o.config.IsTTY || o.config.Verbose {
		return
	}
	o.statusMu.Lock()
	defer o.statusMu.Unlock()
	o.statusActive = true
	fmt.Fprint(o.config.Writer, "\r"+o.palette.dim.Sprint(message))
}

// ClearStatus removes the status line if one is shown.
func (o *Output) ClearStatus() {
	o.statusMu.Lock()
	defer o.statusMu.Unlock()
	if !o.statusActive {
		return
	}
	o.statusActive = false
	fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 60)+"\r")
}

// Confirm asks a yes/no question. Only "y" or "yes" (any case) confirm;
// an empty answer or end of input declines.
func (o *Output) Confirm(question string) (bool, error) {
	o.ClearStatus()
	fmt.Fprintf(o.config.Writer, "%s [y/N]: ", o.palette.heading.Sprint(question))

	answer, err := o.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	if err == io.EOF && answer == "" {
		fmt.Fprintln(o.config.Writer)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}

// IsTTY returns whether the output is a terminal.
func (o *Output) IsTTY() bool {
	return o.config.IsTTY
}
