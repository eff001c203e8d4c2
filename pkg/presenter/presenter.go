// Package presenter provides consistent user-facing CLI output with
// color support and a quiet mode, separate from structured logging.
package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// ColorMode controls whether output is colorized.
type ColorMode int

const (
	// ColorAuto lets the color package detect terminal capabilities.
	ColorAuto ColorMode = iota
	// ColorAlways forces colorized output.
	ColorAlways
	// ColorNever disables colorized output.
	ColorNever
)

// Presenter writes user-facing messages to a terminal.
type Presenter struct {
	output      io.Writer
	errorOutput io.Writer
	quiet       bool
}

// New creates a presenter on stdout/stderr with color mode detected
// from NO_COLOR and SKILLET_COLOR.
func New() *Presenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions creates a presenter with explicit streams and color mode.
func NewWithOptions(output, errorOutput io.Writer, mode ColorMode) *Presenter {
	switch mode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}
	return &Presenter{output: output, errorOutput: errorOutput}
}

func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}
	switch os.Getenv("SKILLET_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	}
	return ColorAuto
}

// Error writes an error with optional context to the error stream.
// Errors are never suppressed by quiet mode.
func (p *Presenter) Error(err error, context string) {
	if err == nil {
		return
	}
	c := color.New(color.FgRed, color.Bold)
	if context != "" {
		c.Fprintf(p.errorOutput, "[ERROR] %s: %v\n", context, err)
	} else {
		c.Fprintf(p.errorOutput, "[ERROR] %v\n", err)
	}
}

// Success writes a success message.
func (p *Presenter) Success(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintf(p.output, "✓ %s\n", message)
}

// Warning writes a warning message.
func (p *Presenter) Warning(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow, color.Bold).Fprintf(p.output, "⚠ %s\n", message)
}

// Info writes a plain informational message.
func (p *Presenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, message)
}

// Section writes an underlined section header.
func (p *Presenter) Section(title string) {
	if p.quiet {
		return
	}
	c := color.New(color.Bold)
	c.Fprintf(p.output, "%s\n", title)
	c.Fprintf(p.output, "%s\n", strings.Repeat("-", len(title)))
}

// SetQuiet suppresses all output except errors.
func (p *Presenter) SetQuiet(quiet bool) { p.quiet = quiet }

// IsQuiet reports whether quiet mode is on.
func (p *Presenter) IsQuiet() bool { return p.quiet }

var defaultPresenter = New()

// Error writes via the default presenter.
func Error(err error, context string) { defaultPresenter.Error(err, context) }

// Success writes via the default presenter.
func Success(message string) { defaultPresenter.Success(message) }

// Warning writes via the default presenter.
func Warning(message string) { defaultPresenter.Warning(message) }

// Info writes via the default presenter.
func Info(message string) { defaultPresenter.Info(message) }

// Section writes via the default presenter.
func Section(title string) { defaultPresenter.Section(title) }

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) { defaultPresenter.SetQuiet(quiet) }
