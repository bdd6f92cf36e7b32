// Package ui provides color-coded console output and confirmation prompts.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// ErrAborted reports that the user declined a confirmation prompt.
// Callers treat it as a clean, successful termination.
var ErrAborted = errors.New("aborted by user")

var (
	infoTag    = color.New(color.FgBlue).Sprint("[INFO]")
	successTag = color.New(color.FgGreen).Sprint("[SUCCESS]")
	warnTag    = color.New(color.FgYellow).Sprint("[WARNING]")
	errorTag   = color.New(color.FgRed).Sprint("[ERROR]")
	todoTag    = color.New(color.FgMagenta, color.Bold).Sprint("[TODO]")
	debugTag   = color.New(color.FgCyan).Sprint("[DEBUG]")
)

// Printer writes tagged status lines and reads prompt answers.
// Verbose enables diagnostic echo of intermediate pipeline values.
type Printer struct {
	Out     io.Writer
	In      io.Reader
	Verbose bool

	reader *bufio.Reader
}

// New returns a Printer bound to stdout/stdin.
func New() *Printer {
	return &Printer{Out: os.Stdout, In: os.Stdin}
}

func (p *Printer) line(tag, format string, args ...any) {
	fmt.Fprintf(p.Out, "%s %s\n", tag, fmt.Sprintf(format, args...))
}

// Infof prints an informational status line.
func (p *Printer) Infof(format string, args ...any) { p.line(infoTag, format, args...) }

// Successf prints a success status line.
func (p *Printer) Successf(format string, args ...any) { p.line(successTag, format, args...) }

// Warnf prints a warning status line.
func (p *Printer) Warnf(format string, args ...any) { p.line(warnTag, format, args...) }

// Errorf prints an error status line.
func (p *Printer) Errorf(format string, args ...any) { p.line(errorTag, format, args...) }

// Todof prints a follow-up instruction for the user.
func (p *Printer) Todof(format string, args ...any) { p.line(todoTag, format, args...) }

// Debugf prints only when Verbose is set.
func (p *Printer) Debugf(format string, args ...any) {
	if p.Verbose {
		p.line(debugTag, format, args...)
	}
}

// Confirm asks a y/n question and re-prompts until it gets a definite
// answer. A read failure counts as a decline.
func (p *Printer) Confirm(prompt string) bool {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	for {
		fmt.Fprintf(p.Out, "%s %s", warnTag, prompt)
		answer, err := p.reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y":
			return true
		case "n":
			return false
		}
		if err != nil {
			return false
		}
	}
}

// ConfirmRemoval deletes the file at path, prompting first unless force is
// set. A declined prompt returns ErrAborted and leaves the file alone.
func (p *Printer) ConfirmRemoval(path string, force bool) error {
	if !force {
		if !p.Confirm(fmt.Sprintf("target %s already exists. Remove it? (y/n): ", path)) {
			p.Successf("OK: quitting.")
			return ErrAborted
		}
	}
	p.Infof("Removing %s which already exists", path)
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
