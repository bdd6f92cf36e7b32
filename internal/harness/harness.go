// Package harness emits the reduction artifacts: the persisted flags file
// and the executable test script a reduction tool drives.
package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"reduceprep/internal/ui"
)

const (
	// ScriptName is the generated harness file name.
	ScriptName = "test.sh"
	// FlagsName is the persisted flags file name.
	FlagsName = "flags.txt"
)

// Options configures harness generation.
type Options struct {
	// OutputDir receives flags.txt and test.sh.
	OutputDir string
	// SourceName is the cleaned preprocessed file name the harness
	// compiles, e.g. "string.i".
	SourceName string
	// UsesClang selects clang over gcc as the compiler driver.
	UsesClang bool
	// FailFast appends -Wfatal-errors so uninteresting variants die on
	// the first error instead of flooding the filter.
	FailFast bool
	// Force overwrites an existing test.sh without prompting.
	Force bool
}

// Result names the artifacts a successful generation produced.
type Result struct {
	ScriptPath string
	FlagsPath  string
}

// Generate persists flagsText and synthesizes the test script around it.
// The script reads the flags back from their absolute path at execution
// time, so the flags file stays editable independently of the harness. An
// existing script must be confirmed away (or forced); declining returns
// ui.ErrAborted with nothing modified.
func Generate(p *ui.Printer, flagsText string, opts Options) (Result, error) {
	scriptPath := filepath.Join(opts.OutputDir, ScriptName)
	p.Infof("Generating %s", scriptPath)
	if _, err := os.Stat(scriptPath); err == nil {
		if err := p.ConfirmRemoval(scriptPath, opts.Force); err != nil {
			return Result{}, err
		}
	}

	flagsPath, err := writeFlags(p, opts.OutputDir, flagsText)
	if err != nil {
		return Result{}, err
	}
	// The reduction tool runs the script from fresh temporary directories,
	// so only an absolute flags path survives.
	absFlags, err := filepath.Abs(flagsPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve %s: %w", flagsPath, err)
	}

	if err := os.WriteFile(scriptPath, []byte(Script(absFlags, opts)), 0o644); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", scriptPath, err)
	}
	p.Successf("Successfully wrote %s", scriptPath)

	if err := os.Chmod(scriptPath, 0o755); err != nil {
		return Result{}, fmt.Errorf("chmod %s: %w", scriptPath, err)
	}
	p.Infof("Added execute permissions to %s", scriptPath)

	return Result{ScriptPath: scriptPath, FlagsPath: absFlags}, nil
}

// Script renders the harness text: one function compiling the cleaned
// source with the persisted flags, piped through a placeholder filter the
// user completes with the interestingness predicate.
func Script(absFlagsPath string, opts Options) string {
	compiler := "gcc"
	if opts.UsesClang {
		compiler = "clang"
	}
	failFast := ""
	if opts.FailFast {
		failFast = " -Wfatal-errors"
	}
	return fmt.Sprintf(`#!/usr/bin/env bash
CC_CMD() {
    %s $(cat %s)%s -c %s
}
CC_CMD 2>&1 | grep "<your test here>"
`, compiler, absFlagsPath, failFast, opts.SourceName)
}

func writeFlags(p *ui.Printer, dir, flagsText string) (string, error) {
	path := filepath.Join(dir, FlagsName)
	if err := os.WriteFile(path, []byte(flagsText), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	p.Successf("Wrote %s", FlagsName)
	return path, nil
}
