// Package buildsys drives the external build system, captures its verbose
// transcript, and relocates the preprocessed target it produces.
package buildsys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	rexec "reduceprep/internal/exec"
	"reduceprep/internal/ui"
)

// ErrBuildFailed reports a nonzero exit from the external build system.
// No valid transcript region exists to search after it, so the pipeline
// stops before extraction.
var ErrBuildFailed = errors.New("build system failed")

// Driver runs one build goal in a configured tree.
type Driver struct {
	Runner rexec.CommandRunner
	UI     *ui.Printer

	// BuildCmd is the verbose build command preamble, e.g.
	// ["make", "-j8", "LLVM=1", "V=1"]. The target is appended as the
	// final goal argument.
	BuildCmd []string
	// Tree is the build tree root the command runs in.
	Tree string
	// OutputDir receives the relocated target file.
	OutputDir string
	// Force removes a pre-existing target file without prompting.
	Force bool
}

// Make builds target and moves the produced file into OutputDir. It
// returns the destination path and the captured transcript. A pre-existing
// file at the target path must be confirmed away first; declining yields
// ui.ErrAborted.
func (d *Driver) Make(ctx context.Context, target string) (string, string, error) {
	if len(d.BuildCmd) == 0 {
		return "", "", errors.New("empty build command")
	}

	abs := filepath.Join(d.Tree, target)
	if _, err := os.Stat(abs); err == nil {
		if err := d.UI.ConfirmRemoval(abs, d.Force); err != nil {
			return "", "", err
		}
	}

	d.UI.Infof("Making %s...", target)
	args := append(append([]string{}, d.BuildCmd[1:]...), target)
	out, err := d.Runner.Run(ctx, d.Tree, d.BuildCmd[0], args...)
	transcript := string(out)
	d.UI.Debugf("captured %d bytes of build output", len(out))
	if err != nil {
		return "", transcript, fmt.Errorf("%w: %v while making %s", ErrBuildFailed, err, target)
	}

	dest := filepath.Join(d.OutputDir, filepath.Base(target))
	d.UI.Infof("Moving generated %s file to %s", target, d.OutputDir)
	if err := moveFile(abs, dest); err != nil {
		return "", transcript, err
	}
	d.UI.Successf("Successfully generated %s", filepath.Base(target))
	return dest, transcript, nil
}

// moveFile renames src to dest, falling back to copy-and-remove when the
// two paths live on different filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return os.Remove(src)
}
