// Package exec provides an interface for running external build commands.
package exec

import "context"

// CommandRunner runs a child process to completion. The single-method
// surface keeps build-system execution mockable in tests: the build driver
// only ever needs a synchronous run with the combined transcript.
type CommandRunner interface {
	// Run executes name with args, waits for it to exit, and returns the
	// combined stdout/stderr output. The working directory is set to
	// workDir if non-empty. The output is returned even when the process
	// exits nonzero, alongside the exit error.
	Run(ctx context.Context, workDir string, name string, args ...string) (output []byte, err error)
}
