package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reduceprep/internal/buildsys"
	"reduceprep/internal/config"
	rexec "reduceprep/internal/exec"
	"reduceprep/internal/harness"
	"reduceprep/internal/invocation"
	"reduceprep/internal/manifest"
	"reduceprep/internal/preproc"
	"reduceprep/internal/state"
	"reduceprep/internal/ui"
)

var (
	prepTree        string
	prepOutput      string
	prepForceTarget bool
	prepForceScript bool
	prepVerbose     bool
	prepNoFailFast  bool
	prepNoHistory   bool
)

var prepCmd = &cobra.Command{
	Use:   "prep <target> [build command...]",
	Short: "Build, extract, and package one translation unit for reduction",
	Long: `Prepare a single translation unit for automated reduction.

The target names the file you want to reduce, relative to the kernel
tree (lib/string.o and lib/string.i both work; the .i form is built).
Any extra arguments replace the configured build command preamble and
must include a verbosity setting; V=1 is added when missing.

Examples:
  reduceprep prep lib/string.o
  reduceprep prep -p ~/src/linux -o /tmp/red lib/string.o
  reduceprep prep lib/string.o make -j8 LLVM=1 V=1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPrep,
}

func init() {
	prepCmd.Flags().StringVarP(&prepTree, "path-to-linux", "p", "./", "Linux source tree directory")
	prepCmd.Flags().StringVarP(&prepOutput, "output", "o", "", "Output directory for artifacts (defaults from config)")
	prepCmd.Flags().BoolVarP(&prepForceTarget, "force-rm-existing-target", "f", false, "Remove an existing target file without prompting")
	prepCmd.Flags().BoolVarP(&prepForceScript, "force-rm-existing-script", "F", false, "Remove an existing test.sh without prompting")
	prepCmd.Flags().BoolVarP(&prepVerbose, "verbose", "d", false, "Enable debug output")
	prepCmd.Flags().BoolVar(&prepNoFailFast, "no-fail-fast", false, "Leave -Wfatal-errors out of the harness (slows reducers down greatly)")
	prepCmd.Flags().BoolVar(&prepNoHistory, "no-history", false, "Skip recording this run in the history database")
}

func runPrep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	p := ui.New()
	p.Verbose = prepVerbose

	target, err := normalizeTarget(args[0])
	if err != nil {
		return err
	}

	buildCmd := cfg.BuildCommand
	if len(args) > 1 {
		buildCmd = args[1:]
	}
	buildCmd, err = normalizeBuildCommand(p, buildCmd)
	if err != nil {
		return err
	}

	tree, err := filepath.Abs(prepTree)
	if err != nil {
		return err
	}
	if info, err := os.Stat(tree); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory or it doesn't exist", tree)
	}

	outDir := cfg.OutputDir
	if prepOutput != "" {
		outDir = prepOutput
	}
	outDir, err = ensureOutputDir(p, outDir)
	if err != nil {
		return err
	}

	usesClang, err := buildsys.CompilerFromKernelConfig(tree)
	if err != nil {
		return err
	}
	compiler := "gcc"
	if usesClang {
		compiler = "clang"
	}
	p.Infof("Using CC=%s", compiler)

	driver := &buildsys.Driver{
		Runner:    rexec.NewRunner(),
		UI:        p,
		BuildCmd:  buildCmd,
		Tree:      tree,
		OutputDir: outDir,
		Force:     prepForceTarget,
	}
	dotI, transcript, err := driver.Make(cmd.Context(), target)
	if errors.Is(err, ui.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}

	p.Infof("Cleaning up %s file for reduction", filepath.Base(dotI))
	if err := preproc.Clean(dotI); err != nil {
		return err
	}

	inv, err := invocation.Extract(transcript, target)
	if err != nil {
		return err
	}
	inv = invocation.Sanitize(inv)
	inv = inv.Retarget(filepath.Base(dotI))
	p.Debugf("recovered invocation: %s", inv.String())

	flagsText, err := invocation.Flags(inv)
	if err != nil {
		return err
	}

	failFast := cfg.FailFast && !prepNoFailFast
	res, err := harness.Generate(p, flagsText, harness.Options{
		OutputDir:  outDir,
		SourceName: filepath.Base(dotI),
		UsesClang:  usesClang,
		FailFast:   failFast,
		Force:      prepForceScript,
	})
	if errors.Is(err, ui.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := manifest.Write(outDir, manifest.Manifest{
		Target:    target,
		Compiler:  compiler,
		FailFast:  failFast,
		Source:    dotI,
		FlagsFile: res.FlagsPath,
		Harness:   res.ScriptPath,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	if !prepNoHistory {
		recordRun(cmd, p, cfg, state.Run{
			Target:    target,
			Compiler:  compiler,
			OutputDir: outDir,
			Source:    dotI,
			FlagsFile: res.FlagsPath,
			Harness:   res.ScriptPath,
		})
	}

	p.Todof("Now, modify the last line of %s with an interestingness test\n"+
		"that properly captures the behavior you're after. After that, use it\n"+
		"with reduction tools like cvise.\n"+
		"Example Usage: $ cvise %s %s",
		res.ScriptPath, filepath.Base(res.ScriptPath), filepath.Base(dotI))
	return nil
}

// recordRun is best-effort: the reduction artifacts are the product, the
// bookkeeping is not, so a broken history database only warns.
func recordRun(cmd *cobra.Command, p *ui.Printer, cfg *config.Config, run state.Run) {
	path := cfg.HistoryDB
	if path == "" {
		path = state.DefaultPath()
	}
	db, err := state.Open(path)
	if err != nil {
		p.Warnf("history disabled: %v", err)
		return
	}
	defer db.Close()
	if _, err := db.RecordRun(cmd.Context(), run); err != nil {
		p.Warnf("history not recorded: %v", err)
	}
}

// normalizeTarget converts the user-supplied target into the .i build
// goal. Object and source suffixes are rewritten; anything else is
// rejected before a build gets launched.
func normalizeTarget(target string) (string, error) {
	switch filepath.Ext(target) {
	case "":
		return target + ".i", nil
	case ".i":
		return target, nil
	case ".o", ".c":
		return strings.TrimSuffix(target, filepath.Ext(target)) + ".i", nil
	default:
		return "", fmt.Errorf("target %s has suffix %s; use .o, .c, .i or no suffix", target, filepath.Ext(target))
	}
}

// normalizeBuildCommand guarantees the verbosity setting the transcript
// scraper depends on and rejects a stray .i goal; the target is a
// separate argument.
func normalizeBuildCommand(p *ui.Printer, buildCmd []string) ([]string, error) {
	if len(buildCmd) == 0 {
		return nil, errors.New("empty build command")
	}
	out := append([]string{}, buildCmd...)
	for _, word := range out {
		if strings.HasSuffix(word, ".i") {
			return nil, fmt.Errorf("don't include the target .i file (%s) in your build command", word)
		}
	}
	hasVerbose := false
	for _, word := range out {
		if word == "V=1" {
			hasVerbose = true
			break
		}
	}
	if !hasVerbose {
		p.Infof("Adding V=1 to build command")
		out = append(out, "V=1")
	}
	return out, nil
}

// ensureOutputDir resolves dir to an absolute path, creating it when
// missing.
func ensureOutputDir(p *ui.Printer, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(abs); err == nil {
		if !info.IsDir() {
			return "", fmt.Errorf("output path %s exists and is not a directory", abs)
		}
		return abs, nil
	}
	p.Infof("Making directory for output files: %s", abs)
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return abs, nil
}
