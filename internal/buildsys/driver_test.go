package buildsys

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reduceprep/internal/ui"
)

// fakeRunner records the command it was asked to run and replays a canned
// transcript. With makeTarget set it drops the goal file into the tree the
// way a real make run would.
type fakeRunner struct {
	transcript string
	fail       bool

	gotWorkDir string
	gotName    string
	gotArgs    []string
	makeTarget bool
}

func (f *fakeRunner) Run(ctx context.Context, workDir, name string, args ...string) ([]byte, error) {
	f.gotWorkDir = workDir
	f.gotName = name
	f.gotArgs = args
	if f.fail {
		return []byte(f.transcript), errors.New("exit status 2")
	}
	if f.makeTarget && len(args) > 0 {
		target := args[len(args)-1]
		if err := os.WriteFile(filepath.Join(workDir, target), []byte("int x;\n"), 0o644); err != nil {
			return nil, err
		}
	}
	return []byte(f.transcript), nil
}

func quietUI(input string) *ui.Printer {
	return &ui.Printer{Out: &bytes.Buffer{}, In: strings.NewReader(input)}
}

func TestMakeRunsBuildCommandWithTargetGoal(t *testing.T) {
	tree := t.TempDir()
	out := t.TempDir()
	runner := &fakeRunner{transcript: "gcc -o lib/string.i lib/string.c\n", makeTarget: true}
	d := &Driver{
		Runner:    runner,
		UI:        quietUI(""),
		BuildCmd:  []string{"make", "-j4", "V=1"},
		Tree:      tree,
		OutputDir: out,
	}

	dest, transcript, err := d.Make(context.Background(), "string.i")
	if err != nil {
		t.Fatalf("Make: %v", err)
	}

	if runner.gotName != "make" {
		t.Errorf("command = %q, want make", runner.gotName)
	}
	wantArgs := []string{"-j4", "V=1", "string.i"}
	if len(runner.gotArgs) != len(wantArgs) {
		t.Fatalf("args = %v, want %v", runner.gotArgs, wantArgs)
	}
	for i := range wantArgs {
		if runner.gotArgs[i] != wantArgs[i] {
			t.Errorf("args[%d] = %q, want %q", i, runner.gotArgs[i], wantArgs[i])
		}
	}
	if runner.gotWorkDir != tree {
		t.Errorf("workDir = %q, want %q", runner.gotWorkDir, tree)
	}
	if transcript != runner.transcript {
		t.Errorf("transcript = %q, want %q", transcript, runner.transcript)
	}

	wantDest := filepath.Join(out, "string.i")
	if dest != wantDest {
		t.Errorf("dest = %q, want %q", dest, wantDest)
	}
	if _, err := os.Stat(wantDest); err != nil {
		t.Errorf("relocated file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tree, "string.i")); !os.IsNotExist(err) {
		t.Error("target should have been moved out of the tree")
	}
}

func TestMakeRelocatesNestedTargetByBaseName(t *testing.T) {
	tree := t.TempDir()
	out := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tree, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{transcript: "ok\n", makeTarget: true}
	d := &Driver{
		Runner:    runner,
		UI:        quietUI(""),
		BuildCmd:  []string{"make", "V=1"},
		Tree:      tree,
		OutputDir: out,
	}

	dest, _, err := d.Make(context.Background(), "lib/string.i")
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if dest != filepath.Join(out, "string.i") {
		t.Errorf("dest = %q, want %q", dest, filepath.Join(out, "string.i"))
	}
}

func TestMakeBuildFailureStopsPipeline(t *testing.T) {
	d := &Driver{
		Runner:    &fakeRunner{transcript: "cc1: some error\n", fail: true},
		UI:        quietUI(""),
		BuildCmd:  []string{"make", "V=1"},
		Tree:      t.TempDir(),
		OutputDir: t.TempDir(),
	}

	_, transcript, err := d.Make(context.Background(), "string.i")
	if !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("err = %v, want ErrBuildFailed", err)
	}
	// The transcript still comes back for diagnostics.
	if !strings.Contains(transcript, "cc1: some error") {
		t.Errorf("transcript = %q, want build output", transcript)
	}
}

func TestMakeExistingTargetDeclinedAborts(t *testing.T) {
	tree := t.TempDir()
	stale := filepath.Join(tree, "string.i")
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := &Driver{
		Runner:    &fakeRunner{transcript: "unused"},
		UI:        quietUI("n\n"),
		BuildCmd:  []string{"make", "V=1"},
		Tree:      tree,
		OutputDir: t.TempDir(),
	}

	_, _, err := d.Make(context.Background(), "string.i")
	if !errors.Is(err, ui.ErrAborted) {
		t.Fatalf("err = %v, want ui.ErrAborted", err)
	}
	if data, _ := os.ReadFile(stale); string(data) != "stale" {
		t.Error("declined removal must leave the stale target untouched")
	}
}

func TestMakeExistingTargetForced(t *testing.T) {
	tree := t.TempDir()
	stale := filepath.Join(tree, "string.i")
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := &Driver{
		Runner:    &fakeRunner{transcript: "ok\n", makeTarget: true},
		UI:        quietUI(""),
		BuildCmd:  []string{"make", "V=1"},
		Tree:      tree,
		OutputDir: t.TempDir(),
		Force:     true,
	}

	if _, _, err := d.Make(context.Background(), "string.i"); err != nil {
		t.Fatalf("Make with Force: %v", err)
	}
}

func TestCompilerFromKernelConfig(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		wantClang bool
		wantErr   bool
	}{
		{"clang", "CONFIG_A=y\nCONFIG_CC_IS_CLANG=y\nCONFIG_B=y\n", true, false},
		{"gcc", "CONFIG_CC_IS_GCC=y\nCONFIG_CC_IS_CLANG is not set\n", false, false},
		{"first match wins", "CONFIG_CC_IS_CLANG=y\nCONFIG_CC_IS_GCC=y\n", true, false},
		{"neither", "CONFIG_A=y\nCONFIG_B=n\n", false, true},
		{"empty", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := t.TempDir()
			if err := os.WriteFile(filepath.Join(tree, ".config"), []byte(tt.config), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := CompilerFromKernelConfig(tree)
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("CompilerFromKernelConfig: %v", err)
			}
			if got != tt.wantClang {
				t.Errorf("usesClang = %v, want %v", got, tt.wantClang)
			}
		})
	}
}

func TestCompilerFromKernelConfigMissingFile(t *testing.T) {
	_, err := CompilerFromKernelConfig(t.TempDir())
	if err == nil {
		t.Fatal("want error for missing .config")
	}
	if !strings.Contains(err.Error(), ".config") {
		t.Errorf("error should name the .config path: %v", err)
	}
}
