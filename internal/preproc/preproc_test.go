package preproc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanTextDropsLinemarkers(t *testing.T) {
	in := "# 1 \"foo.c\"\nint x;\n# 2 \"foo.c\"\nint y;\n"
	want := "int x;\nint y;\n"
	if got := CleanText(in); got != want {
		t.Errorf("CleanText = %q, want %q", got, want)
	}
}

func TestCleanTextPreservesNonMarkerLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no markers", "int a;\nint b;\n", "int a;\nint b;\n"},
		{"only markers", "# 1 \"a.c\"\n# 2 \"a.c\"\n", ""},
		{"marker flags", "# 1 \"a.h\" 1 3 4\nextern int e;\n", "extern int e;\n"},
		{"empty input", "", ""},
		{"no trailing newline", "# 1 \"a.c\"\nint a;", "int a;"},
		{"indented hash kept", "  # 5 \"a.c\"\nint a;\n", "  # 5 \"a.c\"\nint a;\n"},
		{"cpp directive kept", "#define FOO 1\n#pragma once\n", "#define FOO 1\n#pragma once\n"},
		{"bare hash kept", "#\nint a;\n", "#\nint a;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanTextLineCounts(t *testing.T) {
	// N marker lines and M non-marker lines reduce to exactly M lines in
	// the original relative order.
	var b strings.Builder
	var want []string
	for i := 0; i < 50; i++ {
		if i%3 == 0 {
			b.WriteString("# 1 \"gen.c\"\n")
			continue
		}
		line := strings.Repeat("x", i) + ";"
		b.WriteString(line + "\n")
		want = append(want, line)
	}

	got := strings.Split(strings.TrimSuffix(CleanText(b.String()), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("kept %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	in := "# 1 \"foo.c\"\nint x;\n# 2 \"foo.c\"\nint y;\n"
	once := CleanText(in)
	if twice := CleanText(once); twice != once {
		t.Errorf("not idempotent: %q then %q", once, twice)
	}
}

func TestCleanRewritesFileInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "string.i")
	if err := os.WriteFile(path, []byte("# 1 \"lib/string.c\"\nchar c;\n"), 0o640); err != nil {
		t.Fatal(err)
	}

	if err := Clean(path); err != nil {
		t.Fatalf("Clean: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "char c;\n" {
		t.Errorf("cleaned content = %q, want %q", data, "char c;\n")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("mode = %o, want 640", info.Mode().Perm())
	}
}

func TestCleanMissingFile(t *testing.T) {
	if err := Clean(filepath.Join(t.TempDir(), "absent.i")); err == nil {
		t.Error("Clean on a missing file should fail")
	}
}
