// Package preproc cleans preprocessed translation units for reduction.
//
// Preprocessors record source provenance with linemarker directives
// ("# 12 \"lib/string.c\""). They are semantically inert for recompilation
// but inflate the line count and confuse line-based minimization, so the
// cleaner drops them outright before a reducer ever sees the file.
package preproc

import (
	"fmt"
	"os"
	"strings"
)

// linemarkerPrefix anchors the match: a marker line is "#", one space, then
// arbitrary content. Matching is per line and never rewrites partial lines.
const linemarkerPrefix = "# "

// CleanText returns src with every linemarker line removed entirely.
// Non-marker lines keep their exact content and relative order. Idempotent.
func CleanText(src string) string {
	lines := strings.Split(src, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, linemarkerPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// Clean rewrites the file at path in place with linemarkers removed,
// preserving its permission bits.
func Clean(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	cleaned := CleanText(string(raw))
	if cleaned == string(raw) {
		return nil
	}
	if err := os.WriteFile(path, []byte(cleaned), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
