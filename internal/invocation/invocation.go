// Package invocation recovers compiler invocations from verbose build
// transcripts and rewrites them into standalone, replayable commands.
package invocation

import (
	"errors"
	"fmt"
	"strings"
)

// Invocation is one compiler command line as an ordered token sequence.
// Token 0 is the compiler driver; the remaining tokens are flags and
// filenames. Flags that take a separate argument occupy adjacent tokens
// (-o followed by the output name).
type Invocation []string

var (
	// ErrAmbiguousInvocation reports that a transcript contained zero or
	// several lines producing the target. Either way there is no unique
	// invocation to recover; a dirty build tree is the usual cause.
	ErrAmbiguousInvocation = errors.New("ambiguous compiler invocation")

	// ErrMalformedInvocation reports an invocation missing its expected
	// -o or -c token pair.
	ErrMalformedInvocation = errors.New("malformed compiler invocation")
)

// String renders the invocation as a shell-style command line.
func (inv Invocation) String() string {
	return strings.Join(inv, " ")
}

// Extract finds the single transcript line containing "-o <target>" and
// returns it tokenized on whitespace, with -c inserted immediately before
// the final token so the replayed command compiles without linking. Lines
// that already carry a standalone -c are left as they are; the result holds
// exactly one compile-only flag either way.
//
// The final whitespace-delimited token of the matched line is assumed to be
// the source-file argument. Build systems that echo trailing redirections
// or compound commands on the same line break that assumption.
func Extract(transcript, target string) (Invocation, error) {
	needle := "-o " + target
	var matched []string
	for _, line := range strings.Split(transcript, "\n") {
		if strings.Contains(line, needle) {
			matched = append(matched, line)
		}
	}
	if len(matched) != 1 {
		return nil, fmt.Errorf("%w: %d transcript lines contain %q, want exactly 1",
			ErrAmbiguousInvocation, len(matched), needle)
	}

	tokens := strings.Fields(matched[0])
	if len(tokens) < 2 {
		return nil, fmt.Errorf("%w: matched line %q has no source argument",
			ErrMalformedInvocation, matched[0])
	}

	for _, tok := range tokens {
		if tok == "-c" {
			return Invocation(tokens), nil
		}
	}

	inv := make(Invocation, 0, len(tokens)+1)
	inv = append(inv, tokens[:len(tokens)-1]...)
	inv = append(inv, "-c", tokens[len(tokens)-1])
	return inv, nil
}

// Retarget replaces the final token, the source-file argument, with name.
// The pipeline uses it to point a recovered invocation at the relocated
// preprocessed file instead of the original in-tree source.
func (inv Invocation) Retarget(name string) Invocation {
	out := make(Invocation, len(inv))
	copy(out, inv)
	out[len(out)-1] = name
	return out
}
