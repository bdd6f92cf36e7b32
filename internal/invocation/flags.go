package invocation

import (
	"fmt"
	"strings"
)

// Flags reduces a sanitized invocation down to its flag set: the driver
// name, the -o/output pair and the -c/source pair are removed and the
// survivors are serialized one per line, order preserved. The result is
// what gets persisted as the flags file the harness reads back.
//
// All indices to drop are computed before anything is removed; sequential
// single-pass removal would shift the later pair under the earlier one.
func Flags(inv Invocation) (string, error) {
	if len(inv) == 0 {
		return "", fmt.Errorf("%w: empty invocation", ErrMalformedInvocation)
	}
	tokens := inv[1:] // ditch the clang or gcc driver token

	oIdx := indexOf(tokens, "-o")
	if oIdx < 0 || oIdx+1 >= len(tokens) {
		return "", fmt.Errorf("%w: no -o <output> pair in %q", ErrMalformedInvocation, inv.String())
	}
	cIdx := indexOf(tokens, "-c")
	if cIdx < 0 || cIdx+1 >= len(tokens) {
		return "", fmt.Errorf("%w: no -c <source> pair in %q", ErrMalformedInvocation, inv.String())
	}

	drop := map[int]bool{oIdx: true, oIdx + 1: true, cIdx: true, cIdx + 1: true}
	flags := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if drop[i] {
			continue
		}
		flags = append(flags, tok)
	}
	return strings.Join(flags, "\n"), nil
}

func indexOf(tokens Invocation, want string) int {
	for i, tok := range tokens {
		if tok == want {
			return i
		}
	}
	return -1
}
