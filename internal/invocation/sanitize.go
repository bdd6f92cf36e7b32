package invocation

import "strings"

// strippedPrefixes lists the build-tree-specific and preprocessor-only flag
// prefixes that keep an invocation from replaying outside its build tree.
// Every flag in this family carries its argument as a suffix of the same
// token (-Iinclude/dir, -DFOO=1), so removal is per-token and never touches
// a following token.
var strippedPrefixes = []string{
	"-I",       // include paths into the build tree
	"-D",       // build-config macro definitions
	"-Wp",      // flags forwarded to the preprocessor
	"-include", // forced header inclusion
	"-Werror",  // warnings-as-errors, hostile to reduced code
	"./",       // build-tree-relative paths
	"-U",       // macro undefines
	"-E",       // preprocess-only mode
}

// Sanitize returns inv with every token matching a stripped prefix removed.
// The driver name (token 0) is always kept, surviving tokens keep their
// order, and the operation is idempotent.
func Sanitize(inv Invocation) Invocation {
	if len(inv) == 0 {
		return inv
	}
	out := make(Invocation, 0, len(inv))
	out = append(out, inv[0])
	for _, tok := range inv[1:] {
		if hasStrippedPrefix(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func hasStrippedPrefix(tok string) bool {
	for _, prefix := range strippedPrefixes {
		if strings.HasPrefix(tok, prefix) {
			return true
		}
	}
	return false
}
