package buildsys

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	clangConfigOption = "CONFIG_CC_IS_CLANG=y"
	gccConfigOption   = "CONFIG_CC_IS_GCC=y"
)

// CompilerFromKernelConfig reports whether the kernel tree's .config
// selects clang as the compiler. The option sits very early in the file,
// so the linear scan stops at the first match. A missing .config or one
// naming neither compiler is an error.
func CompilerFromKernelConfig(tree string) (bool, error) {
	path := filepath.Join(tree, ".config")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("no .config file found at %s: configure the kernel build first or point --path-to-linux at a configured tree", path)
		}
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.Contains(line, clangConfigOption):
			return true, nil
		case strings.Contains(line, gccConfigOption):
			return false, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	return false, fmt.Errorf("%s names neither %s nor %s; cannot pick a compiler driver", path, clangConfigOption, gccConfigOption)
}
