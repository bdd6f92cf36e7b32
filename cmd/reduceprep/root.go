package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reduceprep",
	Short: "Prepare kernel translation units for test-case reduction",
	Long: `reduceprep extracts one translation unit from a verbose kernel build and
packages it for automated reducers like cvise.

A run builds the preprocessed target, recovers the exact compiler
invocation from the build transcript, strips the flags that only make
sense inside the build tree, and writes three artifacts into the output
directory: the cleaned preprocessed source, a flags listing (flags.txt),
and an executable harness (test.sh) whose interestingness filter you
complete before handing it to the reducer.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(prepCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
