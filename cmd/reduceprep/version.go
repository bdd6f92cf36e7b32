package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reduceprep/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the reduceprep version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reduceprep %s\n", version.Get())
	},
}
