package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/lessonkit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lessonkit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lessonkit version %s\n", strings.TrimSpace(lessonkit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
