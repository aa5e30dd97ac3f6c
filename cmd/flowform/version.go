package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	flowform "github.com/flowform/engine"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of flowform",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flowform version %s\n", strings.TrimSpace(flowform.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
