package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowform/engine/internal/cli"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the form's block graph as a Mermaid flowchart",
	Run: func(cmd *cobra.Command, args []string) {
		formPath, _ := cmd.Flags().GetString("form")
		if !cmd.Flags().Changed("form") && len(args) > 0 {
			formPath = args[0]
		}

		if err := cli.Graph(formPath); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
