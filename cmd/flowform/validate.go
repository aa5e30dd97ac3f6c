package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowform/engine/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a form definition for consistency",
	Long: `Loads the form and reports routing problems: self-loops, dangling
targets, rules that can never match, and ambiguous block ordering.`,
	Run: func(cmd *cobra.Command, args []string) {
		formPath, _ := cmd.Flags().GetString("form")
		if !cmd.Flags().Changed("form") && len(args) > 0 {
			formPath = args[0]
		}

		if err := cli.Validate(formPath); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
