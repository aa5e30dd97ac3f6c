package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowform/engine/internal/cli"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill out a form interactively on the terminal",
	Long: `Walks through the form block by block, evaluating routing rules after
each answer. Dynamic blocks run their AI follow-up conversation inline when an
OpenAI-compatible endpoint is configured.`,
	Run: func(cmd *cobra.Command, args []string) {
		formPath, _ := cmd.Flags().GetString("form")
		if !cmd.Flags().Changed("form") && len(args) > 0 {
			formPath = args[0]
		}
		formID, _ := cmd.Flags().GetString("form-id")
		responseID, _ := cmd.Flags().GetString("response-id")
		headless, _ := cmd.Flags().GetBool("headless")

		opts := cli.FillOptions{
			EngineOptions: engineOptions(cmd),
			FormPath:      formPath,
			FormID:        formID,
			ResponseID:    responseID,
			Headless:      headless,
		}

		if err := cli.Fill(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(fillCmd)

	fillCmd.Flags().String("form-id", "", "Form ID to fill when the file defines several")
	fillCmd.Flags().String("response-id", "", "Resume or pin a specific response ID")
	fillCmd.Flags().Bool("headless", false, "Suppress banner and prompts (for piping)")
}
