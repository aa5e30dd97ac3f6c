package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowform",
	Short: "FlowForm is a conditional form response engine",
	Long: `FlowForm walks respondents through a form's block graph, evaluating
routing rules against their answers and driving AI follow-up conversations
inside dynamic blocks.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("form", "f", "form.yaml", "Path to the form definition file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis URL for durable response state (e.g. redis://localhost:6379/0)")
	rootCmd.PersistentFlags().String("openai-url", "", "Base URL of an OpenAI-compatible API for follow-up questions")
	rootCmd.PersistentFlags().String("openai-key", "", "API key for the question-generation endpoint (or OPENAI_API_KEY)")
	rootCmd.PersistentFlags().String("openai-model", "", "Model name for question generation")
}
