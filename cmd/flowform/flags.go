package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/flowform/engine/internal/cli"
)

// engineOptions collects the persistent backend flags into cli.EngineOptions.
func engineOptions(cmd *cobra.Command) cli.EngineOptions {
	debug, _ := cmd.Flags().GetBool("debug")
	redisURL, _ := cmd.Flags().GetString("redis-url")
	openaiURL, _ := cmd.Flags().GetString("openai-url")
	openaiKey, _ := cmd.Flags().GetString("openai-key")
	openaiModel, _ := cmd.Flags().GetString("openai-model")

	if openaiKey == "" {
		openaiKey = os.Getenv("OPENAI_API_KEY")
	}

	return cli.EngineOptions{
		Debug:       debug,
		RedisURL:    redisURL,
		OpenAIURL:   openaiURL,
		OpenAIKey:   openaiKey,
		OpenAIModel: openaiModel,
	}
}
