package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowform/engine/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP response server",
	Long: `Starts the FlowForm engine in server mode, exposing the response API
over HTTP plus Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		formPath, _ := cmd.Flags().GetString("form")
		port, _ := cmd.Flags().GetString("port")

		opts := cli.ServeOptions{
			EngineOptions: engineOptions(cmd),
			FormPath:      formPath,
			Port:          port,
		}

		if err := cli.Serve(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
