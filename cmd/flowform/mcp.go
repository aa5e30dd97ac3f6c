package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowform/engine/internal/cli"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the FlowForm engine as an MCP Server.
This allows AI agents (like Claude Desktop) to fill out forms as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		formPath, _ := cmd.Flags().GetString("form")
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		opts := cli.MCPOptions{
			EngineOptions: engineOptions(cmd),
			FormPath:      formPath,
			Transport:     transport,
			Port:          port,
		}

		if err := cli.MCP(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
