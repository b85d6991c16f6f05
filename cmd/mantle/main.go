// Command mantle is an interactive CLI for OpenAI-compatible conversational
// APIs exposing both the stateful Responses surface and the stateless Chat
// Completions surface.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/joho/godotenv/autoload"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mantle",
	Short: "Interactive CLI for OpenAI-compatible Responses and Chat Completions APIs",
	Long: `mantle talks to an OpenAI-compatible inference endpoint through either of
its two API surfaces:

  - Responses API: stateful conversations with background processing support
  - Chat Completions API: stateless chat completions

Both surfaces serve the same models. Configuration comes from environment
variables (or a .env file):

  OPENAI_API_KEY   API key (required)
  OPENAI_BASE_URL  endpoint URL (required)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
