package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mantle-cli/mantle/internal/httpx"
)

// modelList matches the /models listing shape shared by OpenAI-compatible
// endpoints.
type modelList struct {
	Data []modelEntry `json:"data"`
}

type modelEntry struct {
	ID      string `json:"id"`
	Created int64  `json:"created,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available models",
	Long: `List available models at the configured endpoint.

The same set of models is served by both the Responses API and the
Chat Completions API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Endpoint: %s\n\n", cfg.BaseURL)

		client := newHTTPClient(30 * time.Second)
		models, err := httpx.GetJSON[modelList](cmd.Context(), client, cfg.BaseURL+"/models", cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}

		fmt.Fprintln(out, "Available Models:")
		fmt.Fprintln(out, strings.Repeat("-", 60))

		for _, model := range models.Data {
			fmt.Fprintf(out, "  ID: %s\n", model.ID)
			if model.Created != 0 {
				fmt.Fprintf(out, "      Created: %d\n", model.Created)
			}
			if model.OwnedBy != "" {
				fmt.Fprintf(out, "      Owner: %s\n", model.OwnedBy)
			}
			fmt.Fprintln(out)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listModelsCmd)
}
