package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about API differences and limitations",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), infoText)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

const infoText = `
OpenAI-Compatible APIs
======================

CONFIGURATION
-------------
Set these environment variables (or use a .env file):

  OPENAI_BASE_URL  Endpoint URL (required)
                   Example: https://bedrock-mantle.us-east-1.api.aws/v1

  OPENAI_API_KEY   Your API key (required)

API COMPARISON
--------------
  Feature                  Responses API         Chat Completions API
  -----------------------  --------------------  ---------------------
  State Management         Stateful              Stateless
  Conversation Context     Automatic (ID)        Manual (history)
  Background Processing    Supported             Not supported
  Streaming                Supported             Supported
  Cancel Request           Supported             Not supported

MODEL AVAILABILITY
------------------
Both APIs access the same set of models through the endpoint.
Use 'list-models' to see what is available.

BACKGROUND PROCESSING
---------------------
The Responses API supports async background processing for long-running tasks:
  1. Submit with background enabled (use the --background flag)
  2. Receive an immediate response with an ID and status "queued"
  3. The CLI polls for completion using the response ID
  4. Results are shown once status reaches "completed"

This is useful for complex reasoning tasks that may take minutes, and for
avoiding connection timeouts on long generations.

LIMITATIONS
-----------
- The Chat Completions API does not support background processing
- Background mode has higher time-to-first-token latency
`
