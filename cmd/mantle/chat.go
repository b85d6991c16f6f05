package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mantle-cli/mantle/providers/api"
	"github.com/mantle-cli/mantle/providers/api/completions"
	"github.com/mantle-cli/mantle/providers/api/responses"
	"github.com/mantle-cli/mantle/session"
)

var chatFlags struct {
	model          string
	noStream       bool
	useCompletions bool
	background     bool
	system         string
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session.

By default, uses the Responses API with streaming enabled.

API comparison:
  - Responses API (default): stateful, supports background processing,
    maintains conversation context automatically via previous_response_id
  - Chat Completions API (--completions): stateless, simpler interface,
    requires manual conversation history management

Commands during chat:
  /quit or /q  - Exit the chat
  /exit or /e  - Exit the chat
  /clear       - Clear conversation history
  /status      - Show current API mode and settings`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatFlags.model, "model", "m", "", "Model ID or inference profile to use (required)")
	chatCmd.Flags().BoolVar(&chatFlags.noStream, "no-stream", false, "Disable streaming (streaming is enabled by default)")
	chatCmd.Flags().BoolVar(&chatFlags.useCompletions, "completions", false, "Use Chat Completions API instead of Responses API")
	chatCmd.Flags().BoolVar(&chatFlags.background, "background", false, "Enable background processing (Responses API only)")
	chatCmd.Flags().StringVarP(&chatFlags.system, "system", "s", "You are a helpful assistant.", "System prompt for the conversation")
	_ = chatCmd.MarkFlagRequired("model")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatFlags.background && chatFlags.useCompletions {
		return fmt.Errorf("background processing is only available with the Responses API.\nRemove --completions to use background mode")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Chat turns stream or poll for minutes; no global client timeout, the
	// turn context governs cancellation instead.
	httpClient := newHTTPClient(0)

	// The mode and state shape are paired at session start and never mixed.
	var (
		mode  api.Mode
		state session.State
	)
	if chatFlags.useCompletions {
		mode = completions.New().WithAPIKey(cfg.APIKey).WithBaseURL(cfg.BaseURL).WithHTTPClient(httpClient)
		state = session.NewTranscript()
	} else {
		mode = responses.New().WithAPIKey(cfg.APIKey).WithBaseURL(cfg.BaseURL).WithHTTPClient(httpClient)
		state = session.NewThread()
	}

	stream := !chatFlags.noStream

	sess, err := session.New(mode, state, session.Options{
		Model:        chatFlags.model,
		SystemPrompt: chatFlags.system,
		Stream:       stream,
		Background:   chatFlags.background,
	})
	if err != nil {
		return err
	}

	printChatBanner(cmd, stream)

	// Ctrl-C cancels the in-flight turn (issuing a best-effort server cancel
	// for background jobs) and ends the session.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	loop := session.NewLoop(sess, cmd.InOrStdin(), cmd.OutOrStdout())
	loop.UserLabel = styledLabel(userStyle, "You")
	loop.AssistantLabel = styledLabel(assistantStyle, "Assistant")

	return loop.Run(ctx)
}

func printChatBanner(cmd *cobra.Command, stream bool) {
	out := cmd.OutOrStdout()

	apiMode := "Responses"
	if chatFlags.useCompletions {
		apiMode = "Chat Completions"
	}

	if chatFlags.background && stream {
		fmt.Fprintln(out, "Note: Background mode with streaming - events will stream as processing completes.")
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Starting chat session")
	fmt.Fprintf(out, "  Model: %s\n", chatFlags.model)
	fmt.Fprintf(out, "  API: %s API\n", apiMode)
	fmt.Fprintf(out, "  Streaming: %s\n", enabledWord(stream))
	if !chatFlags.useCompletions {
		fmt.Fprintf(out, "  Background: %s\n", enabledWord(chatFlags.background))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, styledLabel(dimStyle, "Type /quit or /q to exit, /clear to reset conversation"))
	fmt.Fprintln(out, styledLabel(dimStyle, strings.Repeat("-", 60)))
	fmt.Fprintln(out)
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
