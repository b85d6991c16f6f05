package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Config carries the credentials and endpoint for the remote service. It is
// loaded here, in CLI glue, and handed to the session engine as opaque
// values; nothing below this layer reads the environment.
type Config struct {
	APIKey  string
	BaseURL string
}

// loadConfig reads OPENAI_API_KEY and OPENAI_BASE_URL from the environment
// (a .env file is honored via the godotenv autoload import in main). Missing
// values produce actionable errors rather than failing on the first request.
func loadConfig() (Config, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	baseURL := strings.TrimRight(os.Getenv("OPENAI_BASE_URL"), "/")

	if apiKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required. Set it in a .env file or as an environment variable")
	}
	if baseURL == "" {
		return Config{}, fmt.Errorf("OPENAI_BASE_URL is required. Set it in a .env file or as an environment variable.\nExample: https://bedrock-mantle.us-east-1.api.aws/v1")
	}

	return Config{APIKey: apiKey, BaseURL: baseURL}, nil
}

// newHTTPClient returns the outbound HTTP client. Bounded calls such as
// list-models pass a timeout; chat turns pass zero so long generations are
// not cut off mid-stream.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
