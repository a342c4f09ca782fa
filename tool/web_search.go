package tool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Serper endpoint defaults.
const (
	defaultSerperBaseURL = "https://google.serper.dev"
	defaultSerperRegion  = "de"
)

// SerperOptions configure the Serper-backed search tools.
type SerperOptions struct {
	// APIKey for the Serper API. Defaults to the SERPER_API_KEY environment variable.
	APIKey string
	// BaseURL of the Serper API. Overridable for tests.
	BaseURL string
	// Region passed as the "gl" query localization parameter.
	Region string
	// HTTPClient used for requests. Defaults to a client with a 15s timeout.
	HTTPClient *http.Client
}

func newSerperOptions(optFns []func(o *SerperOptions)) SerperOptions {
	opts := SerperOptions{
		APIKey:     os.Getenv("SERPER_API_KEY"),
		BaseURL:    defaultSerperBaseURL,
		Region:     defaultSerperRegion,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// serperPost posts a query to a Serper endpoint and decodes the JSON body.
// Transport and decode failures are reported as user-visible strings, not
// errors: the executor records them as tool results and moves on.
func serperPost(toolCtx *Context, opts SerperOptions, path, query, apiLabel string) (map[string]json.RawMessage, string) {
	payload, _ := json.Marshal(map[string]string{"q": query, "gl": opts.Region})
	req, err := http.NewRequestWithContext(toolCtx.Context(), http.MethodPost, opts.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Sprintf("Error calling %s API: %v", apiLabel, err)
	}
	req.Header.Set("X-API-KEY", opts.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Sprintf("Error calling %s API: %v", apiLabel, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Sprintf("Error calling %s API: %v", apiLabel, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Sprintf("Error calling %s API: unexpected status %d", apiLabel, resp.StatusCode)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Sprintf("Error: invalid JSON from %s API: %s", apiLabel, truncate(string(body), 500))
	}
	return decoded, ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func queryOnlySchema(description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": description},
		},
		"required":             []string{"query"},
		"additionalProperties": false,
	}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// WebSearch is a tool that searches the web via Serper's search endpoint and
// returns the organic results as a JSON string.
type WebSearch struct {
	opts SerperOptions
}

// NewWebSearch constructs the web search tool.
func NewWebSearch(optFns ...func(o *SerperOptions)) *WebSearch {
	return &WebSearch{opts: newSerperOptions(optFns)}
}

// Name implements Tool.
func (t *WebSearch) Name() string { return "google_web_search" }

// Description implements Tool.
func (t *WebSearch) Description() string {
	return "Searches for information on the web using Serper's search endpoint."
}

// Parameters implements Tool.
func (t *WebSearch) Parameters() map[string]any {
	return queryOnlySchema("Search query for information on the web.")
}

// Call implements Tool.
func (t *WebSearch) Call(toolCtx *Context, args map[string]any) (string, error) {
	decoded, errText := serperPost(toolCtx, t.opts, "/search", stringArg(args, "query"), "search")
	if errText != "" {
		return errText, nil
	}
	organic, ok := decoded["organic"]
	if !ok || string(organic) == "[]" || string(organic) == "null" {
		out, _ := json.Marshal(map[string]any{"organic": []any{}, "message": "No organic results returned."})
		return string(out), nil
	}
	return string(organic), nil
}
