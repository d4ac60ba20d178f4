package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Defaults for a stock local Ollama install.
const (
	DefaultHost    = "http://localhost:11434"
	DefaultModel   = "gemma3:4b"
	DefaultTimeout = 60 * time.Second
)

// Sentinel errors for the inference stage. Each maps to a distinct,
// actionable failure; none is retried.
var (
	// ErrConnection means the Ollama service could not be reached at all
	// (not running, wrong host/port, or the request timed out).
	ErrConnection = errors.New("cannot reach the Ollama service")

	// ErrModelNotFound means the service is up but the requested model
	// has not been pulled.
	ErrModelNotFound = errors.New("model not available")

	// ErrInference means the service answered but the response was
	// malformed or empty.
	ErrInference = errors.New("unusable model response")
)

// describePrompt is the fixed instruction sent with every image. Short,
// example-driven prompts keep small local models from rambling.
const describePrompt = "Describe what this image is about in 1-3 words. " +
	"Focus on the main subject, action, or theme. " +
	"Use simple English words separated by spaces. " +
	"Examples: 'sunset beach', 'cat sleeping', 'mountain landscape'. " +
	"Only respond with the description, nothing else."

// Client talks to a local Ollama HTTP API.
//
// The zero value is not usable; construct with NewClient:
//
//	client := ollama.NewClient(ollama.DefaultHost, ollama.DefaultTimeout)
//	text, err := client.Describe(ctx, "gemma3:4b", imageBytes)
type Client struct {
	host       string
	httpClient *http.Client
}

// NewClient creates a client for the Ollama API at host.
//
// An explicit timeout is mandatory: a stuck local model would otherwise
// block the whole run indefinitely. Pass DefaultTimeout (60s) unless the
// caller configured something else; timeout <= 0 falls back to the default.
func NewClient(host string, timeout time.Duration) *Client {
	if host == "" {
		host = DefaultHost
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		host: strings.TrimRight(host, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Host returns the base URL the client talks to.
func (c *Client) Host() string {
	return c.host
}

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error"`
}

// Describe asks model for a short description of the image and returns the
// raw response text, whitespace-trimmed but otherwise unparsed.
//
// This is the one outbound network call of a rename run: a single
// non-streaming POST to /api/chat with the image attached as base64.
//
// Returns an error wrapping:
//   - ErrConnection if the service is unreachable or the call times out
//   - ErrModelNotFound if the service reports the model as missing
//   - ErrInference if the response is malformed or empty
func (c *Client) Describe(ctx context.Context, model string, image []byte) (string, error) {
	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{
				Role:    "user",
				Content: describePrompt,
				Images:  []string{base64.StdEncoding.EncodeToString(image)},
			},
		},
		Stream: false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w at %s: %v", ErrConnection, c.host, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: HTTP %d: %v", ErrInference, resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound || strings.Contains(parsed.Error, "not found") {
			return "", fmt.Errorf("%w: %q (try: ollama pull %s)", ErrModelNotFound, model, model)
		}
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrInference, resp.StatusCode, parsed.Error)
	}

	content := strings.TrimSpace(parsed.Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: the model returned an empty description", ErrInference)
	}

	return content, nil
}

type versionResponse struct {
	Version string `json:"version"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// CheckReport summarizes service diagnostics gathered by Check.
type CheckReport struct {
	// Version is the Ollama server version string.
	Version string

	// Models lists the model tags the server has pulled.
	Models []string

	// ModelFound reports whether the requested model is among them.
	ModelFound bool
}

// Check probes the service without running any inference: it fetches the
// server version and the list of pulled models concurrently and reports
// whether model is available.
//
// Used by the --check flag so a user can diagnose ErrConnection and
// ErrModelNotFound conditions up front. Rename runs never call this; they
// stay at exactly one outbound request.
func (c *Client) Check(ctx context.Context, model string) (*CheckReport, error) {
	var (
		version versionResponse
		tags    tagsResponse
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(ctx, "/api/version", &version)
	})
	g.Go(func() error {
		return c.getJSON(ctx, "/api/tags", &tags)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &CheckReport{Version: version.Version}
	for _, m := range tags.Models {
		report.Models = append(report.Models, m.Name)
		if matchesModel(m.Name, model) {
			report.ModelFound = true
		}
	}
	return report, nil
}

// matchesModel reports whether the pulled tag name satisfies the requested
// model. A request without an explicit tag ("gemma3") matches any tag of
// that model ("gemma3:4b", "gemma3:latest").
func matchesModel(name, requested string) bool {
	if name == requested {
		return true
	}
	if !strings.Contains(requested, ":") {
		return strings.HasPrefix(name, requested+":")
	}
	return false
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w at %s: %v", ErrConnection, c.host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned HTTP %d", ErrInference, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInference, path, err)
	}
	return nil
}
