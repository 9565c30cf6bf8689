package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/YuminosukeSato/housepriceai/pkg/errors"
	"github.com/YuminosukeSato/housepriceai/pkg/log"
)

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 30 * time.Second

// NoInsights is returned when the service answers with an empty text.
const NoInsights = "No insights generated."

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// HTTPGenerator calls an Ollama-compatible /api/generate endpoint.
type HTTPGenerator struct {
	baseURL string
	model   string
	client  *http.Client
	logger  log.Logger
}

// NewHTTPGenerator creates a generator for baseURL. A non-positive timeout
// falls back to DefaultTimeout.
func NewHTTPGenerator(baseURL, model string, timeout time.Duration) *HTTPGenerator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPGenerator{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  log.GetLoggerWithName("insight"),
	}
}

// Generate implements Generator.
func (g *HTTPGenerator) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()

	body, err := json.Marshal(generateRequest{Model: g.model, Prompt: BuildPrompt(req), Stream: false})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errors.Newf("insight request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "failed to decode response")
	}

	g.logger.Info("Insight generated",
		log.OperationKey, log.OperationInsight,
		"model", g.model,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return NoInsights, nil
	}
	return text, nil
}
