package quality

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/z-beam/zbeam/internal/logging"
)

// WinstonClient calls the Winston AI-content-detection API. The returned
// score is a 0..100 human-likeness rating; higher means more human-like.
type WinstonClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewWinstonClient creates a Winston client.
func NewWinstonClient(apiKey, baseURL string) *WinstonClient {
	if baseURL == "" {
		baseURL = "https://api.gowinston.ai/v2"
	}
	return &WinstonClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type winstonRequest struct {
	Text string `json:"text"`
}

type winstonResponse struct {
	Score float64 `json:"score"`
	Error string  `json:"error,omitempty"`
}

// Detect submits text and returns its human-likeness score.
func (c *WinstonClient) Detect(ctx context.Context, text string) (float64, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.QualityDebug("[Winston] Detect: text_len=%d", len(text))

	if c.apiKey == "" {
		return 0, fmt.Errorf("Winston API key not configured")
	}
	if len(text) == 0 {
		return 0, fmt.Errorf("empty text")
	}

	jsonData, err := json.Marshal(winstonRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Retry loop for rate limits
	maxRetries := 3
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			time.Sleep(time.Duration(1<<uint(i-1)) * time.Second)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/ai-content-detection", bytes.NewReader(jsonData))
		if err != nil {
			return 0, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return 0, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}

		var wr winstonResponse
		if err := json.Unmarshal(body, &wr); err != nil {
			return 0, fmt.Errorf("failed to parse response: %w", err)
		}
		if wr.Error != "" {
			return 0, fmt.Errorf("API error: %s", wr.Error)
		}
		if wr.Score < 0 || wr.Score > 100 {
			return 0, fmt.Errorf("score out of range: %g", wr.Score)
		}

		logging.Quality("[Winston] Detect: score=%.1f in %v", wr.Score, time.Since(startTime))
		return wr.Score, nil
	}

	logging.Get(logging.CategoryQuality).Error("[Winston] Detect: max retries exceeded: %v", lastErr)
	return 0, fmt.Errorf("max retries exceeded: %w", lastErr)
}
