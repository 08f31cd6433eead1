package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/z-beam/zbeam/internal/logging"
)

// GenerateJSON calls the client, repairs the response, and unmarshals it into
// out. On parse failure it re-prompts up to maxAttempts times with linear
// backoff between attempts.
func GenerateJSON(ctx context.Context, client Client, systemPrompt, userPrompt string, out interface{}, maxAttempts int) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 2 * time.Second):
			}
			logging.APIWarn("GenerateJSON: retry %d/%d after: %v", attempt, maxAttempts-1, lastErr)
		}

		raw, err := client.CompleteWithSystem(ctx, systemPrompt, userPrompt)
		if err != nil {
			lastErr = err
			continue
		}

		cleaned := Repair(raw)
		if err := json.Unmarshal([]byte(cleaned), out); err != nil {
			lastErr = fmt.Errorf("failed to parse LLM JSON (raw_len=%d): %w", len(raw), err)
			continue
		}
		return nil
	}

	return fmt.Errorf("JSON generation failed after %d attempts: %w", maxAttempts, lastErr)
}
