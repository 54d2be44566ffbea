package analyzer

import (
	"context"
	"fmt"
	"os"
)

// Analyzer chooses between AI analysis and a deterministic fallback. A nil
// client (the --no-ai path) always takes the fallback.
type Analyzer struct {
	client *Client
}

// NewAnalyzer wraps client; pass nil to disable the AI path entirely.
func NewAnalyzer(client *Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze returns the AI reply for prompt, or fallback() when the AI path is
// disabled or fails. The failure is reported on stderr so the user knows why
// they got the canned report.
func (a *Analyzer) Analyze(ctx context.Context, prompt, contextID string, fallback func() string) string {
	if a.client == nil {
		return fallback()
	}
	text, err := a.client.Analyze(ctx, prompt, contextID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AI analysis unavailable (%v), using built-in analysis\n", err)
		return fallback()
	}
	return text
}
