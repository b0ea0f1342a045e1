package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

// Compile-time interface check.
var _ anthropic.Client = (*StubAnthropicClient)(nil)

// StubAnthropicClient implements anthropic.Client with a deterministic canned
// analysis, for --offline mode and tests. The reply is fenced on purpose so
// offline runs exercise the same extraction path as real model output.
type StubAnthropicClient struct{}

// CreateMessage implements anthropic.Client.
func (s *StubAnthropicClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	name := companyNameFromPrompt(req)

	responseText := fmt.Sprintf("```json\n"+
		`{"company_name": %q, "has_website": true, "website_url": "https://example.com", `+
		`"website_notes": "Stub analysis", "needs_website_remake": false, "business_type": "unknown", `+
		`"social_media_links": [], "directory_listings": [], "recommended_services": ["website refresh"], `+
		`"sales_script": "Stub sales script"}`+
		"\n```", name)

	return &anthropic.MessageResponse{
		ID:         "stub-msg-001",
		Model:      req.Model,
		Content:    []anthropic.ContentBlock{{Type: "text", Text: responseText}},
		StopReason: "end_turn",
		Usage: anthropic.TokenUsage{
			InputTokens:  150,
			OutputTokens: 50,
		},
	}, nil
}

// companyNameFromPrompt echoes the "Company Name:" line back so stub output
// rows stay distinguishable per company.
func companyNameFromPrompt(req anthropic.MessageRequest) string {
	for _, m := range req.Messages {
		for _, line := range strings.Split(m.Content, "\n") {
			if rest, ok := strings.CutPrefix(line, "Company Name:"); ok {
				return strings.TrimSpace(rest)
			}
		}
	}
	return "unknown"
}
