package pipeline

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

// parseFailureNote is written into the user-facing fields of the error variant.
const parseFailureNote = "Error parsing response"

// rawResponseLimit bounds the diagnostic copy of the reply kept on parse failure.
const rawResponseLimit = 500

var (
	// A reply opening with a JSON-tagged fence; captures up to the next
	// closing fence.
	leadingFenceRE = regexp.MustCompile("(?is)^```json\\s*(.*?)```")

	// Any fenced span anywhere in the text.
	fencedSpanRE = regexp.MustCompile("(?s)```.*?```")
)

// ParseAnalysis turns a raw model reply into exactly one AnalysisResult
// variant. Replies arrive inconsistently wrapped: sometimes bare JSON,
// sometimes fenced, sometimes fenced mid-prose. The cascade tries a leading
// fence strip, then whole-text fence removal, and anything still unparseable
// becomes the error variant. This function never returns an error upward.
func ParseAnalysis(company model.Company, reply string) model.AnalysisResult {
	candidate, _ := extractCandidate(reply)
	if result, err := decodeAnalysis(candidate); err == nil {
		return attribute(result, company)
	}

	// Second chance: drop every fenced span from the original reply and
	// parse what remains.
	result, err := decodeAnalysis(stripFencedSpans(reply))
	if err == nil {
		return attribute(result, company)
	}

	zap.L().Warn("extract: unparseable analysis reply",
		zap.String("company", company.Name),
		zap.Error(err),
	)
	return parseFailureResult(company, reply, err)
}

// extractCandidate applies fence detection to a model reply. When the trimmed
// reply opens with a JSON-tagged fence it returns the text strictly between
// that fence and the next closing fence; otherwise the trimmed reply itself.
// The boolean reports whether a fenced candidate was found.
func extractCandidate(reply string) (string, bool) {
	trimmed := strings.TrimSpace(reply)
	if m := leadingFenceRE.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return trimmed, false
}

// stripFencedSpans removes every triple-backtick fenced span from text.
func stripFencedSpans(text string) string {
	return strings.TrimSpace(fencedSpanRE.ReplaceAllString(text, ""))
}

func decodeAnalysis(candidate string) (model.AnalysisResult, error) {
	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return model.AnalysisResult{}, err
	}
	return result, nil
}

// attribute fills company_name from the input row when the model omitted it,
// so every output row stays attributable.
func attribute(result model.AnalysisResult, company model.Company) model.AnalysisResult {
	if result.CompanyName == "" {
		result.CompanyName = company.Name
	}
	return result
}

// parseFailureResult builds the terminal error variant: analysis fields at
// their zero values, user-facing note columns set, and diagnostics carrying
// the parse error plus a bounded prefix of the original reply.
func parseFailureResult(company model.Company, reply string, parseErr error) model.AnalysisResult {
	raw := reply
	if len(raw) > rawResponseLimit {
		raw = raw[:rawResponseLimit]
	}
	return model.AnalysisResult{
		CompanyName:  company.Name,
		WebsiteNotes: parseFailureNote,
		SalesScript:  parseFailureNote,
		ParseError:   parseErr.Error(),
		RawResponse:  raw,
	}
}

// responseText concatenates the text content blocks of a message response.
func responseText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}
