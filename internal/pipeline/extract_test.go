package pipeline

import (
	"strings"
	"testing"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

var testCompany = model.Company{
	Name:        "Acme Plumbing",
	PhoneNumber: "555-0100",
	City:        "Tulsa",
	State:       "OK",
}

const cleanAnalysisJSON = `{
	"company_name": "Acme Plumbing",
	"has_website": true,
	"website_url": "https://acmeplumbing.com",
	"website_notes": "Outdated, not mobile friendly",
	"needs_website_remake": true,
	"business_type": "Plumbing contractor",
	"social_media_links": ["https://facebook.com/acmeplumbing"],
	"directory_listings": ["https://yelp.com/biz/acme-plumbing"],
	"recommended_services": ["website remake", "SEO"],
	"sales_script": "Hi, I noticed your website..."
}`

func TestParseAnalysis_RawJSON(t *testing.T) {
	result := ParseAnalysis(testCompany, cleanAnalysisJSON)

	if result.Failed() {
		t.Fatalf("expected success variant, got parse error %q", result.ParseError)
	}
	if result.CompanyName != "Acme Plumbing" {
		t.Errorf("company_name = %q, want %q", result.CompanyName, "Acme Plumbing")
	}
	if !result.HasWebsite || !result.NeedsWebsiteRemake {
		t.Errorf("boolean fields not populated: has_website=%v needs_remake=%v", result.HasWebsite, result.NeedsWebsiteRemake)
	}
	if len(result.RecommendedServices) != 2 {
		t.Errorf("recommended_services = %v, want 2 entries", result.RecommendedServices)
	}
}

func TestParseAnalysis_FencedRoundTrip(t *testing.T) {
	fenced := "```json\n" + cleanAnalysisJSON + "\n```"

	got := ParseAnalysis(testCompany, fenced)
	want := ParseAnalysis(testCompany, cleanAnalysisJSON)

	if got.Failed() {
		t.Fatalf("expected success variant, got parse error %q", got.ParseError)
	}
	if got.CompanyName != want.CompanyName || got.WebsiteURL != want.WebsiteURL || got.SalesScript != want.SalesScript {
		t.Errorf("fenced parse differs from direct parse:\n got %+v\nwant %+v", got, want)
	}
}

func TestParseAnalysis_LeadingWhitespaceBeforeFence(t *testing.T) {
	fenced := "\n\n  ```json\n" + cleanAnalysisJSON + "\n```\n"

	result := ParseAnalysis(testCompany, fenced)
	if result.Failed() {
		t.Fatalf("expected success variant, got parse error %q", result.ParseError)
	}
}

func TestParseAnalysis_MidTextFenceRecovery(t *testing.T) {
	// The leading fence is untagged, so step 1 passes the whole (unparseable)
	// reply through; whole-text fence removal must strip the fenced noise and
	// leave the raw JSON parseable.
	reply := "```\nLet me work through this company first.\n```\n" + cleanAnalysisJSON

	result := ParseAnalysis(testCompany, reply)
	if result.Failed() {
		t.Fatalf("expected recovery via fence removal, got parse error %q", result.ParseError)
	}
	if result.WebsiteURL != "https://acmeplumbing.com" {
		t.Errorf("website_url = %q after recovery, want the original value", result.WebsiteURL)
	}
}

func TestParseAnalysis_TrailingFenceRecovery(t *testing.T) {
	reply := cleanAnalysisJSON + "\n```\nThat concludes the analysis.\n```"

	result := ParseAnalysis(testCompany, reply)
	if result.Failed() {
		t.Fatalf("expected recovery via fence removal, got parse error %q", result.ParseError)
	}
	if result.BusinessType != "Plumbing contractor" {
		t.Errorf("business_type = %q after recovery", result.BusinessType)
	}
}

func TestParseAnalysis_GarbageIsErrorVariant(t *testing.T) {
	garbage := strings.Repeat("I could not find any information about this company. ", 20)

	result := ParseAnalysis(testCompany, garbage)

	if !result.Failed() {
		t.Fatal("expected error variant for unparseable prose")
	}
	if result.CompanyName != testCompany.Name {
		t.Errorf("company_name = %q, want input name %q", result.CompanyName, testCompany.Name)
	}
	if result.WebsiteNotes != parseFailureNote || result.SalesScript != parseFailureNote {
		t.Errorf("note fields = (%q, %q), want %q", result.WebsiteNotes, result.SalesScript, parseFailureNote)
	}
	if result.ParseError == "" {
		t.Error("_error is empty, want the parse error message")
	}
	if len(result.RawResponse) > rawResponseLimit {
		t.Errorf("_raw_response is %d chars, want at most %d", len(result.RawResponse), rawResponseLimit)
	}
	if !strings.HasPrefix(garbage, result.RawResponse) {
		t.Error("_raw_response is not a prefix of the original reply")
	}
	// Success fields stay at their zero values.
	if result.HasWebsite || result.WebsiteURL != "" || len(result.SocialMediaLinks) != 0 {
		t.Errorf("success fields populated on error variant: %+v", result)
	}
}

func TestParseAnalysis_ShortGarbageKeptWhole(t *testing.T) {
	result := ParseAnalysis(testCompany, "no json here")
	if result.RawResponse != "no json here" {
		t.Errorf("_raw_response = %q, want the full short reply", result.RawResponse)
	}
}

func TestParseAnalysis_ExactlyOneVariant(t *testing.T) {
	replies := []string{
		cleanAnalysisJSON,
		"```json\n" + cleanAnalysisJSON + "\n```",
		"```json\n{broken\n```",
		"",
		"   ",
		"```",
		"null",
		"[1, 2, 3]",
		strings.Repeat("x", 2000),
	}
	for _, reply := range replies {
		result := ParseAnalysis(testCompany, reply)
		// An error variant has diagnostics and the note fields; a success
		// variant has neither. Either way exactly one result comes back and
		// it is internally consistent.
		if result.Failed() {
			if result.WebsiteNotes != parseFailureNote {
				t.Errorf("reply %q: error variant missing failure note", truncateForMsg(reply))
			}
		} else if result.ParseError != "" || result.RawResponse != "" {
			t.Errorf("reply %q: success variant carries diagnostics", truncateForMsg(reply))
		}
	}
}

func TestParseAnalysis_CompanyNameFallback(t *testing.T) {
	result := ParseAnalysis(testCompany, `{"has_website": false}`)
	if result.Failed() {
		t.Fatalf("expected success variant, got parse error %q", result.ParseError)
	}
	if result.CompanyName != testCompany.Name {
		t.Errorf("company_name = %q, want fallback to input name", result.CompanyName)
	}
}

func TestExtractCandidate(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		want      string
		wantFence bool
	}{
		{"raw json", `{"a": 1}`, `{"a": 1}`, false},
		{"fenced json", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"uppercase tag", "```JSON\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"untagged fence is passthrough", "```\n{\"a\": 1}\n```", "```\n{\"a\": 1}\n```", false},
		{"prose before fence is passthrough", "note\n```json\n{}\n```", "note\n```json\n{}\n```", false},
		{"unclosed fence is passthrough", "```json\n{\"a\": 1}", "```json\n{\"a\": 1}", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fenced := extractCandidate(tt.reply)
			if got != tt.want || fenced != tt.wantFence {
				t.Errorf("extractCandidate() = (%q, %v), want (%q, %v)", got, fenced, tt.want, tt.wantFence)
			}
		})
	}
}

func TestStripFencedSpans(t *testing.T) {
	text := "keep\n```json\ndrop this\n```\nkeep too\n```\nand this\n```"
	got := stripFencedSpans(text)
	if strings.Contains(got, "drop this") || strings.Contains(got, "and this") {
		t.Errorf("fenced spans not removed: %q", got)
	}
	if !strings.Contains(got, "keep") || !strings.Contains(got, "keep too") {
		t.Errorf("unfenced text removed: %q", got)
	}
}

func TestResponseText(t *testing.T) {
	resp := &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{
			{Type: "text", Text: "first"},
			{Type: "text", Text: ""},
			{Type: "text", Text: "second"},
		},
	}
	if got := responseText(resp); got != "first\nsecond" {
		t.Errorf("responseText() = %q", got)
	}
	if got := responseText(nil); got != "" {
		t.Errorf("responseText(nil) = %q, want empty", got)
	}
}

func truncateForMsg(s string) string {
	if len(s) > 30 {
		return s[:30] + "..."
	}
	return s
}
