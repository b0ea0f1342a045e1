package model

// AnalysisResult is the structured analysis for one company. Exactly one
// result is produced per input row, in input order. A result is either the
// success variant (the ten analysis fields populated from the model reply) or
// an error variant (diagnostics set, analysis fields left at their zero
// values), never a mix of both. Failed distinguishes the two.
type AnalysisResult struct {
	CompanyName         string   `json:"company_name"`
	HasWebsite          bool     `json:"has_website"`
	WebsiteURL          string   `json:"website_url"`
	WebsiteNotes        string   `json:"website_notes"`
	NeedsWebsiteRemake  bool     `json:"needs_website_remake"`
	BusinessType        string   `json:"business_type"`
	SocialMediaLinks    []string `json:"social_media_links"`
	DirectoryListings   []string `json:"directory_listings"`
	RecommendedServices []string `json:"recommended_services"`
	SalesScript         string   `json:"sales_script"`

	// Diagnostics. TransportError is set when the API call itself failed and
	// the reply was never parsed. ParseError and RawResponse are set when the
	// reply could not be recovered as JSON; RawResponse holds a bounded
	// prefix of the original reply text.
	TransportError string `json:"error,omitempty"`
	ParseError     string `json:"_error,omitempty"`
	RawResponse    string `json:"_raw_response,omitempty"`
}

// Failed reports whether the result is an error variant.
func (r *AnalysisResult) Failed() bool {
	return r.TransportError != "" || r.ParseError != ""
}

// Status classifies the result for the run journal.
func (r *AnalysisResult) Status() RunStatus {
	switch {
	case r.TransportError != "":
		return RunStatusTransportError
	case r.ParseError != "":
		return RunStatusParseError
	default:
		return RunStatusAnalyzed
	}
}
