package pipeline

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// analysisColumns is the fixed ordered column set every output row carries.
var analysisColumns = []string{
	"company_name",
	"has_website",
	"website_url",
	"website_notes",
	"needs_website_remake",
	"business_type",
	"social_media_links",
	"directory_listings",
	"recommended_services",
	"sales_script",
}

// Diagnostic columns are appended only when some row produced them, so a
// clean run's output stays free of error plumbing.
const (
	colTransportError = "error"
	colParseError     = "_error"
	colRawResponse    = "_raw_response"
)

// WriteResultsCSV rewrites the full output snapshot. The orchestrator calls
// it after every processed row, so an interrupted run keeps every completed
// row on disk and loses at most the row in flight.
func WriteResultsCSV(results []model.AnalysisResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create output")
	}
	defer f.Close() //nolint:errcheck

	header := buildHeader(results)

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for i := range results {
		if err := w.Write(buildRow(&results[i], header)); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "export: flush")
}

// buildHeader returns the fixed columns plus whichever diagnostic columns any
// result produced (union of fields encountered).
func buildHeader(results []model.AnalysisResult) []string {
	header := append([]string{}, analysisColumns...)

	var hasTransport, hasParse, hasRaw bool
	for i := range results {
		hasTransport = hasTransport || results[i].TransportError != ""
		hasParse = hasParse || results[i].ParseError != ""
		hasRaw = hasRaw || results[i].RawResponse != ""
	}
	if hasTransport {
		header = append(header, colTransportError)
	}
	if hasParse {
		header = append(header, colParseError)
	}
	if hasRaw {
		header = append(header, colRawResponse)
	}
	return header
}

func buildRow(r *model.AnalysisResult, header []string) []string {
	row := make([]string, len(header))

	// The minimal transport-error variant carries only company_name and
	// error; the analysis columns were never produced and stay blank.
	if r.TransportError != "" {
		for i, col := range header {
			switch col {
			case "company_name":
				row[i] = r.CompanyName
			case colTransportError:
				row[i] = r.TransportError
			}
		}
		return row
	}

	for i, col := range header {
		switch col {
		case "company_name":
			row[i] = r.CompanyName
		case "has_website":
			row[i] = strconv.FormatBool(r.HasWebsite)
		case "website_url":
			row[i] = r.WebsiteURL
		case "website_notes":
			row[i] = r.WebsiteNotes
		case "needs_website_remake":
			row[i] = strconv.FormatBool(r.NeedsWebsiteRemake)
		case "business_type":
			row[i] = r.BusinessType
		case "social_media_links":
			row[i] = strings.Join(r.SocialMediaLinks, "; ")
		case "directory_listings":
			row[i] = strings.Join(r.DirectoryListings, "; ")
		case "recommended_services":
			row[i] = strings.Join(r.RecommendedServices, "; ")
		case "sales_script":
			row[i] = r.SalesScript
		case colTransportError:
			row[i] = r.TransportError
		case colParseError:
			row[i] = r.ParseError
		case colRawResponse:
			row[i] = r.RawResponse
		}
	}
	return row
}
