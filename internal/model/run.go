package model

import "time"

// RunStatus is the journal classification of a processed row.
type RunStatus string

const (
	RunStatusAnalyzed       RunStatus = "analyzed"
	RunStatusParseError     RunStatus = "parse_error"
	RunStatusTransportError RunStatus = "transport_error"
)

// Run is one journal entry: the recorded outcome of a single company
// analysis. The journal exists so an operator can locate failed rows and
// re-run them with a start offset and count.
type Run struct {
	ID          string          `json:"id"`
	CompanyName string          `json:"company_name"`
	Status      RunStatus       `json:"status"`
	Result      *AnalysisResult `json:"result,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
