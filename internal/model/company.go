package model

// Company is one input row from the company list. Rows are immutable once
// read; the loader rejects files missing any of the four required columns.
type Company struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	City        string `json:"city"`
	State       string `json:"state"`
}

// Empty reports whether every field is blank. The loader skips such rows
// (trailing blank lines in exported spreadsheets produce them).
func (c Company) Empty() bool {
	return c.Name == "" && c.PhoneNumber == "" && c.City == "" && c.State == ""
}
