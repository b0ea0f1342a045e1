package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/model"
)

// requiredColumns must all be present in the input header. Column matching is
// case-insensitive; extra columns are ignored.
var requiredColumns = []string{"name", "phone_number", "city", "state"}

// LoadCompanies reads the input table, dispatching on file extension.
func LoadCompanies(path string) ([]model.Company, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCompanyCSV(path)
	case ".xlsx":
		return parseCompanyXLSX(path)
	default:
		return nil, eris.Errorf("load: unsupported input format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// parseCompanyCSV reads a company list CSV and returns parsed rows.
func parseCompanyCSV(path string) ([]model.Company, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "load: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "load: read csv")
	}

	if len(records) < 2 {
		return nil, eris.New("load: input has no data rows")
	}

	return rowsToCompanies(records[0], records[1:])
}

// parseCompanyXLSX reads the first sheet of an XLSX workbook.
func parseCompanyXLSX(path string) ([]model.Company, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "load: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("load: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	var rows [][]string
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}

	if len(rows) < 2 {
		return nil, eris.New("load: input has no data rows")
	}

	return rowsToCompanies(rows[0], rows[1:])
}

// rowsToCompanies validates the header and maps data rows to companies.
// A missing required column is fatal before any row is processed.
func rowsToCompanies(header []string, rows [][]string) ([]model.Company, error) {
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("load: missing required column %q", col)
		}
	}

	var companies []model.Company
	for _, row := range rows {
		c := model.Company{
			Name:        getCol(row, colIdx, "name"),
			PhoneNumber: getCol(row, colIdx, "phone_number"),
			City:        getCol(row, colIdx, "city"),
			State:       getCol(row, colIdx, "state"),
		}
		if c.Empty() {
			continue
		}
		companies = append(companies, c)
	}

	if len(companies) == 0 {
		return nil, eris.New("load: no valid companies found in input")
	}

	return companies, nil
}

// getCol safely retrieves a column value from a row.
func getCol(row []string, colIdx map[string]int, col string) string {
	idx, ok := colIdx[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
