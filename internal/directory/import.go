package directory

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/reachly/reachly/internal/campaign"
)

// ImportResult holds the outcome of a CSV import.
type ImportResult struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportCSV imports contacts from CSV data. Column headers are matched
// case-insensitively against the common export names; only an email column is
// required. A UTF-8 BOM, as written by Excel, is stripped.
func (s *Store) ImportCSV(reader io.Reader) (*ImportResult, error) {
	result := &ImportResult{}

	br := bufio.NewReader(reader)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xEF\xBB\xBF" {
		br.Discard(3)
	}

	csvReader := csv.NewReader(br)
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "email", "e-mail", "email address", "email_address":
			cols["email"] = i
		case "first name", "first_name", "firstname":
			cols["first_name"] = i
		case "last name", "last_name", "lastname":
			cols["last_name"] = i
		case "company", "organization":
			cols["company"] = i
		case "job title", "job_title", "title":
			cols["job_title"] = i
		case "city":
			cols["city"] = i
		case "state":
			cols["state"] = i
		}
	}

	if _, ok := cols["email"]; !ok {
		return nil, fmt.Errorf("email column not found in CSV")
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		result.Total++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", result.Total, err))
			result.Skipped++
			continue
		}

		contact := &campaign.Contact{
			FirstName: field(record, "first_name"),
			LastName:  field(record, "last_name"),
			Email:     field(record, "email"),
			Company:   field(record, "company"),
			JobTitle:  field(record, "job_title"),
			City:      field(record, "city"),
			State:     field(record, "state"),
		}

		if err := s.Add(contact); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): %v", result.Total, contact.Email, err))
			result.Skipped++
			continue
		}
		result.Imported++
	}

	return result, nil
}
