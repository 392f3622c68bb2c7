// Package sheets implements the result sink on Google Sheets: one row per
// completed respondent, appended after the last non-empty cell of column A.
package sheets

import (
	"context"
	"fmt"
	"regexp"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

var spreadsheetIDRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// Sink implements ports.ResultSink over the Sheets API.
type Sink struct {
	svc *sheetsapi.Service
}

// NewSink authorizes with a service-account credentials file.
func NewSink(ctx context.Context, credsFile string) (*Sink, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize sheets client: %w", err)
	}
	return &Sink{svc: svc}, nil
}

// NewSinkFromService wraps an existing service (tests).
func NewSinkFromService(svc *sheetsapi.Service) *Sink {
	return &Sink{svc: svc}
}

// SpreadsheetID extracts the document ID from a sheet URL.
func SpreadsheetID(location string) (string, error) {
	m := spreadsheetIDRe.FindStringSubmatch(location)
	if m == nil {
		return "", fmt.Errorf("not a spreadsheet url: %s", location)
	}
	return m[1], nil
}

// AppendRow writes the row at the first free row of the sheet's column A.
func (s *Sink) AppendRow(ctx context.Context, location string, row []any) error {
	id, err := SpreadsheetID(location)
	if err != nil {
		return err
	}

	col, err := s.svc.Spreadsheets.Values.Get(id, "A:A").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to scan primary column: %w", err)
	}

	target := nextFreeRow(col.Values)
	writeRange := fmt.Sprintf("A%d:%c%d", target, rune('A'+len(row)-1), target)

	_, err = s.svc.Spreadsheets.Values.
		Update(id, writeRange, &sheetsapi.ValueRange{Values: [][]any{row}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// nextFreeRow counts the non-empty entries of the primary column and points
// at the row after the last of them. Sheets rows are 1-based.
func nextFreeRow(column [][]any) int {
	filled := 0
	for _, row := range column {
		if len(row) > 0 && row[0] != "" {
			filled++
		}
	}
	return filled + 1
}
