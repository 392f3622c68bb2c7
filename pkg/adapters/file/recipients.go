// Package file reads wave recipient lists from line-oriented files.
package file

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RecipientList implements ports.RecipientSource over the local filesystem.
type RecipientList struct{}

// NewRecipientList creates a filesystem recipient source.
func NewRecipientList() *RecipientList {
	return &RecipientList{}
}

// ReadLines returns one trimmed identity per line, order preserved, empty
// lines skipped. The wave initiator forwards the error text to the operator
// on failure.
func (RecipientList) ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipient list: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipient list: %w", err)
	}
	return lines, nil
}
