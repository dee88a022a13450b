package parser

import (
	"encoding/csv"
	"errors"
	"os"
	"strings"
)

// CSVParser renders each row as its fields joined by " | ", one row per line.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Extension() string {
	return "csv"
}

func (p *CSVParser) Parse(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", parseError("CSV", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // rows may have differing widths
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return "", parseError("CSV", err)
	}
	if len(rows) == 0 {
		return "", parseError("CSV", errors.New("CSV file is empty"))
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, " | ")
	}
	return strings.Join(lines, "\n"), nil
}
