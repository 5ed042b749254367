package parsers

import (
	"fmt"
	"strings"
)

// Record represents a single sheet row as a map of field name to value
type Record map[string]string

// Skip reasons reported for rows that never become records
const (
	SkipShortRow    = "short_row"
	SkipInvalidJSON = "invalid_json"
)

// RowResult is the outcome of parsing one data row.
// Exactly one of Record and Skip is set.
type RowResult struct {
	Number int    // 1-based position among the non-empty data rows
	Record Record // mapped fields, nil when the row was skipped
	Skip   string // skip reason, empty when Record is set
	Detail string // optional human readable context for the skip
}

// OK reports whether the row produced a record
func (r RowResult) OK() bool {
	return r.Skip == ""
}

// ParseCSV parses a published spreadsheet export.
//
// The first non-empty line is the header row. Every following non-empty line
// is tokenized and mapped onto the field names derived from the header.
// Rows with fewer tokens than headers are reported as skipped; tokens past the
// header count are ignored. Input without a header and at least one data line
// yields no results.
func ParseCSV(text string) []RowResult {
	lines := nonEmptyLines(text)
	if len(lines) < 2 {
		return nil
	}

	fields := MapHeaders(strings.Split(lines[0], ","))

	results := make([]RowResult, 0, len(lines)-1)
	for i, line := range lines[1:] {
		tokens := TokenizeRow(line)
		if len(tokens) < len(fields) {
			results = append(results, RowResult{
				Number: i + 1,
				Skip:   SkipShortRow,
				Detail: fmt.Sprintf("row has %d fields, header has %d", len(tokens), len(fields)),
			})
			continue
		}

		// Later columns win when two headers map to the same field
		record := make(Record, len(fields))
		for j, field := range fields {
			record[field] = tokens[j]
		}
		results = append(results, RowResult{Number: i + 1, Record: record})
	}
	return results
}

// TokenizeRow splits one data line into cleaned field values.
//
// A double-quoted run or a run of non-comma characters is one token. Empty
// runs are dropped, so consecutive commas collapse rather than producing
// empty values. Each token loses one leading and one trailing quote and its
// surrounding whitespace.
func TokenizeRow(line string) []string {
	var tokens []string
	for pos := 0; pos < len(line); {
		if line[pos] == '"' {
			if end := strings.IndexByte(line[pos+1:], '"'); end >= 0 {
				tokens = append(tokens, cleanToken(line[pos:pos+end+2]))
				pos += end + 2
				continue
			}
			// Unterminated quote: fall through and read up to the next comma
		}

		end := strings.IndexByte(line[pos:], ',')
		if end < 0 {
			end = len(line) - pos
		}
		if end == 0 {
			pos++ // separator
			continue
		}
		tokens = append(tokens, cleanToken(line[pos:pos+end]))
		pos += end
	}
	return tokens
}

func cleanToken(raw string) string {
	raw = strings.TrimPrefix(raw, `"`)
	raw = strings.TrimSuffix(raw, `"`)
	return strings.TrimSpace(raw)
}

// nonEmptyLines splits on line feeds and drops blank lines
func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
