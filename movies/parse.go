package movies

import (
	"io"

	"movie-catalog/common"
	"movie-catalog/parsers"
)

// RowResult is either a parsed record or the reason its row was skipped
type RowResult struct {
	Number  int
	Movie   MovieRecord
	Skipped *common.RecordValidationResult
}

// OK reports whether the row produced a record
func (r RowResult) OK() bool {
	return r.Skipped == nil
}

// ParseRows parses a sheet export and reports an outcome for every data row
func ParseRows(text string) []RowResult {
	rows := parsers.ParseCSV(text)
	results := make([]RowResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, buildRow(row))
	}
	return results
}

// Parse returns the records of a sheet export in row order.
// Malformed and nameless rows are omitted.
func Parse(text string) []MovieRecord {
	movies, _ := Collect(ParseRows(text))
	return movies
}

// ParseFeed reads an NDJSON feed. Lines that fail to decode are skipped;
// only a read failure of the underlying stream is returned as an error.
func ParseFeed(reader io.Reader) ([]RowResult, error) {
	rows, errors := parsers.ParseNDJSON(reader)

	var results []RowResult
	for row := range rows {
		results = append(results, buildRow(row))
	}

	var readErr error
	for err := range errors {
		readErr = err
	}
	return results, readErr
}

// Collect splits row results into records and skipped row details
func Collect(results []RowResult) ([]MovieRecord, []common.RecordValidationResult) {
	movies := make([]MovieRecord, 0, len(results))
	var skipped []common.RecordValidationResult
	for _, r := range results {
		if r.OK() {
			movies = append(movies, r.Movie)
			continue
		}
		skipped = append(skipped, *r.Skipped)
	}
	return movies, skipped
}

func buildRow(row parsers.RowResult) RowResult {
	if !row.OK() {
		skipped := skippedRow(row)
		return RowResult{Number: row.Number, Skipped: &skipped}
	}

	if result := ValidateMovieRecord(row.Record, row.Number); !result.Valid {
		return RowResult{Number: row.Number, Skipped: result}
	}

	return RowResult{Number: row.Number, Movie: NormalizeMovieRecord(row.Record)}
}
