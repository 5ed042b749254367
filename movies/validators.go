package movies

import (
	"movie-catalog/common"
	"movie-catalog/parsers"
)

// ValidateMovieRecord checks a mapped row before it becomes a record.
// The name is the only required field.
func ValidateMovieRecord(record parsers.Record, rowNum int) *common.RecordValidationResult {
	result := &common.RecordValidationResult{
		RowNumber: rowNum,
		RecordID:  record["name"],
		Valid:     true,
	}

	if err := common.ValidateRequired("name", record["name"]); err != nil {
		result.AddError(err.Field, err.Code, err.Message)
	}

	return result
}

// skippedRow converts a parser skip into a validation result
func skippedRow(row parsers.RowResult) common.RecordValidationResult {
	result := common.RecordValidationResult{RowNumber: row.Number, Valid: true}
	message := row.Detail
	if message == "" {
		message = row.Skip
	}
	result.AddError("", row.Skip, message)
	return result
}
