// Package parsers turns raw catalog feeds into mapped rows.
//
// Two feed formats are supported:
//   - CSV as produced by a published spreadsheet export
//   - NDJSON, one JSON object per line
//
// The CSV tokenizer is deliberately lenient. A double-quoted run or a run of
// non-comma characters is one field, empty fields collapse, and surrounding
// quotes are stripped without any escape handling. Header cells are reduced
// to canonical keys (lowercase, [a-z0-9] only) and remapped by FieldRules:
//
//	"Movie Title" -> "movietitle" -> "name"
//	"Category"    -> "category"   -> "type"
//	"Translator"  -> "translator" -> "translator"
//	"Poster URL"  -> "posterurl"  -> "posterurl"
//
// Every data row yields a RowResult that either carries a Record or a skip
// reason, so callers can report dropped rows without aborting a load.
//
// Example usage for CSV:
//
//	for _, row := range parsers.ParseCSV(text) {
//	    if !row.OK() {
//	        log.Printf("row %d skipped: %s", row.Number, row.Skip)
//	        continue
//	    }
//	    fmt.Println(row.Record["name"])
//	}
//
// Example usage for NDJSON:
//
//	rows, errors := parsers.ParseNDJSON(file)
//
//	go func() {
//	    for err := range errors {
//	        log.Printf("NDJSON error: %v", err)
//	    }
//	}()
//
//	for row := range rows {
//	    fmt.Println(row.Record["name"])
//	}
package parsers
