package parsers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ParseNDJSON reads an NDJSON (newline-delimited JSON) feed from io.Reader and streams rows via channel.
// Object keys go through the same header mapping as a sheet's header row and
// values are stringified. Lines that are not JSON objects are reported as skipped rows.
// Returns two channels: one for rows, one for read errors
// Caller must consume both channels to avoid goroutine leak
func ParseNDJSON(reader io.Reader) (<-chan RowResult, <-chan error) {
	rows := make(chan RowResult, 100) // Buffered for better throughput
	errors := make(chan error, 1)

	go func() {
		defer close(rows)
		defer close(errors)

		scanner := bufio.NewScanner(reader)

		// Increase buffer size for large lines (up to 1MB per line)
		const maxCapacity = 1024 * 1024 // 1MB
		buf := make([]byte, maxCapacity)
		scanner.Buffer(buf, maxCapacity)

		rowNum := 0
		for scanner.Scan() {
			line := scanner.Bytes()

			// Skip empty lines
			if len(strings.TrimSpace(string(line))) == 0 {
				continue
			}
			rowNum++

			var object map[string]interface{}
			if err := json.Unmarshal(line, &object); err != nil {
				rows <- RowResult{Number: rowNum, Skip: SkipInvalidJSON, Detail: err.Error()}
				continue
			}

			rows <- RowResult{Number: rowNum, Record: mapObject(object)}
		}

		// Check for scanner errors (e.g., line too long)
		if err := scanner.Err(); err != nil {
			errors <- err
		}
	}()

	return rows, errors
}

// mapObject applies header mapping to object keys. Keys are visited in sorted
// order so duplicate field names resolve the same way on every run.
func mapObject(object map[string]interface{}) Record {
	keys := make([]string, 0, len(object))
	for k := range object {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	record := make(Record, len(object))
	for _, k := range keys {
		record[FieldName(CanonicalKey(k))] = stringify(object[k])
	}
	return record
}

func stringify(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case []interface{}, map[string]interface{}:
		data, _ := json.Marshal(value)
		return string(data)
	default:
		return fmt.Sprint(value)
	}
}
