// headers.go
package dataset

import (
	"fmt"
	"strings"
)

// AnalyzeHeaders turns the first row into unique column names. The first row is always
// the header; names are kept as written (only trimmed), since options and
// recommendations refer to columns by those names.
func AnalyzeHeaders(firstRow []string) []string {
	if len(firstRow) == 0 {
		return nil
	}
	headers := make([]string, len(firstRow))
	for i, header := range firstRow {
		headers[i] = cleanHeaderName(header, i)
	}
	return ValidateHeaders(headers)
}

// generateColumnName names a column whose header cell is blank.
func generateColumnName(index int) string {
	return fmt.Sprintf("Unnamed: %d", index)
}

// ValidateHeaders suffixes duplicate names with _1, _2, ...
func ValidateHeaders(headers []string) []string {
	seen := make(map[string]int)
	result := make([]string, len(headers))

	for i, header := range headers {
		originalHeader := header
		counter := 1

		for {
			if count, exists := seen[header]; exists {
				header = fmt.Sprintf("%s_%d", originalHeader, counter)
				counter++
			} else {
				seen[header] = count + 1
				break
			}
		}

		result[i] = header
	}

	return result
}

func cleanHeaderName(header string, index int) string {
	header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	if header == "" {
		return generateColumnName(index)
	}
	return header
}
