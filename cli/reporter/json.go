// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package reporter

import (
	"encoding/json"
	"io"
)

func writeJSON(report *Report, out io.Writer) error {
	doc := report.Document
	if doc == nil {
		// fall back to a generic row rendering
		rows := make([]map[string]string, 0, len(report.Rows))
		for _, row := range report.Rows {
			entry := map[string]string{}
			for i, col := range report.Columns {
				if i < len(row) {
					entry[col] = row[i]
				}
			}
			rows = append(rows, entry)
		}
		doc = rows
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
