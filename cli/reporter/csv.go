// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package reporter

import (
	"encoding/csv"
	"io"
)

func writeCSV(report *Report, out io.Writer) error {
	w := csv.NewWriter(out)

	if err := w.Write(report.Columns); err != nil {
		return err
	}

	for i := range report.Rows {
		if err := w.Write(report.Rows[i]); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
