// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package reporter

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

func writeTable(report *Report, out io.Writer) error {
	table := tablewriter.NewWriter(out)
	table.SetHeader(report.Columns)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.AppendBulk(report.Rows)
	table.Render()
	return nil
}
