// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package reporter

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

type Format byte

const (
	FormatTable Format = iota + 1
	FormatCSV
	FormatJSON
)

// Formats that are supported by the reporter
var Formats = map[string]Format{
	"table": FormatTable,
	"csv":   FormatCSV,
	"json":  FormatJSON,
}

func AllFormats() string {
	var res []string
	for k := range Formats {
		res = append(res, k)
	}
	return strings.Join(res, ", ")
}

// Report is a flat, ordered set of rows ready for rendering. Document
// carries the structured form used for JSON output; when nil, the rows
// are rendered as a list of column/value objects instead.
type Report struct {
	Columns  []string
	Rows     [][]string
	Document any
}

func (r *Report) Append(cells ...string) {
	r.Rows = append(r.Rows, cells)
}

type Reporter struct {
	Format Format
	Out    io.Writer
}

func New(format string, out io.Writer) (*Reporter, error) {
	f, ok := Formats[strings.ToLower(format)]
	if !ok {
		return nil, errors.Newf("'%s' is not a valid output format, use one of: %s", format, AllFormats())
	}
	return &Reporter{Format: f, Out: out}, nil
}

func (r *Reporter) Write(report *Report) error {
	switch r.Format {
	case FormatCSV:
		return writeCSV(report, r.Out)
	case FormatJSON:
		return writeJSON(report, r.Out)
	default:
		return writeTable(report, r.Out)
	}
}
