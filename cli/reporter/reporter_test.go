// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	r := &Report{Columns: []string{"KIND", "ACCOUNT"}}
	r.Append("missing-mailbox", "jdoe@corp.example.com")
	r.Append("orphaned-mailbox", "gone@corp.example.com")
	return r
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New("yaml", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid output format")
}

func TestNewIsCaseInsensitive(t *testing.T) {
	r, err := New("JSON", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, r.Format)
}

func TestWriteCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := New("csv", buf)
	require.NoError(t, err)
	require.NoError(t, r.Write(sampleReport()))

	assert.Equal(t,
		"KIND,ACCOUNT\n"+
			"missing-mailbox,jdoe@corp.example.com\n"+
			"orphaned-mailbox,gone@corp.example.com\n",
		buf.String())
}

func TestWriteJSONRowFallback(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := New("json", buf)
	require.NoError(t, err)
	require.NoError(t, r.Write(sampleReport()))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "missing-mailbox", rows[0]["KIND"])
	assert.Equal(t, "gone@corp.example.com", rows[1]["ACCOUNT"])
}

func TestWriteJSONDocument(t *testing.T) {
	report := sampleReport()
	report.Document = map[string]int{"findings": 2}

	buf := &bytes.Buffer{}
	r, err := New("json", buf)
	require.NoError(t, err)
	require.NoError(t, r.Write(report))

	var doc map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 2, doc["findings"])
}

func TestWriteTable(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := New("table", buf)
	require.NoError(t, err)
	require.NoError(t, r.Write(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "missing-mailbox")
	assert.Contains(t, out, "jdoe@corp.example.com")
}
