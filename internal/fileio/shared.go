package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadAnyMaps picks a reader by file extension and returns the rows as
// map[header]value. headerRow is 1-based and ignored for JSON.
func ReadAnyMaps(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		return readJSON(r)
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv":
		return readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
}

// tableToMaps turns a sheet into maps keyed by the header row (1-based).
// A header row below the last row is an error, not an empty table.
func tableToMaps(rows [][]string, headerRow int) ([]map[string]string, error) {
	if headerRow < 1 {
		headerRow = 1
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if headerRow > len(rows) {
		return nil, fmt.Errorf("header row %d is past the last row (%d)", headerRow, len(rows))
	}
	return rowsToMaps(rows, pickHeader(rows[headerRow-1]), headerRow), nil
}

// pickHeader чистит заголовки и подставляет "Column N" для пустых.
func pickHeader(h []string) []string {
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(strings.TrimPrefix(v, "\uFEFF"))
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// rowsToMaps converts rows below the header into maps, skipping fully empty rows.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c, h := range headers {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			m[h] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
