// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package format

import (
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
)

const crlf = "\r\n"

// Columns returns every top-level field name across docs in first-seen order.
func Columns(docs []bson.D) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, d := range docs {
		for _, e := range d {
			if _, ok := seen[e.Key]; ok {
				continue
			}
			seen[e.Key] = struct{}{}
			cols = append(cols, e.Key)
		}
	}
	return cols
}

// WriteCSV writes docs as quoted CSV with a header line.
// An empty result set writes nothing.
func WriteCSV(w io.Writer, docs []bson.D) error {
	cols := Columns(docs)
	if len(cols) == 0 {
		return nil
	}

	var sb strings.Builder
	writeRow(&sb, cols)
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}

	cells := make([]string, len(cols))
	for _, d := range docs {
		for i := range cells {
			cells[i] = ""
		}
		for _, e := range d {
			cells[index[e.Key]] = cellValue(e.Value)
		}

		sb.Reset()
		writeRow(&sb, cells)
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(sb *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(c, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteString(crlf)
}

// cellValue renders one field: scalars as text, documents and arrays as compact JSON.
func cellValue(v interface{}) string {
	switch t := Normalize(v).(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
