// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package format

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field is one key/value pair of an Ordered document.
type Field struct {
	Key   string
	Value interface{}
}

// Ordered is a JSON object that keeps its field order when marshaled.
type Ordered []Field

// MarshalJSON writes the fields in order.
func (o Ordered) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Normalize converts BSON values into values that marshal to plain JSON.
func Normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case bson.D:
		out := make(Ordered, len(t))
		for i, e := range t {
			out[i] = Field{Key: e.Key, Value: Normalize(e.Value)}
		}
		return out
	case bson.M:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case map[string]interface{}:
		return Normalize(bson.M(t))
	case bson.A:
		return normalizeSlice(t)
	case []interface{}:
		return normalizeSlice(t)
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case primitive.Decimal128:
		return t.String()
	case primitive.Timestamp:
		return Ordered{{Key: "t", Value: t.T}, {Key: "i", Value: t.I}}
	case primitive.Binary:
		return t.Data
	case primitive.Regex:
		return "/" + t.Pattern + "/" + t.Options
	case primitive.JavaScript:
		return string(t)
	case primitive.Symbol:
		return string(t)
	case primitive.Null, primitive.Undefined:
		return nil
	case primitive.MinKey:
		return Ordered{{Key: "$minKey", Value: 1}}
	case primitive.MaxKey:
		return Ordered{{Key: "$maxKey", Value: 1}}
	default:
		return v
	}
}

func normalizeSlice(items []interface{}) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = Normalize(item)
	}
	return out
}

// NormalizeAll normalizes a result set. The result is never nil.
func NormalizeAll(docs []bson.D) []interface{} {
	out := make([]interface{}, len(docs))
	for i, d := range docs {
		out[i] = Normalize(d)
	}
	return out
}
