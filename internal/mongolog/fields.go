package mongolog

import (
	"encoding/json"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Lookup walks nested documents along path and returns the value found.
func Lookup(value interface{}, path ...string) (interface{}, bool) {
	cur := value
	for _, key := range path {
		switch doc := cur.(type) {
		case bson.D:
			found := false
			for _, elem := range doc {
				if elem.Key == key {
					cur, found = elem.Value, true
					break
				}
			}
			if !found {
				return nil, false
			}
		case bson.M:
			v, ok := doc[key]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

// IsDocument reports whether v decoded from a JSON object.
func IsDocument(v interface{}) bool {
	switch v.(type) {
	case bson.D, bson.M:
		return true
	}
	return false
}

// ExtractStringField returns the value at path as text. Strings are returned
// as-is, other values are rendered, and missing values yield "".
func ExtractStringField(doc bson.D, path ...string) string {
	v, ok := Lookup(doc, path...)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return Render(v)
}

// ExtractIntField returns the numeric value at path, or 0 when it is missing
// or not a number.
func ExtractIntField(doc bson.D, path ...string) int64 {
	v, _ := Lookup(doc, path...)
	switch n := v.(type) {
	case int32:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	}
	return 0
}

// splitNamespace splits "db.collection" into its two leading segments.
// Missing or empty segments become notAvailable.
func splitNamespace(ns, notAvailable string) (string, string) {
	parts := strings.Split(ns, ".")
	app, coll := notAvailable, notAvailable
	if parts[0] != "" {
		app = parts[0]
	}
	if len(parts) > 1 && parts[1] != "" {
		coll = parts[1]
	}
	return app, coll
}

// extractTimestamp returns t.$date as text, or "" when the line has none.
func extractTimestamp(doc bson.D) string {
	return ExtractStringField(doc, "t", "$date")
}
