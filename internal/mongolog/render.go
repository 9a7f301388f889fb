package mongolog

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Render writes a decoded value as single-line JSON text with ", " and ": "
// separators, document key order kept and non-ASCII characters escaped as
// \uXXXX. Integers too large for int64 keep their literal text.
//
// The layout is part of the query pattern key, so it must stay stable.
func Render(v interface{}) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v interface{}) {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case string:
		writeString(b, x)
	case int32:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case int:
		b.WriteString(strconv.Itoa(x))
	case float64:
		b.WriteString(formatFloat(x))
	case bson.D:
		writeDocument(b, x)
	case bson.M:
		writeDocument(b, sortedDocument(x))
	case map[string]interface{}:
		writeDocument(b, sortedDocument(x))
	case bson.A:
		writeArray(b, x)
	case []interface{}:
		writeArray(b, x)
	case json.Number:
		b.WriteString(x.String())
	default:
		writeString(b, fmt.Sprint(x))
	}
}

func writeDocument(b *strings.Builder, doc bson.D) {
	b.WriteByte('{')
	for i, elem := range doc {
		if i > 0 {
			b.WriteString(", ")
		}
		writeString(b, elem.Key)
		b.WriteString(": ")
		writeValue(b, elem.Value)
	}
	b.WriteByte('}')
}

func writeArray(b *strings.Builder, values []interface{}) {
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		writeValue(b, v)
	}
	b.WriteByte(']')
}

func sortedDocument(m map[string]interface{}) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: m[k]})
	}
	return doc
}

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r < 0x20:
				fmt.Fprintf(b, `\u%04x`, r)
			case r < 0x80:
				b.WriteRune(r)
			case r <= 0xFFFF:
				fmt.Fprintf(b, `\u%04x`, r)
			default:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(b, `\u%04x\u%04x`, hi, lo)
			}
		}
	}
	b.WriteByte('"')
}

// formatFloat writes the shortest round-trip form of f, switching to
// exponent notation below 1e-4 and from 1e16. Integral values keep ".0".
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return e
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
