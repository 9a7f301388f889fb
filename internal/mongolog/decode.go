package mongolog

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// errNotDocument is returned for lines whose top-level value is not an object.
var errNotDocument = errors.New("log line is not a JSON object")

// Decode parses one log line as plain JSON into an ordered document.
// Objects become bson.D in source key order, with a repeated key updating
// the value at its first position. "$"-prefixed keys are ordinary keys.
// Integer literals become int64 (json.Number when out of range) and other
// numbers float64.
func Decode(line string) (bson.D, error) {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON value")
	}
	doc, ok := v.(bson.D)
	if !ok {
		return nil, errNotDocument
	}
	return doc, nil
}

func decodeValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, errors.Errorf("unexpected delimiter %q", t)
	case json.Number:
		return number(t), nil
	default:
		// string, bool or nil
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (bson.D, error) {
	doc := bson.D{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Errorf("object key %v is not a string", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		if i, seen := index[key]; seen {
			doc[i].Value = value
			continue
		}
		index[key] = len(doc)
		doc = append(doc, bson.E{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeArray(dec *json.Decoder) (bson.A, error) {
	arr := bson.A{}
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func number(n json.Number) interface{} {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		return n
	}
	// Out of range literals become +-Inf.
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
