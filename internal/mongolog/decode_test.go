package mongolog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want bson.D
	}{
		{
			name: "key order kept",
			line: `{"b":1,"a":{"z":true,"y":null}}`,
			want: bson.D{
				{Key: "b", Value: int64(1)},
				{Key: "a", Value: bson.D{{Key: "z", Value: true}, {Key: "y", Value: nil}}},
			},
		},
		{
			name: "dollar keys stay plain",
			line: `{"t":{"$date":"2023-01-01"},"id":{"$oid":"abc"}}`,
			want: bson.D{
				{Key: "t", Value: bson.D{{Key: "$date", Value: "2023-01-01"}}},
				{Key: "id", Value: bson.D{{Key: "$oid", Value: "abc"}}},
			},
		},
		{
			name: "repeated key updates first position",
			line: `{"a":1,"b":2,"a":3}`,
			want: bson.D{{Key: "a", Value: int64(3)}, {Key: "b", Value: int64(2)}},
		},
		{
			name: "numbers",
			line: `{"i":-7,"f":1.0,"e":2e3,"big":99999999999999999999}`,
			want: bson.D{
				{Key: "i", Value: int64(-7)},
				{Key: "f", Value: 1.0},
				{Key: "e", Value: 2000.0},
				{Key: "big", Value: json.Number("99999999999999999999")},
			},
		},
		{
			name: "arrays",
			line: ` {"a":[1,"x",[],{}]} `,
			want: bson.D{{Key: "a", Value: bson.A{int64(1), "x", bson.A{}, bson.D{}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Decode(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"",
		"not json",
		`{"a":1`,
		`{"a":1} {"b":2}`,
		`{"a":1}x`,
		`[1, 2]`,
		`"text"`,
		`42`,
	} {
		if _, err := Decode(line); err == nil {
			t.Errorf("Decode(%q) succeeded, want error", line)
		}
	}
}
