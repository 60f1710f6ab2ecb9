package value

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeepsKeyOrder(t *testing.T) {
	v, err := Decode([]byte(`{"z": 1, "a": {"y": true, "b": null}, "m": [1, "two"]}`))
	require.NoError(t, err)
	require.True(t, v.IsObject())
	assert.Equal(t, []string{"z", "a", "m"}, v.Map().Keys())

	inner, ok := v.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, inner.Map().Keys())
}

func TestDecodeDuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	v, err := Decode([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.Map().Keys())
	a, _ := v.Get("a")
	n, _ := a.Number()
	assert.Equal(t, json.Number("3"), n)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "truncated", input: `{"a": `},
		{name: "garbage", input: `{"a": nope}`},
		{name: "trailing", input: `{"a": 1} {"b": 2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			assert.Error(t, err)
		})
	}

	_, err := Decode(nil)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	_, err = Decode([]byte(`1 2`))
	assert.ErrorIs(t, err, ErrTrailingData)
}

func TestDecodeObject(t *testing.T) {
	v, err := DecodeObject(strings.NewReader(`{"users": []}`), "stdin")
	require.NoError(t, err)
	assert.True(t, v.IsObject())

	_, err = DecodeObject(strings.NewReader(`[1]`), "stdin")
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "stdin", de.Source)
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = DecodeObject(strings.NewReader(`{`), "stdout")
	require.True(t, errors.As(err, &de))
	assert.Contains(t, err.Error(), "decode stdout")
}

func TestMapSetDelete(t *testing.T) {
	m := NewMap()
	m.Set("a", NewBool(true))
	m.Set("b", NewString("x"))
	m.Set("a", NewBool(false))
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, []string{"b"}, m.Keys())
	assert.Equal(t, 1, m.Len())

	var nilMap *Map
	assert.Equal(t, 0, nilMap.Len())
	assert.False(t, nilMap.Delete("a"))
}

func TestMarshalJSONRoundTripsOrder(t *testing.T) {
	in := `{"b":1,"a":[true,null,"x"],"c":{"z":1.50}}`
	var v Value
	require.NoError(t, json.Unmarshal([]byte(in), &v))
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestInterface(t *testing.T) {
	v, err := Decode([]byte(`{"a": [1, "x", false, null]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": []any{json.Number("1"), "x", false, nil},
	}, v.Interface())
}

func TestPythonJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: `{"msg":"ok"}`, want: `{"msg": "ok"}`},
		{name: "nested", input: `{"a":[1,2],"b":{"c":null,"d":true}}`, want: `{"a": [1, 2], "b": {"c": null, "d": true}}`},
		{name: "empty containers", input: `{"a":[],"b":{}}`, want: `{"a": [], "b": {}}`},
		{name: "float normalization", input: `{"a":1.50,"b":1e2,"c":1e16,"d":0.00001}`, want: `{"a": 1.5, "b": 100.0, "c": 1e+16, "d": 1e-05}`},
		{name: "int normalization", input: `{"a":-0,"b":123456789012345678901234567890}`, want: `{"a": 0, "b": 123456789012345678901234567890}`},
		{name: "overflow", input: `{"a":1e400}`, want: `{"a": Infinity}`},
		{name: "non ascii", input: `{"name":"é😀"}`, want: `{"name": "\u00e9\ud83d\ude00"}`},
		{name: "control chars", input: `{"s":"a\"b\\c\n\u0001/<"}`, want: `{"s": "a\"b\\c\n\u0001/<"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			got, err := PythonJSON(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepr(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: `{"msg": "ok"}`, want: `{'msg': 'ok'}`},
		{name: "literals", input: `{"a": true, "b": false, "c": null}`, want: `{'a': True, 'b': False, 'c': None}`},
		{name: "numbers", input: `[1, 2.0, 1e16, 0.0001, -0.0]`, want: `[1, 2.0, 1e+16, 0.0001, -0.0]`},
		{name: "single quote picks double", input: `["it's"]`, want: `["it's"]`},
		{name: "both quotes", input: `["it's \"x\""]`, want: `['it\'s "x"']`},
		{name: "escapes", input: `["a\\b\n\t\u0001\u007f"]`, want: `['a\\b\n\t\x01\x7f']`},
		{name: "printable unicode", input: `["héllo"]`, want: `['héllo']`},
		{name: "non printable unicode", input: `["\u0085\u2028"]`, want: `['\x85\u2028']`},
		{name: "nested order", input: `{"z": {"b": [], "a": {}}}`, want: `{'z': {'b': [], 'a': {}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			got, err := Repr(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoneSurrogatesSurvive(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRepr string
		wantJSON string
	}{
		{name: "lone high", input: `{"k": "\ud800"}`, wantRepr: `{'k': '\ud800'}`, wantJSON: `{"k": "\ud800"}`},
		{name: "lone low in key", input: `{"\udc00x": 1}`, wantRepr: `{'\udc00x': 1}`, wantJSON: `{"\udc00x": 1}`},
		{name: "reversed pair", input: `["\udc00\ud800"]`, wantRepr: `['\udc00\ud800']`, wantJSON: `["\udc00\ud800"]`},
		{name: "valid pair", input: `["\ud83d\ude00"]`, wantRepr: "['\U0001f600']", wantJSON: `["\ud83d\ude00"]`},
		{name: "literal replacement char", input: `["a\ufffd\n"]`, wantRepr: "['a\ufffd\\n']", wantJSON: `["a\ufffd\n"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			got, err := Repr(v)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRepr, got)
			js, err := PythonJSON(v)
			require.NoError(t, err)
			assert.Equal(t, tt.wantJSON, js)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "object", Object.String())
	assert.Equal(t, "null", NewNull().Kind().String())
	assert.Equal(t, "unknown", Kind(42).String())
}
