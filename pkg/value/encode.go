package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// MarshalJSON implements json.Marshaler. Object keys keep their order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf, ",", ":", false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PythonJSON encodes v the way Python's json.dumps does with default
// arguments: ", " and ": " separators, non-ASCII escaped as \uXXXX, and
// numbers normalized to Python int/float text. No newline is appended.
func PythonJSON(v Value) (string, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf, ", ", ": ", true); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer, itemSep, keySep string, python bool) error {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Number:
		if !python {
			buf.WriteString(v.num.String())
			return nil
		}
		s, err := pyJSONNumber(v.num)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case String:
		if python {
			writePyJSONString(buf, v.str)
			return nil
		}
		b, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case Array:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteString(itemSep)
			}
			if err := item.writeJSON(buf, itemSep, keySep, python); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, k := range v.obj.keys {
			if i > 0 {
				buf.WriteString(itemSep)
			}
			NewString(k).writeJSON(buf, itemSep, keySep, python)
			buf.WriteString(keySep)
			if err := v.obj.values[k].writeJSON(buf, itemSep, keySep, python); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", v.kind)
	}
	return nil
}

func writePyJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := nextRune(s, i)
		i += size
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || (r >= 0x7f && r <= 0xffff):
				fmt.Fprintf(buf, `\u%04x`, r)
			case r > 0xffff:
				r -= 0x10000
				fmt.Fprintf(buf, `\u%04x\u%04x`, 0xd800+(r>>10), 0xdc00+(r&0x3ff))
			default:
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// isIntLiteral reports whether a JSON number has no fraction or exponent,
// which Python decodes as int rather than float.
func isIntLiteral(n json.Number) bool {
	return !strings.ContainsAny(string(n), ".eE")
}

func pyInt(n json.Number) (string, error) {
	i, ok := new(big.Int).SetString(string(n), 10)
	if !ok {
		return "", fmt.Errorf("invalid integer %q", n)
	}
	return i.String(), nil
}

func pyJSONNumber(n json.Number) (string, error) {
	if isIntLiteral(n) {
		return pyInt(n)
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !math.IsInf(f, 0) {
		return "", fmt.Errorf("invalid number %q: %w", n, err)
	}
	switch {
	case math.IsInf(f, 1):
		return "Infinity", nil
	case math.IsInf(f, -1):
		return "-Infinity", nil
	}
	return pyFloat(f), nil
}

// pyFloat renders f like Python's float repr: shortest round-trip digits,
// positional notation for exponents in [-4, 16), always with a fraction.
func pyFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
