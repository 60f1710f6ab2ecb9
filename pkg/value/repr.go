package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Repr renders v as a Python literal, the text print() shows for the
// object json.loads would return: {'msg': 'ok', 'changed': False}.
func Repr(v Value) (string, error) {
	var sb strings.Builder
	if err := writeRepr(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeRepr(sb *strings.Builder, v Value) error {
	switch v.kind {
	case Null:
		sb.WriteString("None")
	case Bool:
		if v.b {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case Number:
		s, err := reprNumber(v.num)
		if err != nil {
			return err
		}
		sb.WriteString(s)
	case String:
		sb.WriteString(reprString(v.str))
	case Array:
		sb.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := writeRepr(sb, item); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case Object:
		sb.WriteByte('{')
		for i, k := range v.obj.keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(reprString(k))
			sb.WriteString(": ")
			if err := writeRepr(sb, v.obj.values[k]); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", v.kind)
	}
	return nil
}

func reprNumber(n json.Number) (string, error) {
	if isIntLiteral(n) {
		return pyInt(n)
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !math.IsInf(f, 0) {
		return "", fmt.Errorf("invalid number %q: %w", n, err)
	}
	return pyFloat(f), nil
}

// reprString quotes s with single quotes unless s contains a single quote
// and no double quote.
func reprString(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var sb strings.Builder
	sb.WriteRune(quote)
	for i := 0; i < len(s); {
		r, size := nextRune(s, i)
		i += size
		switch {
		case r == quote || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r < 0x7f || unicode.IsPrint(r):
			sb.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			fmt.Fprintf(&sb, `\U%08x`, r)
		}
	}
	sb.WriteRune(quote)
	return sb.String()
}
