package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// DecodeError reports malformed JSON from stdin or from a module's stdout.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var (
	ErrTrailingData = errors.New("unexpected data after top-level value")
	ErrNotObject    = errors.New("top-level value is not an object")
)

// Decode parses exactly one JSON value from data.
func Decode(data []byte) (Value, error) {
	return decode(bytes.NewReader(data))
}

// DecodeObject reads one JSON object from r. source names the input in
// the returned *DecodeError.
func DecodeObject(r io.Reader, source string) (Value, error) {
	v, err := decode(r)
	if err != nil {
		return Value{}, &DecodeError{Source: source, Err: err}
	}
	if v.kind != Object {
		return Value{}, &DecodeError{Source: source, Err: fmt.Errorf("%w: got %s", ErrNotObject, v.kind)}
	}
	return v, nil
}

func decode(r io.Reader) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Value{}, err
	}
	d := &decoder{dec: json.NewDecoder(bytes.NewReader(data)), data: data}
	d.dec.UseNumber()

	tok, err := d.token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}
	v, err := d.value(tok)
	if err != nil {
		return Value{}, err
	}
	if _, err := d.token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return Value{}, err
		}
		return Value{}, ErrTrailingData
	}
	return v, nil
}

// decoder walks the token stream and keeps the raw input so string
// literals holding lone surrogates can be decoded again without the
// U+FFFD substitution encoding/json applies.
type decoder struct {
	dec  *json.Decoder
	data []byte
}

func (d *decoder) token() (json.Token, error) {
	start := d.dec.InputOffset()
	tok, err := d.dec.Token()
	if err != nil {
		return nil, err
	}
	if s, ok := tok.(string); ok && strings.ContainsRune(s, utf8.RuneError) {
		raw := d.data[start:d.dec.InputOffset()]
		if q := bytes.IndexByte(raw, '"'); q >= 0 {
			return unquoteWTF8(raw[q:]), nil
		}
	}
	return tok, nil
}

func (d *decoder) value(tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		return NewNumber(t), nil
	case string:
		return NewString(t), nil
	case json.Delim:
		switch t {
		case '{':
			return d.object()
		case '[':
			return d.array()
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func (d *decoder) object() (Value, error) {
	m := NewMap()
	for d.dec.More() {
		tok, err := d.token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is %T, not string", tok)
		}
		tok, err = d.token()
		if err != nil {
			return Value{}, err
		}
		item, err := d.value(tok)
		if err != nil {
			return Value{}, err
		}
		m.Set(key, item)
	}
	if _, err := d.token(); err != nil {
		return Value{}, err
	}
	return NewObject(m), nil
}

func (d *decoder) array() (Value, error) {
	items := []Value{}
	for d.dec.More() {
		tok, err := d.token()
		if err != nil {
			return Value{}, err
		}
		item, err := d.value(tok)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	if _, err := d.token(); err != nil {
		return Value{}, err
	}
	return NewArray(items...), nil
}

// unquoteWTF8 decodes a JSON string literal that encoding/json already
// accepted. Paired surrogate escapes combine; a lone surrogate is kept as
// its three-byte generalized UTF-8 form, which the Python renderers turn
// back into \udXXX. Invalid raw bytes become U+FFFD as in encoding/json.
func unquoteWTF8(lit []byte) string {
	lit = lit[1 : len(lit)-1]
	var b []byte
	for i := 0; i < len(lit); {
		c := lit[i]
		if c != '\\' {
			r, size := utf8.DecodeRune(lit[i:])
			b = utf8.AppendRune(b, r)
			i += size
			continue
		}
		switch lit[i+1] {
		case 'u':
			r := hex4(lit[i+2 : i+6])
			i += 6
			if utf16.IsSurrogate(r) {
				if r < 0xdc00 && i+6 <= len(lit) && lit[i] == '\\' && lit[i+1] == 'u' {
					if lo := hex4(lit[i+2 : i+6]); lo >= 0xdc00 && lo <= 0xdfff {
						b = utf8.AppendRune(b, utf16.DecodeRune(r, lo))
						i += 6
						continue
					}
				}
				b = appendSurrogate(b, r)
				continue
			}
			b = utf8.AppendRune(b, r)
			continue
		case 'b':
			b = append(b, '\b')
		case 'f':
			b = append(b, '\f')
		case 'n':
			b = append(b, '\n')
		case 'r':
			b = append(b, '\r')
		case 't':
			b = append(b, '\t')
		default:
			b = append(b, lit[i+1])
		}
		i += 2
	}
	return string(b)
}

func hex4(h []byte) rune {
	n, _ := strconv.ParseUint(string(h), 16, 16)
	return rune(n)
}

func appendSurrogate(b []byte, r rune) []byte {
	return append(b, 0xe0|byte(r>>12), 0x80|byte(r>>6)&0x3f, 0x80|byte(r)&0x3f)
}

// nextRune decodes the rune at s[i:], recognizing the generalized UTF-8
// form of a lone surrogate that unquoteWTF8 produces.
func nextRune(s string, i int) (rune, int) {
	r, size := utf8.DecodeRuneInString(s[i:])
	if r == utf8.RuneError && size == 1 && i+3 <= len(s) &&
		s[i] == 0xed && s[i+1] >= 0xa0 && s[i+1] <= 0xbf && s[i+2]&0xc0 == 0x80 {
		return rune(s[i]&0x0f)<<12 | rune(s[i+1]&0x3f)<<6 | rune(s[i+2]&0x3f), 3
	}
	return r, size
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
