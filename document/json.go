package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrEmpty is returned when decoding input that holds no JSON value.
var ErrEmpty = errors.New("document: empty input")

// Parse decodes a JSON document, preserving map key order.
func Parse(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

type decodeFrame struct {
	isMap  bool
	key    string
	hasKey bool
	fields []Field
	items  []Value
}

// Decode reads exactly one JSON value from r. Nesting is tracked on an
// explicit stack, so arbitrarily deep input cannot exhaust the goroutine
// stack.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var (
		stack []*decodeFrame
		root  Value
		done  bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Value{}, fmt.Errorf("decoding document: %w", err)
		}
		if done {
			return Value{}, errors.New("decoding document: unexpected data after top-level value")
		}

		var v Value
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				stack = append(stack, &decodeFrame{isMap: true})
				continue
			case '[':
				stack = append(stack, &decodeFrame{})
				continue
			case '}':
				f := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				v = NewMap(f.fields...)
			case ']':
				f := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				v = NewSequence(f.items...)
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].isMap && !stack[n-1].hasKey {
				stack[n-1].key = t
				stack[n-1].hasKey = true
				continue
			}
			v = NewString(t)
		case json.Number:
			v = NewNumber(string(t))
		case bool:
			v = NewBool(t)
		case nil:
			v = Null()
		}

		if len(stack) == 0 {
			root = v
			done = true
			continue
		}
		top := stack[len(stack)-1]
		if top.isMap {
			top.fields = append(top.fields, Field{Key: top.key, Value: v})
			top.hasKey = false
		} else {
			top.items = append(top.items, v)
		}
	}

	if !done {
		if len(stack) > 0 {
			return Value{}, fmt.Errorf("decoding document: %w", io.ErrUnexpectedEOF)
		}
		return Value{}, ErrEmpty
	}
	return root, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalJSON implements json.Marshaler. Output is compact and keeps map order.
func (v Value) MarshalJSON() ([]byte, error) {
	return appendJSON(nil, v, ",", ":"), nil
}

// Dump renders v as JSON with ", " and ": " separators, the layout most
// dataset tooling writes ground truth in.
func Dump(v Value) string {
	return string(appendJSON(nil, v, ", ", ": "))
}

type encodeItem struct {
	v   *Value
	lit string
}

func appendJSON(buf []byte, root Value, comma, colon string) []byte {
	stack := []encodeItem{{v: &root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.v == nil {
			buf = append(buf, it.lit...)
			continue
		}
		v := it.v
		switch v.kind {
		case KindNull:
			buf = append(buf, "null"...)
		case KindBool:
			buf = append(buf, v.Text()...)
		case KindNumber:
			buf = append(buf, v.text...)
		case KindString:
			buf = appendQuoted(buf, v.text)
		case KindMap:
			buf = append(buf, '{')
			stack = append(stack, encodeItem{lit: "}"})
			for i := len(v.fields) - 1; i >= 0; i-- {
				f := &v.fields[i]
				stack = append(stack, encodeItem{v: &f.Value})
				prefix := string(appendQuoted(nil, f.Key)) + colon
				if i > 0 {
					prefix = comma + prefix
				}
				stack = append(stack, encodeItem{lit: prefix})
			}
		case KindSequence:
			buf = append(buf, '[')
			stack = append(stack, encodeItem{lit: "]"})
			for i := len(v.items) - 1; i >= 0; i-- {
				stack = append(stack, encodeItem{v: &v.items[i]})
				if i > 0 {
					stack = append(stack, encodeItem{lit: comma})
				}
			}
		}
	}
	return buf
}

const hexDigits = "0123456789abcdef"

func appendQuoted(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				buf = append(buf, '\\', c)
			case c == '\n':
				buf = append(buf, '\\', 'n')
			case c == '\r':
				buf = append(buf, '\\', 'r')
			case c == '\t':
				buf = append(buf, '\\', 't')
			case c < 0x20:
				buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
			default:
				buf = append(buf, c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			buf = append(buf, `�`...)
		} else {
			buf = append(buf, s[i:i+size]...)
		}
		i += size
	}
	return append(buf, '"')
}
