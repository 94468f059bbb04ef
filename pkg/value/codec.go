package value

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"

	j "github.com/goccy/go-json"
)

// ErrTrailingData is returned when input holds more than one JSON value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// Decode parses a single JSON document, preserving object member order.
func Decode(data []byte) (*Value, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader parses a single JSON document from r.
func DecodeReader(r io.Reader) (*Value, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty input: %w", io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	v, err := decodeToken(dec, tok)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

func decodeToken(dec *j.Decoder, tok j.Token) (*Value, error) {
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case string:
		return String(t), nil
	case j.Number:
		return Number(string(t)), nil
	case float64:
		return Float(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}

func decodeObject(dec *j.Decoder) (*Value, error) {
	obj := Object()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if d, ok := tok.(j.Delim); ok && d == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %T", tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		member, err := decodeToken(dec, tok)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		obj.Set(key, member)
	}
}

func decodeArray(dec *j.Decoder) (*Value, error) {
	arr := Array()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if d, ok := tok.(j.Delim); ok && d == ']' {
			return arr, nil
		}
		item, err := decodeToken(dec, tok)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", arr.Len(), err)
		}
		arr.Append(item)
	}
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// MarshalJSON encodes v preserving member order. Raw values are encoded
// with the JSON encoder and fall back to their string form.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, make(map[*Value]struct{})); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent encodes v with indentation.
func MarshalIndent(v *Value, prefix, indent string) ([]byte, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := j.Indent(&out, compact, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ErrCycle is returned when encoding a value graph that refers to itself.
var ErrCycle = errors.New("value graph contains a cycle")

func encode(buf *bytes.Buffer, v *Value, onPath map[*Value]struct{}) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case KindNumber:
		buf.WriteString(v.text)
	case KindString:
		return encodeString(buf, v.text)
	case KindObject:
		if _, seen := onPath[v]; seen {
			return ErrCycle
		}
		onPath[v] = struct{}{}
		defer delete(onPath, v)
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encode(buf, m.Value, onPath); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindArray:
		if _, seen := onPath[v]; seen {
			return ErrCycle
		}
		onPath[v] = struct{}{}
		defer delete(onPath, v)
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, item, onPath); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindRaw:
		data, err := j.Marshal(v.raw)
		if err != nil {
			return encodeString(buf, rawString(v.raw))
		}
		buf.Write(data)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	data, err := j.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func rawString(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}

// FromInterface converts decoded Go data into the value model. Map keys are
// sorted because Go maps carry no order. Values that have no JSON shape are
// wrapped as KindRaw.
func FromInterface(data any) *Value {
	switch t := data.(type) {
	case nil:
		return Null()
	case *Value:
		if t == nil {
			return Null()
		}
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case j.Number:
		return Number(string(t))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return Raw(t)
		}
		return Float(t)
	case float32:
		return FromInterface(float64(t))
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return Number(strconv.FormatUint(uint64(t), 10))
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint64:
		return Number(strconv.FormatUint(t, 10))
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := Object()
		for _, k := range keys {
			obj.Set(k, FromInterface(t[k]))
		}
		return obj
	case []any:
		arr := Array()
		for _, item := range t {
			arr.Append(FromInterface(item))
		}
		return arr
	}

	rv := reflect.ValueOf(data)
	switch rv.Kind() { //nolint:exhaustive // only container kinds are converted
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Raw(data)
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		obj := Object()
		for _, k := range keys {
			obj.Set(k, FromInterface(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()))
		}
		return obj
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null()
		}
		arr := Array()
		for i := 0; i < rv.Len(); i++ {
			arr.Append(FromInterface(rv.Index(i).Interface()))
		}
		return arr
	default:
		return Raw(data)
	}
}

// ToInterface converts v into plain Go data: map[string]any, []any, string,
// bool, nil, and float64 or int64 for numbers. Cyclic references are cut and
// replaced by nil.
func ToInterface(v *Value) any {
	return toInterface(v, make(map[*Value]struct{}))
}

func toInterface(v *Value, onPath map[*Value]struct{}) any {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		return v.boolean
	case KindString:
		return v.text
	case KindNumber:
		if n, err := strconv.ParseInt(v.text, 10, 64); err == nil {
			return n
		}
		f, _ := strconv.ParseFloat(v.text, 64)
		return f
	case KindRaw:
		return v.raw
	case KindObject, KindArray:
		if _, seen := onPath[v]; seen {
			return nil
		}
		onPath[v] = struct{}{}
		defer delete(onPath, v)
		if v.kind == KindArray {
			out := make([]any, len(v.items))
			for i, item := range v.items {
				out[i] = toInterface(item, onPath)
			}
			return out
		}
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = toInterface(m.Value, onPath)
		}
		return out
	}
	return nil
}
