// Package value defines the ordered, pointer-identified JSON value model that
// every kvlens component reads. Objects keep member insertion order, and
// containers are compared by identity when guarding against cycles.
package value

import (
	"reflect"
	"strconv"
)

// Kind enumerates the shapes a Value can take.
type Kind int

const (
	// KindNull is JSON null. A nil *Value reports KindNull as well.
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
	// KindRaw wraps a host value that has no JSON shape.
	KindRaw
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "boolean",
	KindNumber: "number",
	KindString: "string",
	KindObject: "object",
	KindArray:  "array",
	KindRaw:    "raw",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value *Value
}

// Value is one node of a parsed document.
type Value struct {
	kind    Kind
	boolean bool
	text    string // number literal or string content
	members []Member
	index   map[string]int
	items   []*Value
	raw     any
}

// Null returns a JSON null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) *Value { return &Value{kind: KindBool, boolean: b} }

// String returns a JSON string.
func String(s string) *Value { return &Value{kind: KindString, text: s} }

// Number returns a JSON number from its literal text. The literal is not
// validated; Decode only produces well-formed literals.
func Number(literal string) *Value { return &Value{kind: KindNumber, text: literal} }

// Int returns a JSON number holding an integer.
func Int(n int64) *Value { return Number(strconv.FormatInt(n, 10)) }

// Float returns a JSON number holding a float.
func Float(f float64) *Value { return Number(strconv.FormatFloat(f, 'g', -1, 64)) }

// Raw wraps a host value that cannot be expressed as JSON.
func Raw(v any) *Value { return &Value{kind: KindRaw, raw: v} }

// Object returns an object built from members in order.
func Object(members ...Member) *Value {
	v := &Value{kind: KindObject}
	for _, m := range members {
		v.Set(m.Key, m.Value)
	}
	return v
}

// Array returns an array of the given items.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, items: append([]*Value(nil), items...)}
}

// M is shorthand for building a Member.
func M(key string, v *Value) Member { return Member{Key: key, Value: v} }

// Kind reports the value's kind; nil is KindNull.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is nil or JSON null.
func (v *Value) IsNull() bool { return v.Kind() == KindNull }

// IsContainer reports whether v is an object or array.
func (v *Value) IsContainer() bool {
	k := v.Kind()
	return k == KindObject || k == KindArray
}

// AsBool returns the boolean payload.
func (v *Value) AsBool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.boolean, true
}

// AsString returns the string payload.
func (v *Value) AsString() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.text, true
}

// NumberText returns the literal text of a number.
func (v *Value) NumberText() (string, bool) {
	if v.Kind() != KindNumber {
		return "", false
	}
	return v.text, true
}

// Float64 parses a number value.
func (v *Value) Float64() (float64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	return f, err == nil
}

// RawValue returns the wrapped host value of a KindRaw node.
func (v *Value) RawValue() (any, bool) {
	if v.Kind() != KindRaw {
		return nil, false
	}
	return v.raw, true
}

// Len is the number of members or items; zero for scalars.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindObject:
		return len(v.members)
	case KindArray:
		return len(v.items)
	default:
		return 0
	}
}

// Members returns the object members in insertion order. The slice is shared;
// callers must not modify it.
func (v *Value) Members() []Member {
	if v.Kind() != KindObject {
		return nil
	}
	return v.members
}

// Keys returns the object keys in insertion order.
func (v *Value) Keys() []string {
	members := v.Members()
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the member value for key.
func (v *Value) Get(key string) (*Value, bool) {
	if v.Kind() != KindObject {
		return nil, false
	}
	i, ok := v.index[key]
	if !ok {
		return nil, false
	}
	return v.members[i].Value, true
}

// Has reports whether the object has key.
func (v *Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Set adds or replaces a member. A replaced member keeps its original
// position. Set on a non-object is a no-op.
func (v *Value) Set(key string, member *Value) {
	if v.Kind() != KindObject {
		return
	}
	if v.index == nil {
		v.index = make(map[string]int)
	}
	if i, ok := v.index[key]; ok {
		v.members[i].Value = member
		return
	}
	v.index[key] = len(v.members)
	v.members = append(v.members, Member{Key: key, Value: member})
}

// Items returns the array items. The slice is shared; callers must not
// modify it.
func (v *Value) Items() []*Value {
	if v.Kind() != KindArray {
		return nil
	}
	return v.items
}

// Index returns the i-th array item.
func (v *Value) Index(i int) (*Value, bool) {
	items := v.Items()
	if i < 0 || i >= len(items) {
		return nil, false
	}
	return items[i], true
}

// Append adds items to an array. Append on a non-array is a no-op.
func (v *Value) Append(items ...*Value) {
	if v.Kind() != KindArray {
		return
	}
	v.items = append(v.items, items...)
}

// Scalar renders a scalar the way search and previews stringify it.
// Containers render as an empty string.
func (v *Value) Scalar() string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindNumber, KindString:
		return v.text
	case KindRaw:
		return rawString(v.raw)
	default:
		return ""
	}
}

// Equal reports structural equality. Member order is significant. Equal does
// not guard against cycles.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber, KindString:
		return a.text == b.text
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a.raw, b.raw)
	}
}
