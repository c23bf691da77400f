package models

import (
	"strconv"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Kind identifies which JSON shape a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Object
	Array
)

// String returns the lowercase JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a JSON value of any kind. A nil *Value stands for an absent value
// (a missing key or an index past the end), which is distinct from JSON null.
//
// Objects keep their members in insertion order. Assigning to an existing key
// keeps its position; deleting a key leaves the remaining order untouched.
type Value struct {
	kind Kind
	b    bool
	s    string // string payload, or the source literal of a number
	num  float64
	obj  *linkedhashmap.Map
	arr  []*Value
}

// NewNull returns a JSON null.
func NewNull() *Value { return &Value{kind: Null} }

// NewBool returns a JSON boolean.
func NewBool(b bool) *Value { return &Value{kind: Bool, b: b} }

// NewString returns a JSON string.
func NewString(s string) *Value { return &Value{kind: String, s: s} }

// NewNumber returns a JSON number from its literal text. The literal is kept
// verbatim for serialization; invalid literals yield 0 for comparisons.
func NewNumber(literal string) *Value {
	f, _ := strconv.ParseFloat(literal, 64)
	return &Value{kind: Number, s: literal, num: f}
}

// NewNumberFloat returns a JSON number with the shortest literal for f.
func NewNumberFloat(f float64) *Value {
	return &Value{kind: Number, s: strconv.FormatFloat(f, 'f', -1, 64), num: f}
}

// NewObject returns an empty JSON object.
func NewObject() *Value {
	return &Value{kind: Object, obj: linkedhashmap.New()}
}

// NewArray returns a JSON array holding items in order.
func NewArray(items ...*Value) *Value {
	arr := make([]*Value, 0, len(items))
	arr = append(arr, items...)
	return &Value{kind: Array, arr: arr}
}

// Kind reports the kind of v. A nil value reports Null.
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// IsNullish reports whether v is absent or JSON null.
func (v *Value) IsNullish() bool {
	return v == nil || v.kind == Null
}

// IsLeaf reports whether v is neither an object nor an array. Null is a leaf.
func (v *Value) IsLeaf() bool {
	k := v.Kind()
	return k != Object && k != Array
}

func (v *Value) IsObject() bool { return v.Kind() == Object }

func (v *Value) IsArray() bool { return v.Kind() == Array }

// Bool returns the boolean payload.
func (v *Value) Bool() bool { return v != nil && v.b }

// Str returns the string payload.
func (v *Value) Str() string {
	if v == nil || v.kind != String {
		return ""
	}
	return v.s
}

// Literal returns the source literal of a number.
func (v *Value) Literal() string {
	if v == nil || v.kind != Number {
		return ""
	}
	return v.s
}

// Float returns the numeric payload.
func (v *Value) Float() float64 {
	if v == nil {
		return 0
	}
	return v.num
}

// Len returns the number of members or elements of a container, 0 otherwise.
func (v *Value) Len() int {
	switch v.Kind() {
	case Object:
		return v.obj.Size()
	case Array:
		return len(v.arr)
	default:
		return 0
	}
}

// Keys returns object keys in insertion order.
func (v *Value) Keys() []string {
	if v.Kind() != Object {
		return nil
	}
	raw := v.obj.Keys()
	keys := make([]string, len(raw))
	for i, k := range raw {
		keys[i] = k.(string)
	}
	return keys
}

// Field returns the member stored under key.
func (v *Value) Field(key string) (*Value, bool) {
	if v.Kind() != Object {
		return nil, false
	}
	raw, ok := v.obj.Get(key)
	if !ok {
		return nil, false
	}
	return raw.(*Value), true
}

// SetField assigns member key, appending it when new.
func (v *Value) SetField(key string, member *Value) {
	if v.Kind() != Object {
		return
	}
	v.obj.Put(key, member)
}

// DeleteField removes member key and reports whether it existed.
func (v *Value) DeleteField(key string) bool {
	if v.Kind() != Object {
		return false
	}
	if _, ok := v.obj.Get(key); !ok {
		return false
	}
	v.obj.Remove(key)
	return true
}

// Index returns the element at i.
func (v *Value) Index(i int) (*Value, bool) {
	if v.Kind() != Array || i < 0 || i >= len(v.arr) {
		return nil, false
	}
	return v.arr[i], true
}

// Items returns the array elements. The slice is shared with v.
func (v *Value) Items() []*Value {
	if v.Kind() != Array {
		return nil
	}
	return v.arr
}

// SetIndex assigns element i. Indices past the end grow the array, padding
// the gap with nulls.
func (v *Value) SetIndex(i int, elem *Value) bool {
	if v.Kind() != Array || i < 0 {
		return false
	}
	for len(v.arr) < i {
		v.arr = append(v.arr, NewNull())
	}
	if i == len(v.arr) {
		v.arr = append(v.arr, elem)
		return true
	}
	v.arr[i] = elem
	return true
}

// Append adds elem at the end of the array.
func (v *Value) Append(elem *Value) bool {
	if v.Kind() != Array {
		return false
	}
	v.arr = append(v.arr, elem)
	return true
}

// RemoveIndex deletes element i, shifting later elements down by one.
func (v *Value) RemoveIndex(i int) bool {
	if v.Kind() != Array || i < 0 || i >= len(v.arr) {
		return false
	}
	copy(v.arr[i:], v.arr[i+1:])
	v.arr[len(v.arr)-1] = nil
	v.arr = v.arr[:len(v.arr)-1]
	return true
}

// Clone returns a deep copy of v. Mutating the copy never affects v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	switch v.kind {
	case Object:
		out := NewObject()
		it := v.obj.Iterator()
		for it.Next() {
			out.obj.Put(it.Key(), it.Value().(*Value).Clone())
		}
		return out
	case Array:
		out := &Value{kind: Array, arr: make([]*Value, len(v.arr))}
		for i, elem := range v.arr {
			out.arr[i] = elem.Clone()
		}
		return out
	default:
		cp := *v
		return &cp
	}
}

// Equal reports deep equality. Numbers compare by value, objects ignore
// member order.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == nil && o == nil
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == o.b
	case Number:
		return v.num == o.num
	case String:
		return v.s == o.s
	case Array:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		if v.obj.Size() != o.obj.Size() {
			return false
		}
		for _, k := range v.Keys() {
			a, _ := v.Field(k)
			b, ok := o.Field(k)
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	}
	return false
}
