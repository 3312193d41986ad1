package nodepatch

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	"github.com/sanity-io/nodepatch/internal/canonical"
)

// FieldType is the declared value type of a Field.
type FieldType int

const (
	// AnyType accepts every JSON value, including plain objects and lists.
	AnyType FieldType = iota
	StringType
	NumberType
	IntegerType
	BooleanType
	// ObjectType fields hold a nested *Object, created lazily from the
	// field's Prototype.
	ObjectType
)

func (t FieldType) String() string {
	switch t {
	case StringType:
		return "string"
	case NumberType:
		return "number"
	case IntegerType:
		return "integer"
	case BooleanType:
		return "boolean"
	case ObjectType:
		return "object"
	default:
		return "any"
	}
}

// Field is a named, typed cell of a field mode Object.
type Field struct {
	Name     string
	Type     FieldType
	Nullable bool
	// Default is used when a non-nullable primitive field is removed or set
	// to null. It is ignored for ObjectType fields.
	Default interface{}
	// Prototype creates the nested object of an ObjectType field. When nil
	// a child-node mode Object is created instead.
	Prototype func() *Object

	value interface{}
}

// Get returns the current value: nil, a primitive, a plain JSON structure
// for AnyType fields, or the nested *Object.
func (f *Field) Get() interface{} {
	return f.value
}

func (f *Field) IsNull() bool {
	return f.value == nil
}

func (f *Field) serialized() interface{} {
	switch v := f.value.(type) {
	case nil:
		return nil
	case *Object:
		return v.Value()
	default:
		return deepCopy(v)
	}
}

// init sets the value a field starts with: null for nullable and object
// fields, the default otherwise.
func (f *Field) init() {
	if f.Nullable || f.Type == ObjectType {
		f.value = nil
		return
	}
	f.value = deepCopy(f.Default)
}

// reset clears a field: null when nullable, otherwise the default, or a
// fresh prototype instance for object fields.
func (f *Field) reset() {
	switch {
	case f.Nullable:
		f.value = nil
	case f.Type == ObjectType:
		f.value = f.instantiate()
	default:
		f.value = deepCopy(f.Default)
	}
}

func (f *Field) instantiate() *Object {
	if f.Prototype != nil {
		if obj := f.Prototype(); obj != nil {
			return obj
		}
	}
	return NewObject()
}

// coerce converts value to the field's primitive type. Only numbers given
// as strings and numbers given to string fields are converted.
func coerce(t FieldType, value interface{}) (interface{}, bool) {
	switch t {
	case AnyType:
		return deepCopy(value), true
	case StringType:
		switch v := value.(type) {
		case string:
			return v, true
		case json.Number:
			return v.String(), true
		}
		if i, ok := asInt(value); ok {
			return strconv.FormatInt(i, 10), true
		}
		if f, ok := asFloat(value); ok {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
	case NumberType:
		if f, ok := asFloat(value); ok {
			return f, true
		}
		if s, ok := value.(string); ok {
			if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
				return f, true
			}
		}
	case IntegerType:
		if i, ok := asInt(value); ok {
			return i, true
		}
		if f, ok := asFloat(value); ok {
			return integral(f)
		}
		if s, ok := value.(string); ok {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return i, true
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return integral(f)
			}
		}
	case BooleanType:
		if b, ok := value.(bool); ok {
			return b, true
		}
	}
	return nil, false
}

func integral(f float64) (interface{}, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return nil, false
	}
	return int64(f), true
}

func asInt(value interface{}) (int64, bool) {
	if n, ok := value.(json.Number); ok {
		i, err := n.Int64()
		return i, err == nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

func asFloat(value interface{}) (float64, bool) {
	if n, ok := value.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	if i, ok := asInt(value); ok {
		return float64(i), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func typeName(value interface{}) string {
	switch v := value.(type) {
	case *Object:
		return "object"
	case *Array:
		return "array"
	case *Leaf:
		return canonical.TypeName(v.value)
	}
	return canonical.TypeName(value)
}
