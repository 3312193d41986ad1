// Package canonical reduces values to the JSON data model so that two
// values can be compared by their canonical JSON text.
package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

type kind byte

const (
	kindNull kind = iota
	kindBoolean
	kindNumber
	kindString
	kindObject
	kindArray
	kindOther
)

var kindNames = [...]string{
	kindNull:    "null",
	kindBoolean: "boolean",
	kindNumber:  "number",
	kindString:  "string",
	kindObject:  "object",
	kindArray:   "array",
}

func kindOf(v interface{}) kind {
	switch v.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBoolean
	case string:
		return kindString
	case json.Number:
		return kindNumber
	case map[string]interface{}, map[interface{}]interface{}:
		return kindObject
	case []interface{}:
		return kindArray
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return kindNumber
	case reflect.Map:
		return kindObject
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return kindOther
		}
		return kindArray
	case reflect.Ptr:
		if rv.IsNil() {
			return kindNull
		}
	}
	return kindOther
}

// TypeName returns the JSON type name of v ("null", "boolean", "number",
// "string", "object", "array"), or its Go type for anything else.
func TypeName(v interface{}) string {
	if k := kindOf(v); k != kindOther {
		return kindNames[k]
	}
	return fmt.Sprintf("%T", v)
}

// Normalize rewrites v into plain JSON values: map[string]interface{},
// []interface{}, float64, string, bool and nil.
func Normalize(v interface{}) (interface{}, error) {
	switch typed := v.(type) {
	case nil, bool, string:
		return typed, nil
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(typed))
		for k, child := range typed {
			n, err := Normalize(child)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(typed))
		for k, child := range typed {
			n, err := Normalize(child)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, child := range typed {
			n, err := Normalize(child)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("unsupported number %v", f)
		}
		return f, nil
	}

	// Structs, typed maps and slices: let encoding/json decide their shape.
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal returns the canonical JSON text of v. Object keys are sorted and
// numbers of every Go type share one representation.
func Marshal(v interface{}) ([]byte, error) {
	n, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

// Equal reports whether a and b have the same canonical JSON text.
func Equal(a, b interface{}) (bool, error) {
	left, err := Marshal(a)
	if err != nil {
		return false, err
	}
	right, err := Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(left, right), nil
}
