// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Checks are the named type predicates available to commands that select
// items by kind.
var Checks = map[string]func(any) bool{
	"integer": IsInt,
	"decimal": IsFloat,
	"number":  IsNumber,
	"string":  IsString,
	"boolean": IsBool,
	"none":    IsNull,
	"list":    IsList,
	"object":  IsObject,
	"falsy":   Falsy,
	"truthy":  func(v any) bool { return !Falsy(v) },
}

func IsInt(v any) bool {
	switch v.(type) {
	case int, int64:
		return true
	}
	return false
}

func IsFloat(v any) bool {
	switch v.(type) {
	case float64, float32:
		return true
	}
	return false
}

func IsNumber(v any) bool { return IsInt(v) || IsFloat(v) }

func IsString(v any) bool {
	_, ok := v.(string)
	return ok
}

func IsBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func IsNull(v any) bool { return v == nil }

func IsList(v any) bool {
	_, ok := v.([]any)
	return ok
}

func IsObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// Falsy reports the JavaScript-like falsy values: false, zero and null.
// Empty strings and containers are not falsy.
func Falsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	default:
		if f, ok := AsFloat(v); ok {
			return f == 0
		}
	}
	return false
}

// Truthy reports whether v counts as true in boolean context. Null, false,
// zero, the empty string and empty containers are false.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		if f, ok := AsFloat(v); ok {
			return f != 0
		}
	}
	return true
}

// AsInt returns v as an int64 if it is an integer value. Booleans are not
// integers.
func AsInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	}
	return 0, false
}

// AsFloat returns v as a float64 if it is a number.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return 0, false
}

// TypeName is the name used for v in user facing messages.
func TypeName(v any) string {
	switch {
	case v == nil:
		return "null"
	case IsInt(v):
		return "integer"
	case IsFloat(v):
		return "decimal"
	case IsString(v):
		return "string"
	case IsBool(v):
		return "boolean"
	case IsList(v):
		return "list"
	case IsObject(v):
		return "object"
	}
	return "unknown"
}
