// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"cmp"
	"errors"
	"math"
	"strings"
)

// ErrIncomparable is returned by Compare for values of different kinds or
// kinds without an order.
var ErrIncomparable = errors.New("value: values are not comparable")

// Listify returns v as a list: lists unchanged, objects as their key/value
// pairs, anything else wrapped in a one-element list.
func Listify(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case map[string]any:
		return Pairs(x)
	}
	return []any{v}
}

// Pairs returns the [key, value] pairs of m ordered by key.
func Pairs(m map[string]any) []any {
	out := make([]any, 0, len(m))
	for _, k := range SortedKeys(m) {
		out = append(out, []any{k, m[k]})
	}
	return out
}

// Flatten recursively inlines nested lists. Objects contribute their keys.
func Flatten(items []any) []any {
	out := make([]any, 0, len(items))
	for _, el := range items {
		switch x := el.(type) {
		case []any:
			out = append(out, Flatten(x)...)
		case map[string]any:
			for _, k := range SortedKeys(x) {
				out = append(out, k)
			}
		default:
			out = append(out, el)
		}
	}
	return out
}

// Key returns a string that is equal for equal values, usable as a map key.
func Key(v any) string {
	if f, ok := v.(float64); ok && math.Trunc(f) == f && math.Abs(f) < 1<<53 {
		// 1.0 and 1 are the same item.
		v = int64(f)
	}
	b, err := Marshal(v)
	if err != nil {
		return TypeName(v) + ":" + String(v)
	}
	return string(b)
}

// Compare orders two values of the same kind. Numbers compare numerically,
// strings lexically, booleans false before true and lists element-wise.
// Values of different kinds, objects and nulls return ErrIncomparable.
func Compare(a, b any) (int, error) {
	if ai, ok := AsInt(a); ok {
		if bi, ok := AsInt(b); ok {
			return cmp.Compare(ai, bi), nil
		}
	}
	if af, ok := AsFloat(a); ok {
		if bf, ok := AsFloat(b); ok {
			return cmp.Compare(af, bf), nil
		}
		return 0, ErrIncomparable
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, nil
			case !x:
				return -1, nil
			}
			return 1, nil
		}
	case []any:
		if y, ok := b.([]any); ok {
			for i := 0; i < len(x) && i < len(y); i++ {
				c, err := Compare(x[i], y[i])
				if err != nil || c != 0 {
					return c, err
				}
			}
			return cmp.Compare(len(x), len(y)), nil
		}
	}
	return 0, ErrIncomparable
}
