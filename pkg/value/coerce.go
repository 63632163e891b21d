// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value converts command-line tokens into JSON-compatible values and
// provides the helpers commands use to inspect them.
//
// A decoded value is one of string, int64, float64, bool, nil, []any or
// map[string]any.
package value

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrMalformedValue reports a token that is not valid JSON while strict
// coercion is enabled.
var ErrMalformedValue = errors.New("value: malformed value")

// MalformedValueError is returned by Coerce in strict mode.
type MalformedValueError struct {
	Token string
	Err   error // underlying JSON error
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("malformed value %q: %v", e.Token, e.Err)
}

func (e *MalformedValueError) Unwrap() error {
	return e.Err
}

func (e *MalformedValueError) Is(target error) bool {
	return target == ErrMalformedValue
}

// IsBareword reports whether token is kept as a plain string without trying
// JSON: it is non-empty, made of letters and digits, starts with a letter and
// is not one of the JSON literals.
func IsBareword(token string) bool {
	switch token {
	case "", "true", "false", "null":
		return false
	}
	for i, r := range token {
		if i == 0 && !unicode.IsLetter(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// Coerce converts a raw token into a decoded value.
//
// Barewords are returned unchanged. Everything else is decoded as JSON. When
// decoding fails the token is returned as a string, unless strict is set in
// which case a *MalformedValueError is returned.
func Coerce(token string, strict bool) (any, error) {
	if IsBareword(token) {
		return token, nil
	}
	v, err := DecodeString(token)
	if err != nil {
		if strict {
			return nil, &MalformedValueError{Token: token, Err: err}
		}
		return token, nil
	}
	return v, nil
}
