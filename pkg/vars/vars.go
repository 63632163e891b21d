// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vars provides the variable store handed to every command.
//
// A store maps names to raw strings, like process environment variables.
// Values are JSON encoded on write and decoded on read. A store lives for a
// single invocation; writes are never propagated to the parent process.
package vars

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yeetrun/yel/pkg/value"
	"tailscale.com/util/mak"
)

// Store is the raw variable storage.
type Store interface {
	Lookup(name string) (string, bool)
	Set(name, value string)
	Names() []string
}

// Map is an in-memory Store.
type Map map[string]string

func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m *Map) Set(name, value string) {
	mak.Set(m, name, value)
}

// Names returns the variable names in ascending order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// FromEnviron builds a Map from KEY=VALUE entries as returned by
// os.Environ. Entries without "=" are ignored; later entries win.
func FromEnviron(environ []string) *Map {
	m := make(Map, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		m[k] = v
	}
	return &m
}

// Get returns the decoded value of name, or def when it is not set. A value
// that is not valid JSON is returned as the raw string unless strict is set.
func Get(s Store, name string, def any, strict bool) (any, error) {
	raw, ok := s.Lookup(name)
	if !ok {
		return def, nil
	}
	v, err := value.DecodeString(raw)
	if err != nil {
		if strict {
			return nil, fmt.Errorf("variable %s: %w", name, &value.MalformedValueError{Token: raw, Err: err})
		}
		return raw, nil
	}
	return v, nil
}

// Put JSON encodes v and stores it under name.
func Put(s Store, name string, v any) error {
	b, err := value.Marshal(v)
	if err != nil {
		return fmt.Errorf("variable %s: %w", name, err)
	}
	s.Set(name, string(b))
	return nil
}
