// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"errors"
	"fmt"
	"sort"

	"tailscale.com/util/mak"
)

var (
	ErrNotFound      = errors.New("command: not found")
	ErrDuplicateName = errors.New("command: duplicate name")
)

// Registry maps command names to descriptors. It is populated once at start
// up and only read afterwards.
type Registry struct {
	byName map[string]*Descriptor
	descs  []*Descriptor
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds d under its short and long names.
func (r *Registry) Register(d Descriptor) error {
	if d.Short == "" {
		return errors.New("command: descriptor without a name")
	}
	if d.New == nil {
		return fmt.Errorf("command: %s has no factory", d.Short)
	}
	if d.Long == "" {
		d.Long = d.Short
	}
	for _, name := range d.Names() {
		if _, ok := r.byName[name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}
	desc := &d
	for _, name := range desc.Names() {
		mak.Set(&r.byName, name, desc)
	}
	r.descs = append(r.descs, desc)
	return nil
}

// MustRegister registers all descriptors and panics on the first error.
func (r *Registry) MustRegister(ds ...Descriptor) {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the descriptor registered under name.
func (r *Registry) Resolve(name string) (*Descriptor, error) {
	if d, ok := r.byName[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Descriptors returns each registered command once, ordered by short name.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(r.descs))
	copy(out, r.descs)
	sort.Slice(out, func(i, j int) bool { return out[i].Short < out[j].Short })
	return out
}

// Names returns every registered name, short and long, in ascending order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
