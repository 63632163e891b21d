// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands contains the built-in commands.
package commands

import (
	"context"

	"github.com/yeetrun/yel/pkg/command"
	"github.com/yeetrun/yel/pkg/result"
)

// Register adds every built-in command to reg.
func Register(reg *command.Registry) error {
	groups := [][]command.Descriptor{
		envCommands(),
		collectionCommands(),
		filterCommands(),
		stringCommands(),
		logicCommands(),
		generateCommands(),
	}
	for _, ds := range groups {
		for _, d := range ds {
			if err := reg.Register(d); err != nil {
				return err
			}
		}
	}
	return nil
}

// NewRegistry returns a registry holding the built-in commands.
func NewRegistry() *command.Registry {
	reg := command.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}
	return reg
}

// shaped runs a different function depending on whether the positional
// input is a list, an object or a single value. A nil function returns its
// input unchanged.
type shaped struct {
	inv    *command.Invocation
	list   func([]any) (any, error)
	object func(map[string]any) (any, error)
	single func(any) (any, error)
}

func (c *shaped) Run(ctx context.Context) (result.Result, error) {
	args, err := c.inv.PositionalArgs()
	if err != nil {
		return command.Fail(err)
	}
	var out any
	switch x := args.(type) {
	case []any:
		out = x
		if c.list != nil {
			out, err = c.list(x)
		}
	case map[string]any:
		out = x
		if c.object != nil {
			out, err = c.object(x)
		}
	default:
		out = x
		if c.single != nil {
			out, err = c.single(x)
		}
	}
	if err != nil {
		return command.Fail(err)
	}
	return result.OK(out), nil
}

// overDefaults adapts a list operation to the object case: the operation
// runs over the default bucket (or stdin) while named options configure it.
// A single default value is passed as a one-element list and, when unwrap
// is set, the one-element output is unwrapped again.
func overDefaults(inv *command.Invocation, unwrap bool, fn func([]any) (any, error)) func(map[string]any) (any, error) {
	return func(map[string]any) (any, error) {
		items, single, err := inv.DefaultArgsList()
		if err != nil {
			return nil, err
		}
		out, err := fn(items)
		if err != nil {
			return nil, err
		}
		if single && unwrap {
			if l, ok := out.([]any); ok && len(l) == 1 {
				return l[0], nil
			}
		}
		return out, nil
	}
}

// simple builds a descriptor whose short and long names are the same.
func simple(name, usage, desc string, opts map[rune]string, f command.Factory) command.Descriptor {
	return command.Descriptor{
		Short:        name,
		Long:         name,
		Usage:        usage,
		Description:  desc,
		ShortOptions: opts,
		New:          f,
	}
}
