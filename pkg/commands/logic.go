// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"github.com/yeetrun/yel/pkg/command"
	"github.com/yeetrun/yel/pkg/value"
)

func logicCommands() []command.Descriptor {
	return []command.Descriptor{
		simple("all", "all 1 true a", "True when every item is truthy", nil, func(inv *command.Invocation) command.Command {
			return truthOf(inv, false, func(items []any) any {
				for _, v := range items {
					if !value.Truthy(v) {
						return false
					}
				}
				return true
			})
		}),
		simple("any", "any 0 false 1", "True when some item is truthy", nil, func(inv *command.Invocation) command.Command {
			return truthOf(inv, false, func(items []any) any {
				for _, v := range items {
					if value.Truthy(v) {
						return true
					}
				}
				return false
			})
		}),
		simple("not", "not 0 1", "Negated truthiness of each item", nil, func(inv *command.Invocation) command.Command {
			return truthOf(inv, true, func(items []any) any {
				out := make([]any, len(items))
				for i, v := range items {
					out[i] = !value.Truthy(v)
				}
				return out
			})
		}),
	}
}

// truthOf applies op to the positional items. Named options route it to
// the default bucket instead. A single input is unwrapped again when
// unwrap is set.
func truthOf(inv *command.Invocation, unwrap bool, op func([]any) any) command.Command {
	apply := func(items []any) (any, error) { return op(items), nil }
	return &shaped{
		inv:    inv,
		list:   apply,
		object: overDefaults(inv, unwrap, apply),
		single: func(v any) (any, error) {
			out := op([]any{v})
			if l, ok := out.([]any); ok && unwrap && len(l) == 1 {
				return l[0], nil
			}
			return out, nil
		},
	}
}
