// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/yeetrun/yel/pkg/command"
	"github.com/yeetrun/yel/pkg/value"
)

func collectionCommands() []command.Descriptor {
	minimum := extremum("min", -1)
	minimum.Long = "minimum"
	maximum := extremum("max", 1)
	maximum.Long = "maximum"

	return []command.Descriptor{
		simple("echo", "echo 1 2 3", "Reply with the arguments", nil, func(inv *command.Invocation) command.Command {
			return &shaped{inv: inv}
		}),
		simple("size", "size a b c", "Number of items", nil, func(inv *command.Invocation) command.Command {
			return &shaped{
				inv:    inv,
				list:   func(l []any) (any, error) { return int64(len(l)), nil },
				object: func(m map[string]any) (any, error) { return int64(len(m)), nil },
				single: func(any) (any, error) { return int64(1), nil },
			}
		}),
		simple("join", "join -s , -- a b c", "Join items with a separator", map[rune]string{'s': "separator"}, newJoin),
		simple("range", "range 10; range 2 10; range 0 10 -2; range --from 2 --to 5", "Range of integers",
			map[rune]string{'f': "from", 't': "to", 's': "step"}, newRange),
		simple("keys", "keys --a 1 --b 2", "Keys of an object", nil, func(inv *command.Invocation) command.Command {
			return &shaped{
				inv:    inv,
				list:   func([]any) (any, error) { return []any{}, nil },
				object: func(m map[string]any) (any, error) { return stringsToList(value.SortedKeys(m)), nil },
				single: func(any) (any, error) { return []any{}, nil },
			}
		}),
		simple("values", "values --a 1 --b 2", "Values of an object", nil, func(inv *command.Invocation) command.Command {
			return &shaped{
				inv: inv,
				object: func(m map[string]any) (any, error) {
					out := make([]any, 0, len(m))
					for _, k := range value.SortedKeys(m) {
						out = append(out, m[k])
					}
					return out, nil
				},
				single: wrap,
			}
		}),
		simple("items", "items a b c", "Index or key and value pairs", nil, func(inv *command.Invocation) command.Command {
			return &shaped{
				inv: inv,
				list: func(l []any) (any, error) {
					out := make([]any, len(l))
					for i, v := range l {
						out[i] = []any{int64(i), v}
					}
					return out, nil
				},
				object: pairs,
				single: func(v any) (any, error) { return []any{[]any{int64(0), v}}, nil },
			}
		}),
		simple("list", "list --a 1", "List representation of the arguments", nil, func(inv *command.Invocation) command.Command {
			return &shaped{inv: inv, object: pairs, single: wrap}
		}),
		simple("flatten", "flatten [1, [2, 3]] 4", "Flat list of the arguments", nil, func(inv *command.Invocation) command.Command {
			return &shaped{
				inv:    inv,
				list:   func(l []any) (any, error) { return value.Flatten(l), nil },
				object: func(m map[string]any) (any, error) { return value.Flatten(value.Pairs(m)), nil },
				single: wrap,
			}
		}),
		simple("reverse", "reverse 1 2 3", "Reverse a list", nil, func(inv *command.Invocation) command.Command {
			return &shaped{inv: inv, list: func(l []any) (any, error) {
				out := slices.Clone(l)
				slices.Reverse(out)
				return out, nil
			}}
		}),
		simple("shuffle", "shuffle 1 2 3", "Shuffle a list", nil, func(inv *command.Invocation) command.Command {
			return &shaped{inv: inv, list: func(l []any) (any, error) {
				out := slices.Clone(l)
				rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
				return out, nil
			}}
		}),
		minimum,
		maximum,
		simple("set", "set 1 2 1 3", "Remove duplicated items", nil, func(inv *command.Invocation) command.Command {
			return &shaped{inv: inv, list: dedupe}
		}),
		simple("slice", "slice -f 1 -t 3 -- a b c d", "Sublist of the default arguments",
			map[rune]string{'f': "from", 't': "to", 's': "step"}, newSlice),
		simple("item", "item -i -1 -- a b c", "Item at an index of the default arguments", map[rune]string{'i': "item"}, newItem),
	}
}

func wrap(v any) (any, error) { return []any{v}, nil }

func pairs(m map[string]any) (any, error) { return value.Pairs(m), nil }

func stringsToList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func joinItems(items []any, sep string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = value.String(it)
	}
	return strings.Join(parts, sep)
}

func newJoin(inv *command.Invocation) command.Command {
	return &shaped{
		inv:  inv,
		list: func(l []any) (any, error) { return joinItems(l, " "), nil },
		object: overDefaults(inv, false, func(items []any) (any, error) {
			sep, err := inv.StringArg("separator", " ")
			if err != nil {
				return nil, err
			}
			return joinItems(items, sep), nil
		}),
		single: func(v any) (any, error) { return value.String(v), nil },
	}
}

func newRange(inv *command.Invocation) command.Command {
	return &shaped{
		inv:  inv,
		list: rangeOf,
		object: func(map[string]any) (any, error) {
			bounds := make([]any, 0, 3)
			from, hasFrom, err := inv.IntArg("from")
			if err != nil {
				return nil, err
			}
			to, hasTo, err := inv.IntArg("to")
			if err != nil {
				return nil, err
			}
			step, hasStep, err := inv.IntArg("step")
			if err != nil {
				return nil, err
			}
			if !hasTo {
				return nil, command.BadRequestf("expected option to")
			}
			if !hasFrom {
				from = 0
			}
			bounds = append(bounds, from, to)
			if hasStep {
				bounds = append(bounds, step)
			}
			return rangeOf(bounds)
		},
		single: func(v any) (any, error) { return rangeOf([]any{v}) },
	}
}

// rangeOf takes to, from and to, or from, to and step. A negative step
// counts down from to towards from.
func rangeOf(args []any) (any, error) {
	ints := make([]int64, len(args))
	for i, a := range args {
		n, ok := value.AsInt(a)
		if !ok {
			return nil, command.BadRequestf("expected 1, 2 or 3 integers, got: %s", value.String(args))
		}
		ints[i] = n
	}
	var from, to, step int64 = 0, 0, 1
	switch len(ints) {
	case 1:
		to = ints[0]
	case 2:
		from, to = ints[0], ints[1]
	case 3:
		from, to, step = ints[0], ints[1], ints[2]
		if step < 0 {
			from, to = to, from
		}
	default:
		return nil, command.BadRequestf("expected 1, 2 or 3 integers, got: %s", value.String(args))
	}
	if step == 0 {
		return nil, command.BadRequestf("range step must not be zero")
	}
	out := []any{}
	for i := from; (step > 0 && i < to) || (step < 0 && i > to); i += step {
		out = append(out, i)
	}
	return out, nil
}

func extremum(name string, sign int) command.Descriptor {
	desc := "Smallest item of a list"
	if sign > 0 {
		desc = "Largest item of a list"
	}
	return simple(name, name+" 3 1 2", desc, nil, func(inv *command.Invocation) command.Command {
		return &shaped{inv: inv, list: func(l []any) (any, error) {
			if len(l) == 0 {
				return nil, command.BadRequestf("%s of an empty list", name)
			}
			best := l[0]
			for _, v := range l[1:] {
				c, err := value.Compare(v, best)
				if errors.Is(err, value.ErrIncomparable) {
					return nil, command.BadRequestf("cannot compare %s and %s", value.TypeName(v), value.TypeName(best))
				}
				if c*sign > 0 {
					best = v
				}
			}
			return best, nil
		}}
	})
}

func dedupe(l []any) (any, error) {
	seen := make(map[string]bool, len(l))
	out := make([]any, 0, len(l))
	for _, v := range l {
		k := value.Key(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out, nil
}

func newSlice(inv *command.Invocation) command.Command {
	return &shaped{
		inv: inv,
		object: overDefaults(inv, false, func(items []any) (any, error) {
			var bounds [3]*int64
			for i, name := range []string{"from", "to", "step"} {
				n, ok, err := inv.IntArg(name)
				if err != nil {
					return nil, err
				}
				if ok {
					bounds[i] = &n
				}
			}
			from, to, step := bounds[0], bounds[1], bounds[2]
			if step != nil && *step < 0 {
				from, to = to, from
			}
			return sliceOf(items, from, to, step)
		}),
	}
}

// sliceOf returns items[from:to:step] with the semantics of an extended
// slice: missing bounds default to the ends, negative bounds count from the
// end and a negative step walks backwards.
func sliceOf(items []any, from, to, step *int64) ([]any, error) {
	n := int64(len(items))
	st := int64(1)
	if step != nil {
		st = *step
	}
	if st == 0 {
		return nil, command.BadRequestf("slice step cannot be zero")
	}
	clamp := func(p *int64, def, lo, hi int64) int64 {
		if p == nil {
			return def
		}
		i := *p
		if i < 0 {
			i += n
			if i < lo {
				i = lo
			}
		} else if i > hi {
			i = hi
		}
		return i
	}
	out := []any{}
	if st > 0 {
		start, stop := clamp(from, 0, 0, n), clamp(to, n, 0, n)
		for i := start; i < stop; i += st {
			out = append(out, items[i])
		}
		return out, nil
	}
	start, stop := clamp(from, n-1, -1, n-1), clamp(to, -1, -1, n-1)
	for i := start; i > stop; i += st {
		out = append(out, items[i])
	}
	return out, nil
}

func newItem(inv *command.Invocation) command.Command {
	return &shaped{
		inv: inv,
		list: func(l []any) (any, error) {
			if len(l) == 0 {
				return l, nil
			}
			return l[0], nil
		},
		object: overDefaults(inv, false, func(items []any) (any, error) {
			if len(items) == 0 {
				return items, nil
			}
			idx, _, err := inv.IntArg("item")
			if err != nil {
				return nil, err
			}
			i := idx
			if i < 0 {
				i += int64(len(items))
			}
			if i < 0 || i >= int64(len(items)) {
				return nil, command.BadRequestf("index %d out of range", idx)
			}
			return items[i], nil
		}),
	}
}
