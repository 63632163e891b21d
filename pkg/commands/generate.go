// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"context"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/yeetrun/yel/pkg/command"
	"github.com/yeetrun/yel/pkg/result"
	"github.com/yeetrun/yel/pkg/value"
)

const maxUUIDs = 10000

func generateCommands() []command.Descriptor {
	return []command.Descriptor{
		simple("uuid", "uuid; uuid -n 3", "Random UUIDs", map[rune]string{'n': "count"}, newUUID),
		simple("semver.sort", "semver.sort -r -- 1.10.0 1.2.0 v1.9.1", "Sort semantic versions",
			map[rune]string{'r': "reverse"}, newSemverSort),
		simple("semver.check", `semver.check -c ">= 1.2" -- 1.1.0 1.3.0`, "Keep versions satisfying a constraint",
			map[rune]string{'c': "constraint"}, newSemverCheck),
	}
}

// uuidCmd ignores its positional input.
type uuidCmd struct {
	inv *command.Invocation
}

func newUUID(inv *command.Invocation) command.Command {
	return &uuidCmd{inv: inv}
}

func (c *uuidCmd) Run(ctx context.Context) (result.Result, error) {
	n, ok, err := c.inv.IntArg("count")
	if err != nil {
		return command.Fail(err)
	}
	if !ok {
		return result.OK(uuid.NewString()), nil
	}
	if n < 1 || n > maxUUIDs {
		return result.BadRequestf("count must be between 1 and %d, got: %d", maxUUIDs, n), nil
	}
	out := make([]any, n)
	for i := range out {
		out[i] = uuid.NewString()
	}
	return result.OK(out), nil
}

type version struct {
	raw string
	v   *semver.Version
}

func parseVersions(items []any) ([]version, error) {
	out := make([]version, len(items))
	for i, it := range items {
		raw := value.String(it)
		v, err := semver.NewVersion(raw)
		if err != nil {
			return nil, command.BadRequestf("invalid version %q: %v", raw, err)
		}
		out[i] = version{raw: raw, v: v}
	}
	return out, nil
}

func newSemverSort(inv *command.Invocation) command.Command {
	sortVersions := func(items []any) (any, error) {
		vs, err := parseVersions(items)
		if err != nil {
			return nil, err
		}
		reverse := inv.BoolArg("reverse")
		sort.SliceStable(vs, func(i, j int) bool {
			if reverse {
				return vs[j].v.LessThan(vs[i].v)
			}
			return vs[i].v.LessThan(vs[j].v)
		})
		out := make([]any, len(vs))
		for i, v := range vs {
			out[i] = v.raw
		}
		return out, nil
	}
	return &shaped{
		inv:    inv,
		list:   sortVersions,
		object: overDefaults(inv, true, sortVersions),
		single: func(v any) (any, error) {
			if _, err := parseVersions([]any{v}); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

func newSemverCheck(inv *command.Invocation) command.Command {
	return &shaped{
		inv: inv,
		list: func([]any) (any, error) {
			return nil, command.BadRequestf("constraint not specified")
		},
		object: func(map[string]any) (any, error) {
			raw, err := inv.StringArg("constraint", "")
			if err != nil {
				return nil, err
			}
			if raw == "" {
				return nil, command.BadRequestf("constraint not specified")
			}
			c, err := semver.NewConstraint(raw)
			if err != nil {
				return nil, command.BadRequestf("invalid constraint %q: %v", raw, err)
			}
			items, single, err := inv.DefaultArgsList()
			if err != nil {
				return nil, err
			}
			vs, err := parseVersions(items)
			if err != nil {
				return nil, err
			}
			if single {
				return c.Check(vs[0].v), nil
			}
			out := []any{}
			for _, v := range vs {
				if c.Check(v.v) {
					out = append(out, v.raw)
				}
			}
			return out, nil
		},
		single: func(v any) (any, error) {
			return nil, command.BadRequestf("constraint not specified")
		},
	}
}
