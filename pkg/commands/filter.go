// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"context"

	"github.com/yeetrun/yel/pkg/command"
	"github.com/yeetrun/yel/pkg/result"
	"github.com/yeetrun/yel/pkg/value"
)

func filterCommands() []command.Descriptor {
	opts := map[rune]string{'t': "type"}
	return []command.Descriptor{
		simple("filter", "filter -t none -- 1 null 2", "Drop items of the given types", opts, func(inv *command.Invocation) command.Command {
			return &filterCmd{inv: inv, keep: false}
		}),
		simple("keep", "keep -t integer -- 1 a 2", "Keep items of the given types", opts, func(inv *command.Invocation) command.Command {
			return &filterCmd{inv: inv, keep: true}
		}),
	}
}

// filterCmd selects items by the type checks named in --type. With keep set
// an item stays when any check matches, otherwise it stays when none does.
type filterCmd struct {
	inv  *command.Invocation
	keep bool
}

func (c *filterCmd) Run(ctx context.Context) (result.Result, error) {
	items, _, err := c.inv.DefaultArgsList()
	if err != nil {
		return command.Fail(err)
	}
	if _, ok := c.inv.Arg("type"); !ok {
		return result.BadRequest("filter not specified"), nil
	}
	var checks []func(any) bool
	for _, name := range c.inv.ListArg("type") {
		check, ok := value.Checks[value.String(name)]
		if !ok {
			return result.BadRequestf("filter not found: %s", value.String(name)), nil
		}
		checks = append(checks, check)
	}

	out := []any{}
	for _, item := range items {
		matched := false
		for _, check := range checks {
			if check(item) {
				matched = true
				break
			}
		}
		if matched == c.keep {
			out = append(out, item)
		}
	}
	return result.OK(out), nil
}
