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

func envCommands() []command.Descriptor {
	return []command.Descriptor{{
		Short:        "env",
		Long:         "environment",
		Usage:        `env get foo; env get foo "default"; env set foo "value"`,
		Description:  "Read or write variables",
		ShortOptions: map[rune]string{'f': "fail"},
		New:          func(inv *command.Invocation) command.Command { return &envCmd{inv: inv} },
	}}
}

type envCmd struct {
	inv *command.Invocation
}

func (c *envCmd) Run(ctx context.Context) (result.Result, error) {
	args, err := c.inv.DefaultArgs()
	if err != nil {
		return command.Fail(err)
	}
	list, ok := args.([]any)
	if !ok || len(list) < 2 || len(list) > 3 {
		return result.BadRequest("expected 2 or 3 args"), nil
	}
	action, ok := list[0].(string)
	if !ok {
		return result.BadRequest("expected valid action get or set"), nil
	}
	name := value.String(list[1])
	var val any
	if len(list) == 3 {
		val = list[2]
	}

	switch action {
	case "get":
		if c.inv.BoolArg("fail") {
			if _, ok := c.inv.Vars.Lookup(name); !ok {
				return result.NotFoundf("variable %s not found", name), nil
			}
		}
		v, err := c.inv.Var(name, val)
		if err != nil {
			return result.Result{}, err
		}
		return result.OK(v), nil
	case "set":
		if err := c.inv.SetVar(name, val); err != nil {
			return result.Result{}, err
		}
		c.inv.Logger.Debug("set variable", "name", name)
		return result.OK(nil), nil
	}
	return result.BadRequest("expected valid action get or set"), nil
}
