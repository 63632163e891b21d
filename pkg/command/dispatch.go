// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yeetrun/yel/pkg/argv"
	"github.com/yeetrun/yel/pkg/result"
	"github.com/yeetrun/yel/pkg/vars"
)

// InvocationName returns the command name encoded in argv0: its base name
// with one leading "@" removed.
func InvocationName(argv0 string) string {
	return strings.TrimPrefix(filepath.Base(argv0), "@")
}

// Dispatcher resolves a command by name, parses its tokens and runs it.
type Dispatcher struct {
	Registry *Registry

	// Debug disables the safety net: errors are returned and panics
	// propagate.
	Debug  bool
	Strict bool

	Stdin  io.Reader
	Logger *log.Logger

	// Aliases maps extra invocation names to registered command names.
	Aliases map[string]string
}

// Dispatch runs the command called name with the given tokens. Outside of
// debug mode every failure is reported through the Result and the returned
// error is nil.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, tokens []string, store vars.Store) (result.Result, error) {
	logger := d.logger()
	name = strings.TrimPrefix(name, "@")
	if target, ok := d.Aliases[name]; ok {
		logger.Debug("alias", "name", name, "command", target)
		name = target
	}
	desc, err := d.Registry.Resolve(name)
	if err != nil {
		logger.Debug("resolve failed", "name", name, "err", err)
		return result.NotFoundf("command %s not found", name), nil
	}

	args, err := argv.Parse(tokens, desc.ShortOptions, d.Strict)
	if err != nil {
		return d.fail(logger, err)
	}
	logger.Debug("parsed", "command", desc.Short, "args", args.Map())

	if store == nil {
		store = &vars.Map{}
	}
	inv := &Invocation{
		Name:        desc.Short,
		Args:        args.Named,
		Defaults:    args.Defaults,
		HasDefaults: args.HasDefaults,
		Vars:        store,
		Stdin:       d.Stdin,
		Strict:      d.Strict,
		Logger:      logger.WithPrefix(desc.Short),
	}
	return d.run(ctx, logger, desc, inv)
}

func (d *Dispatcher) run(ctx context.Context, logger *log.Logger, desc *Descriptor, inv *Invocation) (res result.Result, err error) {
	if !d.Debug {
		defer func() {
			if r := recover(); r != nil {
				perr, ok := r.(error)
				if !ok {
					perr = fmt.Errorf("%v", r)
				}
				logger.Debug("recovered panic", "command", desc.Short, "err", perr)
				res, err = result.FromError(perr), nil
			}
		}()
	}
	res, err = desc.New(inv).Run(ctx)
	if err != nil {
		return d.fail(logger, err)
	}
	return res, nil
}

func (d *Dispatcher) fail(logger *log.Logger, err error) (result.Result, error) {
	if d.Debug {
		return result.FromError(err), err
	}
	logger.Debug("command failed", "err", err)
	return result.FromError(err), nil
}

func (d *Dispatcher) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.New(io.Discard)
}
