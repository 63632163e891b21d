// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command yel runs the built-in commands. It is a multicall binary: linked
// as "echo" or "@echo" it runs the echo command with its arguments, and run
// as "yel" it takes the command name as its first argument.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shayne/yargs"
	"github.com/yeetrun/yel/pkg/cmdutil"
	"github.com/yeetrun/yel/pkg/command"
	"github.com/yeetrun/yel/pkg/commands"
	"github.com/yeetrun/yel/pkg/config"
	"github.com/yeetrun/yel/pkg/vars"
)

const progName = "yel"

type globalFlagsParsed struct {
	Debug    bool   `flag:"debug" help:"Report failures as errors and do not recover panics (YEL_DEBUG)"`
	Strict   bool   `flag:"strict" help:"Only accept arguments that are valid JSON (YEL_STRICT)"`
	Config   string `flag:"config" help:"Configuration file (YEL_CONFIG)"`
	LogLevel string `flag:"log-level" help:"Log level: debug, info, warn or error (YEL_LOG_LEVEL)"`
	Color    string `flag:"color" help:"Color the error reason: auto, always or never"`
}

// globalValueFlags are the global flags that take a value, keyed by name.
var globalValueFlags = map[string]bool{
	"debug":     false,
	"strict":    false,
	"config":    true,
	"log-level": true,
	"color":     true,
}

// splitGlobalArgs returns the leading global flags of args and everything
// after them. Only the leading flags are global; anything after the command
// name belongs to the command.
func splitGlobalArgs(args []string) (flags, rest []string) {
	i := 0
	for i < len(args) {
		arg := args[i]
		if arg == "--" {
			return args[:i], args[i+1:]
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}
		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		takesValue, known := globalValueFlags[name]
		if !known {
			break
		}
		i++
		if takesValue && !hasValue && i < len(args) && !strings.HasPrefix(args[i], "-") {
			i++
		}
	}
	return args[:i], args[i:]
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	prefix, rest := splitGlobalArgs(args)
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](prefix, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, append(result.RemainingArgs, rest...), nil
}

type app struct {
	streams cmdutil.Streams
	store   *vars.Map
	cfg     *config.Config
	logger  *log.Logger
	reg     *command.Registry
}

func main() {
	os.Exit(run(context.Background(), os.Args, os.Environ(), cmdutil.StdStreams()))
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, argv, environ []string, streams cmdutil.Streams) int {
	a := &app{
		streams: streams,
		store:   vars.FromEnviron(environ),
		reg:     commands.NewRegistry(),
	}
	name := progName
	if len(argv) > 0 {
		name = command.InvocationName(argv[0])
	}
	var args []string
	if len(argv) > 1 {
		args = argv[1:]
	}

	if name != progName {
		if err := a.configure(globalFlagsParsed{}); err != nil {
			fmt.Fprintf(streams.Err, "%s: %v\n", progName, err)
			return 1
		}
		return a.dispatch(ctx, name, args)
	}

	flags, args, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintf(streams.Err, "%s: %v\n", progName, err)
		return 1
	}
	if err := a.configure(flags); err != nil {
		fmt.Fprintf(streams.Err, "%s: %v\n", progName, err)
		return 1
	}
	if len(args) == 0 || strings.HasPrefix(args[0], "-") || isMetaCommand(args[0]) {
		return a.runMeta(ctx, args)
	}
	return a.dispatch(ctx, args[0], args[1:])
}

// configure loads the configuration and applies the front-end flags on top
// of it.
func (a *app) configure(flags globalFlagsParsed) error {
	var (
		cfg *config.Config
		err error
	)
	if flags.Config != "" {
		cfg, err = config.LoadFrom(a.store, flags.Config)
	} else {
		cfg, err = config.Load(a.store)
	}
	if err != nil {
		return err
	}
	if flags.Debug {
		cfg.Debug = true
	}
	if flags.Strict {
		cfg.Strict = true
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if flags.Color != "" {
		cfg.Color = flags.Color
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = log.NewWithOptions(a.streams.Err, log.Options{
		Prefix: progName,
		Level:  cfg.Level(),
	})
	if cfg.Path != "" {
		a.logger.Debug("loaded config", "path", cfg.Path)
	}
	return nil
}

func (a *app) dispatch(ctx context.Context, name string, tokens []string) int {
	d := &command.Dispatcher{
		Registry: a.reg,
		Debug:    a.cfg.Debug,
		Strict:   a.cfg.Strict,
		Stdin:    a.streams.In,
		Logger:   a.logger,
		Aliases:  a.cfg.Aliases,
	}
	res, err := d.Dispatch(ctx, name, tokens, a.store)
	if err != nil {
		a.logger.Error("command failed", "command", name, "err", err)
		return 1
	}
	if err := res.Write(a.streams.Out, a.errWriter()); err != nil {
		a.logger.Error("failed to write result", "err", err)
		return 1
	}
	return res.ExitCode()
}

func (a *app) errWriter() io.Writer {
	return cmdutil.RedWriter(a.streams.Err, cmdutil.UseColor(a.cfg.Color, a.streams.Err))
}
