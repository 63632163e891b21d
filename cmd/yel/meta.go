// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shayne/yargs"
	"github.com/yeetrun/yel/pkg/command"
	"github.com/yeetrun/yel/pkg/fileutil"
	"gopkg.in/yaml.v3"
)

// version is set at build time.
var version = ""

var metaCommands = map[string]yargs.SubCommandInfo{
	"commands": {
		Name:        "commands",
		Description: "List the available commands",
		Usage:       "[--format text|json|yaml]",
		Examples:    []string{"yel commands", "yel commands --format json"},
	},
	"link": {
		Name:        "link",
		Description: "Create a symlink to yel for every command so it can be run by name",
		Usage:       "--dir DIR [--prefix @] [--target PATH]",
		Examples:    []string{"yel link --dir ~/.local/bin", "yel link --dir /usr/local/bin --prefix ''"},
	},
	"version": {
		Name:        "version",
		Description: "Print the yel version",
	},
}

func isMetaCommand(name string) bool {
	if name == "help" {
		return true
	}
	_, ok := metaCommands[name]
	return ok
}

func (a *app) runMeta(ctx context.Context, args []string) int {
	handlers := map[string]yargs.SubcommandHandler{
		"commands": a.handleCommands,
		"link":     a.handleLink,
		"version":  a.handleVersion,
	}
	if err := yargs.RunSubcommandsWithGroups(ctx, args, a.buildHelpConfig(), globalFlagsParsed{}, handlers, nil); err != nil {
		fmt.Fprintln(a.streams.Err, err)
		return 1
	}
	return 0
}

func (a *app) buildHelpConfig() yargs.HelpConfig {
	subcommands := make(map[string]yargs.SubCommandInfo)
	for name, info := range metaCommands {
		subcommands[name] = info
	}
	for _, d := range a.reg.Descriptors() {
		info := yargs.SubCommandInfo{
			Name:        d.Short,
			Description: d.Description,
			Examples:    []string{d.Usage},
		}
		if d.Long != d.Short {
			info.Aliases = []string{d.Long}
		}
		subcommands[d.Short] = info
	}
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        progName,
			Description: "Run small JSON commands; link it as a command name (or @name) to run that command directly.",
			Examples: []string{
				"yel echo 1 2 3",
				"yel range --from 2 --to 5",
				"echo '[3, 1, 2]' | yel max",
				"yel link --dir ~/.local/bin && @s.upper hello",
			},
		},
		SubCommands: subcommands,
	}
}

type commandInfo struct {
	Short       string            `json:"short" yaml:"short"`
	Long        string            `json:"long" yaml:"long"`
	Usage       string            `json:"usage,omitempty" yaml:"usage,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Options     map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

func commandInfos(reg *command.Registry) []commandInfo {
	var out []commandInfo
	for _, d := range reg.Descriptors() {
		info := commandInfo{
			Short:       d.Short,
			Long:        d.Long,
			Usage:       d.Usage,
			Description: d.Description,
		}
		for short, long := range d.ShortOptions {
			if info.Options == nil {
				info.Options = make(map[string]string)
			}
			info.Options["-"+string(short)] = "--" + long
		}
		out = append(out, info)
	}
	return out
}

type commandsFlagsParsed struct {
	Format string `flag:"format" help:"Output format: text, json or yaml"`
}

func (a *app) handleCommands(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "commands" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[commandsFlagsParsed](args)
	if err != nil {
		return err
	}
	infos := commandInfos(a.reg)
	switch result.Flags.Format {
	case "", "text":
		w := tabwriter.NewWriter(a.streams.Out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "COMMAND\tALIAS\tDESCRIPTION")
		for _, info := range infos {
			alias := ""
			if info.Long != info.Short {
				alias = info.Long
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", info.Short, alias, info.Description)
		}
		return w.Flush()
	case "json":
		b, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.streams.Out, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(a.streams.Out)
		enc.SetIndent(2)
		if err := enc.Encode(infos); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q, want text, json or yaml", result.Flags.Format)
}

type linkFlagsParsed struct {
	Dir    string  `flag:"dir" help:"Directory to create the links in"`
	Prefix *string `flag:"prefix" help:"Prefix of each link name (default @)"`
	Target string  `flag:"target" help:"Path the links point to (default: this binary)"`
}

func (a *app) handleLink(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "link" {
		args = args[1:]
	}
	result, err := yargs.ParseFlags[linkFlagsParsed](args)
	if err != nil {
		return err
	}
	flags := result.Flags
	if flags.Dir == "" {
		return fmt.Errorf("link requires --dir")
	}
	prefix := "@"
	if flags.Prefix != nil {
		prefix = *flags.Prefix
	}
	target := flags.Target
	if target == "" {
		if target, err = fileutil.Executable(); err != nil {
			return fmt.Errorf("failed to locate yel: %w", err)
		}
	}

	names := a.reg.Names()
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(flags.Dir, prefix+name)
		if fileutil.LinkTarget(path) == target {
			continue
		}
		if err := fileutil.ReplaceSymlink(target, path); err != nil {
			return fmt.Errorf("failed to link %s: %w", name, err)
		}
		a.logger.Debug("linked", "path", path, "target", target)
	}
	fmt.Fprintf(a.streams.Out, "linked %d commands in %s\n", len(names), flags.Dir)
	return nil
}

func (a *app) handleVersion(context.Context, []string) error {
	fmt.Fprintln(a.streams.Out, progName, buildVersion())
	return nil
}

func buildVersion() string {
	if version != "" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return strings.TrimPrefix(bi.Main.Version, "v")
	}
	return "dev"
}
