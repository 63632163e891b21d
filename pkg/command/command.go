// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package command defines the contract between the dispatcher and command
// implementations, the registry that maps invocation names to commands and
// the dispatcher that runs them.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/yeetrun/yel/pkg/result"
	"github.com/yeetrun/yel/pkg/value"
	"github.com/yeetrun/yel/pkg/vars"
)

var (
	// ErrNoInput is returned when a command needs stdin and none is attached.
	ErrNoInput = errors.New("command: no input available")

	// ErrBadRequest marks errors caused by the caller's input. Fail reports
	// them as a bad request instead of an internal error.
	ErrBadRequest = errors.New("command: bad request")
)

// Command is a single runnable command instance.
//
// Run returns a Result for every expected outcome, including user errors
// such as bad arguments. A non-nil error means something unexpected
// happened; the dispatcher turns it into an internal error Result.
type Command interface {
	Run(ctx context.Context) (result.Result, error)
}

// Factory builds a Command for one invocation.
type Factory func(*Invocation) Command

// Func adapts a function to Command.
type Func func(ctx context.Context) (result.Result, error)

func (f Func) Run(ctx context.Context) (result.Result, error) {
	return f(ctx)
}

// Descriptor is the registered metadata and factory of a command.
type Descriptor struct {
	Short       string
	Long        string
	Usage       string
	Description string

	// ShortOptions expands short option letters to long option names.
	ShortOptions map[rune]string

	New Factory
}

// Names returns the distinct names the command answers to.
func (d *Descriptor) Names() []string {
	if d.Long == "" || d.Long == d.Short {
		return []string{d.Short}
	}
	return []string{d.Short, d.Long}
}

// ArgError describes an argument of the wrong shape or type.
type ArgError struct {
	Name string // argument name
	Want string // expected kind, e.g. "integer"
	Got  any
}

func (e *ArgError) Error() string {
	got, err := value.Marshal(e.Got)
	if err != nil {
		got = []byte(fmt.Sprint(e.Got))
	}
	return fmt.Sprintf("expected %s for %s, got: %s", e.Want, e.Name, got)
}

func (e *ArgError) Is(target error) bool {
	return target == ErrBadRequest
}

type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func (e *requestError) Is(target error) bool { return target == ErrBadRequest }

// BadRequestf returns an error that Fail turns into a bad request Result
// with the formatted message as its reason.
func BadRequestf(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// Fail converts bad request errors, including *ArgError, into a bad request
// Result and passes any other error through.
func Fail(err error) (result.Result, error) {
	if errors.Is(err, ErrBadRequest) {
		return result.BadRequest(err.Error()), nil
	}
	return result.Result{}, err
}

// Invocation is everything a command gets to see.
type Invocation struct {
	// Name is the resolved command name.
	Name string

	// Args holds the named options. The default bucket is never part of it.
	Args map[string]any

	// Defaults is the default bucket, meaningful when HasDefaults is set.
	Defaults    any
	HasDefaults bool

	Vars   vars.Store
	Stdin  io.Reader
	Strict bool
	Logger *log.Logger

	stdinRead  bool
	stdinValue any
	stdinErr   error
}

// ReadStdin decodes a single JSON document from Stdin. The input is read at
// most once; later calls return the same value.
func (inv *Invocation) ReadStdin() (any, error) {
	if inv.stdinRead {
		return inv.stdinValue, inv.stdinErr
	}
	inv.stdinRead = true
	if inv.Stdin == nil {
		inv.stdinErr = ErrNoInput
		return nil, inv.stdinErr
	}
	v, err := value.Decode(inv.Stdin)
	if err != nil {
		inv.stdinErr = fmt.Errorf("failed to read arguments from stdin: %w", err)
		return nil, inv.stdinErr
	}
	inv.stdinValue = v
	return v, nil
}

// PositionalArgs returns the default bucket when it is the only input, the
// named options when any were given and otherwise the JSON document on
// stdin.
func (inv *Invocation) PositionalArgs() (any, error) {
	if inv.HasDefaults && len(inv.Args) == 0 {
		return inv.Defaults, nil
	}
	if len(inv.Args) > 0 {
		return inv.Args, nil
	}
	return inv.ReadStdin()
}

// DefaultArgs returns the default bucket, falling back to stdin.
func (inv *Invocation) DefaultArgs() (any, error) {
	if inv.HasDefaults {
		return inv.Defaults, nil
	}
	return inv.ReadStdin()
}

// DefaultArgsList is DefaultArgs as a list. A scalar is wrapped in a
// one-element list and reported through single so the caller can unwrap its
// own output. Objects are rejected with an *ArgError.
func (inv *Invocation) DefaultArgsList() (items []any, single bool, err error) {
	v, err := inv.DefaultArgs()
	if err != nil {
		return nil, false, err
	}
	switch x := v.(type) {
	case []any:
		return x, false, nil
	case map[string]any:
		return nil, false, &ArgError{Name: "arguments", Want: "list or single item", Got: x}
	}
	return []any{v}, true, nil
}

// Arg returns the named option.
func (inv *Invocation) Arg(name string) (any, bool) {
	v, ok := inv.Args[name]
	return v, ok
}

// IntArg returns the named option as an integer. ok is false when the option
// was not given.
func (inv *Invocation) IntArg(name string) (n int64, ok bool, err error) {
	v, present := inv.Args[name]
	if !present {
		return 0, false, nil
	}
	n, isInt := value.AsInt(v)
	if !isInt {
		return 0, false, &ArgError{Name: name, Want: "integer", Got: v}
	}
	return n, true, nil
}

// StringArg returns the named option rendered as text, or def when absent.
// Lists and objects are rejected.
func (inv *Invocation) StringArg(name, def string) (string, error) {
	v, ok := inv.Args[name]
	if !ok {
		return def, nil
	}
	if value.IsList(v) || value.IsObject(v) {
		return "", &ArgError{Name: name, Want: "string", Got: v}
	}
	return value.String(v), nil
}

// BoolArg reports whether the named option was given with a truthy value.
// A bare flag is true.
func (inv *Invocation) BoolArg(name string) bool {
	v, ok := inv.Args[name]
	return ok && value.Truthy(v)
}

// ListArg returns the named option as a list; nil when absent.
func (inv *Invocation) ListArg(name string) []any {
	v, ok := inv.Args[name]
	if !ok {
		return nil
	}
	return value.Listify(v)
}

// Var reads a variable, JSON decoded, or def when it is not set.
func (inv *Invocation) Var(name string, def any) (any, error) {
	return vars.Get(inv.Vars, name, def, inv.Strict)
}

// SetVar JSON encodes v into the variable store.
func (inv *Invocation) SetVar(name string, v any) error {
	return vars.Put(inv.Vars, name, v)
}
