// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/yel/pkg/argv"
	"github.com/yeetrun/yel/pkg/result"
	"github.com/yeetrun/yel/pkg/value"
	"github.com/yeetrun/yel/pkg/vars"
)

func echoDescriptor() Descriptor {
	return Descriptor{
		Short: "echo",
		New: func(inv *Invocation) Command {
			return Func(func(context.Context) (result.Result, error) {
				v, err := inv.PositionalArgs()
				if err != nil {
					return result.Result{}, err
				}
				return result.OK(v), nil
			})
		},
	}
}

func newTestRegistry(t *testing.T, ds ...Descriptor) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, d := range ds {
		if err := reg.Register(d); err != nil {
			t.Fatalf("Register(%s) error: %v", d.Short, err)
		}
	}
	return reg
}

func TestRegistry(t *testing.T) {
	noop := func(*Invocation) Command { return Func(func(context.Context) (result.Result, error) { return result.OK(nil), nil }) }
	reg := newTestRegistry(t,
		Descriptor{Short: "min", Long: "minimum", New: noop},
		Descriptor{Short: "echo", New: noop},
	)

	short, err := reg.Resolve("min")
	if err != nil {
		t.Fatalf("Resolve(min) error: %v", err)
	}
	long, err := reg.Resolve("minimum")
	if err != nil {
		t.Fatalf("Resolve(minimum) error: %v", err)
	}
	if short != long {
		t.Fatalf("short and long names resolve to different descriptors")
	}
	if _, err := reg.Resolve("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve(nope) error = %v, want ErrNotFound", err)
	}

	err = reg.Register(Descriptor{Short: "x", Long: "minimum", New: noop})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("duplicate Register error = %v, want ErrDuplicateName", err)
	}
	if reg.Has("x") {
		t.Fatalf("failed registration left a partial entry")
	}
	if err := reg.Register(Descriptor{Short: "y"}); err == nil {
		t.Fatalf("Register without factory succeeded")
	}

	var shorts []string
	for _, d := range reg.Descriptors() {
		shorts = append(shorts, d.Short)
	}
	if diff := cmp.Diff([]string{"echo", "min"}, shorts); diff != "" {
		t.Fatalf("Descriptors() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"echo", "min", "minimum"}, reg.Names()); diff != "" {
		t.Fatalf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestMustRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("MustRegister did not panic on a duplicate")
		}
	}()
	reg := NewRegistry()
	reg.MustRegister(echoDescriptor(), echoDescriptor())
}

func TestInvocationName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"echo", "echo"},
		{"/usr/local/bin/echo", "echo"},
		{"@echo", "echo"},
		{"/opt/yel/@s.upper", "s.upper"},
		{"@@echo", "@echo"},
	}
	for _, tt := range tests {
		if got := InvocationName(tt.in); got != tt.want {
			t.Fatalf("InvocationName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDispatch(t *testing.T) {
	reg := newTestRegistry(t, echoDescriptor())
	d := &Dispatcher{Registry: reg}
	ctx := context.Background()

	tests := []struct {
		name   string
		cmd    string
		tokens []string
		stdin  string
		status result.Status
		want   any
	}{
		{"defaults", "echo", []string{"1", "2"}, "", result.StatusOK, []any{int64(1), int64(2)}},
		{"at prefix", "@echo", []string{"a"}, "", result.StatusOK, "a"},
		{"named", "echo", []string{"--x", "1"}, "", result.StatusOK, map[string]any{"x": int64(1)}},
		{"stdin", "echo", nil, `{"a": [1, 2]}`, result.StatusOK, map[string]any{"a": []any{int64(1), int64(2)}}},
		{"bad stdin", "echo", nil, `{`, result.StatusError, nil},
		{"unknown", "nope", nil, "", result.StatusNotFound, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d.Stdin = strings.NewReader(tt.stdin)
			res, err := d.Dispatch(ctx, tt.cmd, tt.tokens, nil)
			if err != nil {
				t.Fatalf("Dispatch error: %v", err)
			}
			if res.Status != tt.status {
				t.Fatalf("status = %v, want %v (reason %q)", res.Status, tt.status, res.Reason)
			}
			if diff := cmp.Diff(tt.want, res.Payload); diff != "" {
				t.Fatalf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatchNotFoundReason(t *testing.T) {
	d := &Dispatcher{Registry: NewRegistry()}
	res, err := d.Dispatch(context.Background(), "@frob", nil, nil)
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	if got, want := res.Reason, "command frob not found"; got != want {
		t.Fatalf("reason = %q, want %q", got, want)
	}
}

func TestDispatchAliases(t *testing.T) {
	d := &Dispatcher{
		Registry: newTestRegistry(t, echoDescriptor()),
		Aliases:  map[string]string{"say": "echo"},
	}
	res, err := d.Dispatch(context.Background(), "say", []string{"hi"}, nil)
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	if res.Status != result.StatusOK || res.Payload != "hi" {
		t.Fatalf("Dispatch(say) = %+v, want 200 hi", res)
	}
}

func failing(err error, panics bool) Descriptor {
	return Descriptor{
		Short: "boom",
		New: func(*Invocation) Command {
			return Func(func(context.Context) (result.Result, error) {
				if panics {
					panic(err)
				}
				return result.Result{}, err
			})
		},
	}
}

func TestDispatchSafetyNet(t *testing.T) {
	boom := errors.New("kaboom")
	for _, panics := range []bool{false, true} {
		d := &Dispatcher{Registry: newTestRegistry(t, failing(boom, panics))}
		res, err := d.Dispatch(context.Background(), "boom", nil, nil)
		if err != nil {
			t.Fatalf("Dispatch(panics=%v) error: %v", panics, err)
		}
		if res.Status != result.StatusError || res.Reason != "kaboom" {
			t.Fatalf("Dispatch(panics=%v) = %+v, want 500 kaboom", panics, res)
		}
	}
}

func TestDispatchDebug(t *testing.T) {
	boom := errors.New("kaboom")
	d := &Dispatcher{Registry: newTestRegistry(t, failing(boom, false)), Debug: true}
	if _, err := d.Dispatch(context.Background(), "boom", nil, nil); !errors.Is(err, boom) {
		t.Fatalf("debug Dispatch error = %v, want %v", err, boom)
	}

	d = &Dispatcher{Registry: newTestRegistry(t, failing(boom, true)), Debug: true}
	defer func() {
		if r := recover(); r != boom {
			t.Fatalf("recover() = %v, want %v", r, boom)
		}
	}()
	d.Dispatch(context.Background(), "boom", nil, nil)
	t.Fatalf("debug Dispatch did not panic")
}

func TestDispatchStrictParseError(t *testing.T) {
	d := &Dispatcher{Registry: newTestRegistry(t, echoDescriptor()), Strict: true}
	res, err := d.Dispatch(context.Background(), "echo", []string{"a b"}, nil)
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	if res.Status != result.StatusError {
		t.Fatalf("status = %v, want %v", res.Status, result.StatusError)
	}

	d.Debug = true
	_, err = d.Dispatch(context.Background(), "echo", []string{"a b"}, nil)
	if !argv.IsParseError(err) || !errors.Is(err, value.ErrMalformedValue) {
		t.Fatalf("debug Dispatch error = %v, want ParseError wrapping ErrMalformedValue", err)
	}
}

func TestShortOptions(t *testing.T) {
	var got *Invocation
	reg := newTestRegistry(t, Descriptor{
		Short:        "opt",
		ShortOptions: map[rune]string{'f': "fail"},
		New: func(inv *Invocation) Command {
			got = inv
			return Func(func(context.Context) (result.Result, error) { return result.OK(nil), nil })
		},
	})
	d := &Dispatcher{Registry: reg}
	if _, err := d.Dispatch(context.Background(), "opt", []string{"-f", "--", "x"}, nil); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	if !got.BoolArg("fail") {
		t.Fatalf("BoolArg(fail) = false, want true")
	}
	if !got.HasDefaults || got.Defaults != "x" {
		t.Fatalf("defaults = %v (%v), want x", got.Defaults, got.HasDefaults)
	}
	if got.Name != "opt" {
		t.Fatalf("Name = %q, want opt", got.Name)
	}
}

func TestReadStdinOnce(t *testing.T) {
	inv := &Invocation{Stdin: strings.NewReader(`[1, 2]`)}
	a, err := inv.PositionalArgs()
	if err != nil {
		t.Fatalf("PositionalArgs error: %v", err)
	}
	b, err := inv.DefaultArgs()
	if err != nil {
		t.Fatalf("DefaultArgs error: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("second read differs (-first +second):\n%s", diff)
	}

	none := &Invocation{}
	if _, err := none.ReadStdin(); !errors.Is(err, ErrNoInput) {
		t.Fatalf("ReadStdin without input error = %v, want ErrNoInput", err)
	}
}

func TestPositionalArgsPrecedence(t *testing.T) {
	inv := &Invocation{
		Args:        map[string]any{"a": int64(1)},
		Defaults:    "d",
		HasDefaults: true,
	}
	got, err := inv.PositionalArgs()
	if err != nil {
		t.Fatalf("PositionalArgs error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": int64(1)}, got); diff != "" {
		t.Fatalf("PositionalArgs mismatch (-want +got):\n%s", diff)
	}
	got, err = inv.DefaultArgs()
	if err != nil || got != "d" {
		t.Fatalf("DefaultArgs = %v, %v, want d", got, err)
	}
}

func TestDefaultArgsList(t *testing.T) {
	tests := []struct {
		defaults   any
		wantItems  []any
		wantSingle bool
		wantErr    bool
	}{
		{[]any{int64(1)}, []any{int64(1)}, false, false},
		{"x", []any{"x"}, true, false},
		{map[string]any{"a": int64(1)}, nil, false, true},
	}
	for _, tt := range tests {
		inv := &Invocation{Defaults: tt.defaults, HasDefaults: true}
		items, single, err := inv.DefaultArgsList()
		if (err != nil) != tt.wantErr {
			t.Fatalf("DefaultArgsList(%v) error = %v, wantErr %v", tt.defaults, err, tt.wantErr)
		}
		if tt.wantErr {
			res, ferr := Fail(err)
			if ferr != nil || res.Status != result.StatusBadRequest {
				t.Fatalf("Fail(%v) = %+v, %v, want 400", err, res, ferr)
			}
			continue
		}
		if single != tt.wantSingle {
			t.Fatalf("single = %v, want %v", single, tt.wantSingle)
		}
		if diff := cmp.Diff(tt.wantItems, items); diff != "" {
			t.Fatalf("items mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestTypedArgs(t *testing.T) {
	inv := &Invocation{Args: map[string]any{
		"n":   int64(3),
		"s":   "x",
		"num": int64(1),
		"bad": "three",
		"l":   []any{"a", "b"},
		"f":   true,
	}}
	if n, ok, err := inv.IntArg("n"); err != nil || !ok || n != 3 {
		t.Fatalf("IntArg(n) = %v, %v, %v, want 3", n, ok, err)
	}
	if _, ok, err := inv.IntArg("missing"); err != nil || ok {
		t.Fatalf("IntArg(missing) = %v, %v, want absent", ok, err)
	}
	var ae *ArgError
	if _, _, err := inv.IntArg("bad"); !errors.As(err, &ae) {
		t.Fatalf("IntArg(bad) error = %v, want *ArgError", err)
	}
	if got, want := ae.Error(), `expected integer for bad, got: "three"`; got != want {
		t.Fatalf("ArgError = %q, want %q", got, want)
	}
	if s, err := inv.StringArg("num", " "); err != nil || s != "1" {
		t.Fatalf("StringArg(num) = %q, %v, want 1", s, err)
	}
	if s, err := inv.StringArg("missing", " "); err != nil || s != " " {
		t.Fatalf("StringArg(missing) = %q, %v, want default", s, err)
	}
	if _, err := inv.StringArg("l", ""); err == nil {
		t.Fatalf("StringArg(list) succeeded")
	}
	if !inv.BoolArg("f") || inv.BoolArg("missing") {
		t.Fatalf("BoolArg mismatch")
	}
	if diff := cmp.Diff([]any{"a", "b"}, inv.ListArg("l")); diff != "" {
		t.Fatalf("ListArg(l) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"x"}, inv.ListArg("s")); diff != "" {
		t.Fatalf("ListArg(s) mismatch (-want +got):\n%s", diff)
	}
}

func TestInvocationVars(t *testing.T) {
	store := &vars.Map{}
	inv := &Invocation{Vars: store}
	if err := inv.SetVar("foo", []any{int64(1)}); err != nil {
		t.Fatalf("SetVar error: %v", err)
	}
	if raw, _ := store.Lookup("foo"); raw != "[1]" {
		t.Fatalf("stored %q, want [1]", raw)
	}
	got, err := inv.Var("foo", nil)
	if err != nil {
		t.Fatalf("Var error: %v", err)
	}
	if diff := cmp.Diff([]any{int64(1)}, got); diff != "" {
		t.Fatalf("Var mismatch (-want +got):\n%s", diff)
	}
}

func TestFail(t *testing.T) {
	res, err := Fail(BadRequestf("step must not be %d", 0))
	if err != nil {
		t.Fatalf("Fail error: %v", err)
	}
	if res.Status != result.StatusBadRequest || res.Reason != "step must not be 0" {
		t.Fatalf("Fail = %+v, want 400 step must not be 0", res)
	}
	boom := errors.New("boom")
	if _, err := Fail(boom); err != boom {
		t.Fatalf("Fail(boom) error = %v, want boom", err)
	}
}
