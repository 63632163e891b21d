// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/yel/pkg/cmdutil"
	"gopkg.in/yaml.v3"
)

type runOutput struct {
	code   int
	stdout string
	stderr string
}

func runYel(t *testing.T, home, stdin string, argv ...string) runOutput {
	t.Helper()
	var stdout, stderr bytes.Buffer
	streams := cmdutil.Streams{In: strings.NewReader(stdin), Out: &stdout, Err: &stderr}
	code := run(context.Background(), argv, []string{"HOME=" + home}, streams)
	return runOutput{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestRunCommands(t *testing.T) {
	home := t.TempDir()
	tests := []struct {
		name  string
		stdin string
		argv  []string
		want  runOutput
	}{
		{
			name: "multicall",
			argv: []string{"/usr/local/bin/@echo", "1", "2"},
			want: runOutput{code: 200, stdout: "[1, 2]\n"},
		},
		{
			name: "multicall without prefix",
			argv: []string{"size", "a", "b"},
			want: runOutput{code: 200, stdout: "2\n"},
		},
		{
			name: "front end",
			argv: []string{"yel", "echo", "a"},
			want: runOutput{code: 200, stdout: "\"a\"\n"},
		},
		{
			name: "front end with at",
			argv: []string{"yel", "@echo", "a"},
			want: runOutput{code: 200, stdout: "\"a\"\n"},
		},
		{
			name: "range",
			argv: []string{"yel", "range", "--from", "2", "--to", "5"},
			want: runOutput{code: 200, stdout: "[2, 3, 4]\n"},
		},
		{
			name: "command flags are not global",
			argv: []string{"yel", "echo", "--debug", "1"},
			want: runOutput{code: 200, stdout: "{\"debug\": 1}\n"},
		},
		{
			name: "help belongs to the command",
			argv: []string{"yel", "echo", "--help"},
			want: runOutput{code: 200, stdout: "{\"help\": []}\n"},
		},
		{
			name:  "stdin",
			stdin: `[1, 2, 3]`,
			argv:  []string{"yel", "size"},
			want:  runOutput{code: 200, stdout: "3\n"},
		},
		{
			name: "env set",
			argv: []string{"yel", "env", "set", "foo", "bar"},
			want: runOutput{code: 200, stdout: "null\n"},
		},
		{
			name: "env get from environment",
			argv: []string{"yel", "env", "get", "HOME"},
			want: runOutput{code: 200, stdout: `"` + home + `"` + "\n"},
		},
		{
			name: "not found",
			argv: []string{"/bin/@nope"},
			want: runOutput{code: 404, stdout: "null\n", stderr: "command nope not found\n"},
		},
		{
			name: "bad request",
			argv: []string{"yel", "range", "a"},
			want: runOutput{code: 400, stdout: "null\n", stderr: "expected 1, 2 or 3 integers, got: [\"a\"]\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runYel(t, home, tt.stdin, tt.argv...)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(runOutput{})); diff != "" {
				t.Fatalf("run(%q) mismatch (-want +got):\n%s", tt.argv, diff)
			}
		})
	}
}

func TestRunStrict(t *testing.T) {
	got := runYel(t, t.TempDir(), "", "yel", "--strict", "echo", "a b")
	if got.code != 500 || got.stdout != "null\n" {
		t.Fatalf("strict run = %+v, want 500 null", got)
	}
	if want := `argument 0 ("a b"): malformed value "a b"`; !strings.HasPrefix(got.stderr, want) {
		t.Fatalf("stderr = %q, want prefix %q", got.stderr, want)
	}
}

func TestRunDebug(t *testing.T) {
	got := runYel(t, t.TempDir(), "{", "yel", "--debug", "echo")
	if got.code != 1 {
		t.Fatalf("exit code = %d, want 1", got.code)
	}
	if got.stdout != "" {
		t.Fatalf("stdout = %q, want nothing", got.stdout)
	}
	if !strings.Contains(got.stderr, "command failed") {
		t.Fatalf("stderr = %q, want the logged error", got.stderr)
	}
}

func TestRunConfig(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, ".config", "yel", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	body := "strict = true\n\n[aliases]\nsay = \"echo\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	if got := runYel(t, home, "", "yel", "say", "hi"); got.code != 200 || got.stdout != "\"hi\"\n" {
		t.Fatalf("alias through yel = %+v, want 200 \"hi\"", got)
	}
	if got := runYel(t, home, "", "/bin/@say", "hi"); got.code != 200 || got.stdout != "\"hi\"\n" {
		t.Fatalf("alias through multicall = %+v, want 200 \"hi\"", got)
	}
	if got := runYel(t, home, "", "yel", "echo", "a b"); got.code != 500 {
		t.Fatalf("strict from config exit code = %d, want 500", got.code)
	}

	other := filepath.Join(t.TempDir(), "other.toml")
	if err := os.WriteFile(other, []byte("color = \"always\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	got := runYel(t, home, "", "yel", "--config", other, "nope")
	if got.code != 404 || !strings.Contains(got.stderr, "\x1b[31m") {
		t.Fatalf("--config with color = %+v, want a red 404 reason", got)
	}

	if got := runYel(t, home, "", "yel", "--log-level", "loud", "echo"); got.code != 1 {
		t.Fatalf("bad log level exit code = %d, want 1", got.code)
	}
}

func TestCommandsList(t *testing.T) {
	home := t.TempDir()

	got := runYel(t, home, "", "yel", "commands", "--format", "json")
	if got.code != 0 {
		t.Fatalf("commands --format json = %+v", got)
	}
	var infos []commandInfo
	if err := json.Unmarshal([]byte(got.stdout), &infos); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}
	found := false
	for _, info := range infos {
		if info.Short == "min" {
			found = info.Long == "minimum"
		}
	}
	if !found {
		t.Fatalf("min/minimum missing from %s", got.stdout)
	}

	got = runYel(t, home, "", "yel", "commands", "--format", "yaml")
	if got.code != 0 {
		t.Fatalf("commands --format yaml = %+v", got)
	}
	var fromYAML []commandInfo
	if err := yaml.Unmarshal([]byte(got.stdout), &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal error: %v", err)
	}
	if diff := cmp.Diff(infos, fromYAML); diff != "" {
		t.Fatalf("yaml and json listings differ (-json +yaml):\n%s", diff)
	}

	got = runYel(t, home, "", "yel", "commands")
	if got.code != 0 || !strings.Contains(got.stdout, "s.upper") {
		t.Fatalf("commands = %+v, want a text table", got)
	}

	if got := runYel(t, home, "", "yel", "commands", "--format", "xml"); got.code != 1 {
		t.Fatalf("commands --format xml exit code = %d, want 1", got.code)
	}
}

func TestLink(t *testing.T) {
	dir := t.TempDir()
	got := runYel(t, t.TempDir(), "", "yel", "link", "--dir", dir, "--target", "/opt/yel")
	if got.code != 0 {
		t.Fatalf("link = %+v", got)
	}
	for _, name := range []string{"@echo", "@environment", "@s.upper"} {
		target, err := os.Readlink(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("Readlink(%s) error: %v", name, err)
		}
		if target != "/opt/yel" {
			t.Fatalf("%s -> %s, want /opt/yel", name, target)
		}
	}

	got = runYel(t, t.TempDir(), "", "yel", "link", "--dir", dir, "--prefix", "x-", "--target", "/opt/yel")
	if got.code != 0 {
		t.Fatalf("link --prefix = %+v", got)
	}
	if _, err := os.Lstat(filepath.Join(dir, "x-echo")); err != nil {
		t.Fatalf("prefixed link missing: %v", err)
	}

	if got := runYel(t, t.TempDir(), "", "yel", "link"); got.code != 1 {
		t.Fatalf("link without --dir exit code = %d, want 1", got.code)
	}
}

func TestVersion(t *testing.T) {
	got := runYel(t, t.TempDir(), "", "yel", "version")
	if got.code != 0 || !strings.HasPrefix(got.stdout, "yel ") {
		t.Fatalf("version = %+v", got)
	}
}

func TestSplitGlobalArgs(t *testing.T) {
	tests := []struct {
		in          []string
		flags, rest []string
	}{
		{[]string{"echo", "--debug"}, []string{}, []string{"echo", "--debug"}},
		{[]string{"--debug", "--config", "x.toml", "echo"}, []string{"--debug", "--config", "x.toml"}, []string{"echo"}},
		{[]string{"--color=never", "echo"}, []string{"--color=never"}, []string{"echo"}},
		{[]string{"--strict", "--", "--weird"}, []string{"--strict"}, []string{"--weird"}},
		{[]string{"--help"}, []string{}, []string{"--help"}},
	}
	for _, tt := range tests {
		flags, rest := splitGlobalArgs(tt.in)
		if diff := cmp.Diff(tt.flags, flags); diff != "" {
			t.Fatalf("splitGlobalArgs(%q) flags mismatch (-want +got):\n%s", tt.in, diff)
		}
		if diff := cmp.Diff(tt.rest, rest); diff != "" {
			t.Fatalf("splitGlobalArgs(%q) rest mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
