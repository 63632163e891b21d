// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"bytes"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Streams are the standard streams of one process invocation.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

var isTerminalFn = term.IsTerminal

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && isTerminalFn(int(f.Fd()))
}

// UseColor resolves a color mode ("auto", "always" or "never") for w.
func UseColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return IsTerminal(w)
}

// RedWriter returns a writer that prints each write in red, keeping the
// trailing newline outside of the escape sequence. It returns w unchanged
// when enabled is false.
func RedWriter(w io.Writer, enabled bool) io.Writer {
	if !enabled {
		return w
	}
	c := color.New(color.FgRed)
	c.EnableColor()
	return &colorWriter{w: w, c: c}
}

type colorWriter struct {
	w io.Writer
	c *color.Color
}

func (cw *colorWriter) Write(p []byte) (int, error) {
	text, nl := bytes.CutSuffix(p, []byte("\n"))
	if _, err := cw.c.Fprint(cw.w, string(text)); err != nil {
		return 0, err
	}
	if nl {
		if _, err := io.WriteString(cw.w, "\n"); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
