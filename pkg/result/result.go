// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package result defines the envelope every command returns and how it is
// rendered at the process boundary.
package result

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yeetrun/yel/pkg/value"
)

// Status is the outcome of a command. It doubles as the process exit code.
type Status int

const (
	StatusOK           Status = 200
	StatusCreated      Status = 201
	StatusBadRequest   Status = 400
	StatusUnauthorized Status = 401
	StatusNotFound     Status = 404
	StatusError        Status = 500
)

var reasons = map[Status]string{
	StatusOK:           "ok",
	StatusCreated:      "created",
	StatusBadRequest:   "bad request",
	StatusUnauthorized: "unauthorized",
	StatusNotFound:     "not found",
	StatusError:        "error",
}

// Reason returns the default reason text of s, or "unknown".
func (s Status) Reason() string {
	if r, ok := reasons[s]; ok {
		return r
	}
	return "unknown"
}

func (s Status) String() string {
	return fmt.Sprintf("%d %s", int(s), s.Reason())
}

// Result is the uniform output of a command.
type Result struct {
	Status Status
	// Reason is a human readable explanation. Empty means none.
	Reason string
	// Payload is any JSON-compatible value.
	Payload any
}

// New returns a Result. An empty reason is replaced by the status default.
func New(payload any, status Status, reason string) Result {
	if reason == "" {
		reason = status.Reason()
	}
	return Result{Status: status, Reason: reason, Payload: payload}
}

func OK(payload any) Result {
	return New(payload, StatusOK, "")
}

func Created(payload any) Result {
	return New(payload, StatusCreated, "")
}

func BadRequest(reason string) Result {
	return New(nil, StatusBadRequest, reason)
}

func BadRequestf(format string, args ...any) Result {
	return BadRequest(fmt.Sprintf(format, args...))
}

func Unauthorized(reason string) Result {
	return New(nil, StatusUnauthorized, reason)
}

func NotFound(reason string) Result {
	return New(nil, StatusNotFound, reason)
}

func NotFoundf(format string, args ...any) Result {
	return NotFound(fmt.Sprintf(format, args...))
}

// FromError converts an unexpected error into an internal error Result
// whose reason is the error text.
func FromError(err error) Result {
	if err == nil {
		return New(nil, StatusError, "")
	}
	return New(nil, StatusError, err.Error())
}

// Quiet returns r without a reason, so nothing is written to stderr.
func (r Result) Quiet() Result {
	r.Reason = ""
	return r
}

func (r Result) IsOK() bool {
	return r.Status == StatusOK
}

// ExitCode is the process exit code for r. Operating systems keep only the
// low 8 bits.
func (r Result) ExitCode() int {
	return int(r.Status)
}

// Write renders r at the process boundary: the reason on stderr when the
// status is not OK, and the JSON payload as a single line on stdout.
func (r Result) Write(stdout, stderr io.Writer) error {
	if r.Status != StatusOK && r.Reason != "" {
		if _, err := fmt.Fprintln(stderr, r.Reason); err != nil {
			return err
		}
	}
	b, err := value.Marshal(r.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintf(stdout, "%s\n", b)
	return err
}

type wireResult struct {
	Status Status  `json:"status"`
	Reason *string `json:"reason"`
	Result any     `json:"result"`
}

// MarshalJSON encodes r as {"status", "reason", "result"} with an empty
// reason as null.
func (r Result) MarshalJSON() ([]byte, error) {
	w := wireResult{Status: r.Status, Result: r.Payload}
	if r.Reason != "" {
		w.Reason = &r.Reason
	}
	return json.Marshal(w)
}

func (r *Result) UnmarshalJSON(b []byte) error {
	var w struct {
		Status Status          `json:"status"`
		Reason *string         `json:"reason"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = Result{Status: w.Status}
	if w.Reason != nil {
		r.Reason = *w.Reason
	}
	if len(w.Result) > 0 {
		v, err := value.DecodeString(string(w.Result))
		if err != nil {
			return err
		}
		r.Payload = v
	}
	return nil
}
