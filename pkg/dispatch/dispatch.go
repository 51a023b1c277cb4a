package dispatch

import (
	"context"
	"fmt"
	"strings"
)

// DefaultAgentName is the voice agent that picks up dispatched calls.
const DefaultAgentName = "teliphonic-rag-agent-test"

// Request names the agent and the persisted call record it should load.
type Request struct {
	AgentName   string
	RecordID    string
	PhoneNumber string
}

// Result is the opaque dispatcher output shown to the operator.
type Result struct {
	Output    string
	Reference string
}

// Dispatcher hands a persisted call to the voice agent.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) (Result, error)
}

// Error is a failed dispatch: a nonzero exit, a process that could not run,
// or a rejected API call. ExitCode is -1 when no process exit status exists.
type Error struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("dispatch failed")
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		b.WriteString(": ")
		b.WriteString(s)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (r Request) validate() error {
	if strings.TrimSpace(r.AgentName) == "" {
		return &Error{ExitCode: -1, Err: fmt.Errorf("agent name is required")}
	}
	if strings.TrimSpace(r.RecordID) == "" {
		return &Error{ExitCode: -1, Err: fmt.Errorf("record id is required")}
	}
	return nil
}
