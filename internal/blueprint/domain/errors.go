package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedResponse     = errors.New("malformed response")
	ErrInvalidGraphStructure = errors.New("invalid graph structure")
	ErrUnresolvedConnection  = errors.New("unresolved connection")
	ErrNetworkFailure        = errors.New("network failure")
)

// MalformedResponseError is returned when backend text holds no parseable JSON.
type MalformedResponseError struct {
	Text     string
	ParseErr string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %s", e.ParseErr)
}

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }

// Preview returns at most n bytes of the original text for diagnostics.
func (e *MalformedResponseError) Preview(n int) string {
	if len(e.Text) <= n {
		return e.Text
	}
	return e.Text[:n] + "..."
}

// InvalidGraphStructureError names the first structural violation found.
// Kind is "node" or "connection" when Index is meaningful, empty otherwise.
type InvalidGraphStructureError struct {
	Field  string
	Kind   string
	Index  int
	Reason string
}

func (e *InvalidGraphStructureError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("invalid graph structure: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid graph structure: %s %d: %s %s", e.Kind, e.Index, e.Field, e.Reason)
}

func (e *InvalidGraphStructureError) Unwrap() error { return ErrInvalidGraphStructure }

// NetworkFailureError wraps a transport-level failure reaching the generator.
type NetworkFailureError struct {
	Op  string
	Err error
}

func (e *NetworkFailureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkFailureError) Unwrap() []error { return []error{ErrNetworkFailure, e.Err} }

// Err returns the warning as an error. Warnings about connections wrap
// ErrUnresolvedConnection.
func (w Warning) Err() error {
	switch w.Kind {
	case WarnUnknownNode, WarnUnknownPin, WarnTypeMismatch:
		return fmt.Errorf("%w: connection %d: %s", ErrUnresolvedConnection, w.Index, w.Message)
	}
	return fmt.Errorf("%s: node %d: %s", w.Kind, w.Index, w.Message)
}
