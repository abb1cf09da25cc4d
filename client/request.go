package client

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Operation is the kind of call being made.
type Operation int

const (
	Read Operation = iota
	Create
	Replace
	Delete
)

// Method returns the HTTP method for the operation.
func (o Operation) Method() string {
	switch o {
	case Create:
		return "POST"
	case Replace:
		return "PUT"
	case Delete:
		return "DELETE"
	default:
		return "GET"
	}
}

func (o Operation) String() string {
	switch o {
	case Read:
		return "read"
	case Create:
		return "create"
	case Replace:
		return "replace"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// Credential is the opaque bearer token issued by a login. The zero value means anonymous.
type Credential string

func (c Credential) IsDefined() bool {
	return c != ""
}

func (c Credential) String() string {
	return string(c)
}

// Preview returns the first n characters of the token followed by "...", for display.
func (c Credential) Preview(n int) string {
	if len(c) <= n {
		return string(c)
	}
	return string(c[:n]) + "..."
}

// Request describes one call.
type Request struct {
	Operation  Operation
	Path       string
	Credential Credential
	Payload    interface{}
	Query      url.Values

	// Description is the human-readable label used in the per-call log line.
	Description string

	// ExpectFailure marks a call whose rejection is the expected result, such as reading a quiz
	// that was just deleted. It only affects how the call is reported.
	ExpectFailure bool
}

// Outcome is the result of a call: either success (Err == nil) or failure with a reason.
type Outcome struct {
	Description   string
	Method        string
	URL           string
	RequestID     string
	StatusCode    int // 0 if no response was received
	Body          []byte
	Elapsed       time.Duration
	Err           error
	ExpectFailure bool
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// AsExpected is true if the call succeeded and was meant to, or failed and was meant to.
func (o Outcome) AsExpected() bool {
	return o.OK() != o.ExpectFailure
}

// StatusError is the failure reason for a response with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("HTTP status %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP status %d: %s", e.StatusCode, body)
}
