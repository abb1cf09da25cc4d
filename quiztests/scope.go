package quiztests

import (
	"fmt"
	"strconv"
	"time"

	"github.com/flashmind/quiz-contract-tests/client"
	"github.com/flashmind/quiz-contract-tests/framework"
)

// AdminCredentials are the operator-supplied login for the admin phase.
type AdminCredentials struct {
	Username string
	Password string
}

// AdminCredentialSource is asked for admin credentials when the admin phase starts. It returns
// false if none are available, in which case the phase is skipped.
type AdminCredentialSource func() (AdminCredentials, bool)

// Environment is everything the phases share: the Call Executor, the session store, where
// admin credentials come from, and the clock used to make usernames unique.
type Environment struct {
	API              *client.Client
	Sessions         *Sessions
	AdminCredentials AdminCredentialSource
	Now              func() time.Time
}

func (env Environment) now() time.Time {
	if env.Now == nil {
		return time.Now()
	}
	return env.Now()
}

func (env Environment) adminCredentials() (AdminCredentials, bool) {
	if env.AdminCredentials == nil {
		return AdminCredentials{}, false
	}
	creds, ok := env.AdminCredentials()
	return creds, ok && creds.Username != ""
}

// T represents one running phase.
//
// It implements the same basic functionality as Go's testing.T, outside of the Go test runner.
// To make assertions about data returned by the platform, pass the *T to the assert package as
// if it were a *testing.T: a failed assertion is recorded against the phase and reported, but
// the phase keeps going. Failed calls are not assertion failures; they are reported by the
// Call Executor and recorded as warnings.
type T struct {
	context *framework.Context
	env     *Environment
}

func newScope(c *framework.Context, env *Environment) *T {
	return &T{context: c, env: env}
}

// Errorf is called by assertions to log a failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a phase should fail and immediately exit.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Info reports an informational line, such as an artifact that was just captured.
func (t *T) Info(format string, args ...interface{}) {
	t.context.Infof(format, args...)
}

// Warn reports a step that was not performed or did not produce what later steps need.
func (t *T) Warn(format string, args ...interface{}) {
	t.context.Warnf(format, args...)
}

// Skip ends the phase without doing any work because a required artifact is missing.
func (t *T) Skip(reason string) {
	t.context.SkipWithReason(reason)
}

// Debug adds a line to the phase's debug transcript.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Sessions returns the shared session store.
func (t *T) Sessions() *Sessions {
	return t.env.Sessions
}

// call performs one request through the Call Executor and reports whether it succeeded. If it
// did and out is non-nil, out holds the decoded response.
func (t *T) call(req client.Request, out interface{}) bool {
	outcome := t.env.API.Do(req, out, t.context.DebugLogger())
	if !outcome.AsExpected() && !outcome.ExpectFailure {
		t.context.AddWarning(fmt.Sprintf("%s: %s", req.Description, outcome.Err))
	}
	return outcome.OK()
}

// uniqueSuffix returns a timestamp in seconds with microsecond precision, making usernames,
// emails and plan names unique across runs.
func (t *T) uniqueSuffix() string {
	now := t.env.now()
	return strconv.FormatFloat(float64(now.UnixMicro())/1e6, 'f', 6, 64)
}
