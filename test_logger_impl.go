package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/flashmind/quiz-contract-tests/client"
	"github.com/flashmind/quiz-contract-tests/framework"

	"github.com/fatih/color"
)

const summaryTimeFormat = "2006-01-02 15:04:05"

// ConsoleTestLogger prints phase progress and one line per call. It implements both
// framework.TestLogger and client.CallLogger.
type ConsoleTestLogger struct {
	out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool

	success *color.Color
	failure *color.Color
	info    *color.Color
	warning *color.Color
	section *color.Color
}

func NewConsoleTestLogger(out io.Writer, noColor bool) *ConsoleTestLogger {
	c := &ConsoleTestLogger{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgCyan),
		warning: color.New(color.FgYellow),
		section: color.New(color.FgMagenta, color.Bold),
	}
	if noColor {
		for _, col := range []*color.Color{c.success, c.failure, c.info, c.warning, c.section} {
			col.DisableColor()
		}
	}
	return c
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	c.Section(strings.ToUpper(id.String()) + " PHASE")
}

func (c *ConsoleTestLogger) TestInfo(id framework.TestID, message string) {
	c.Info(message)
}

func (c *ConsoleTestLogger) TestWarning(id framework.TestID, message string) {
	c.Warning(message)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		c.failure.Fprintf(c.out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		c.failure.Fprintf(c.out, "✗ FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		c.warning.Fprintf(c.out, "⚠ SKIPPED: %s\n", id)
	} else {
		c.warning.Fprintf(c.out, "⚠ SKIPPED: %s (%s)\n", id, reason)
	}
}

// CallCompleted prints the per-call line. A call marked as expected to fail is printed as a
// success when it does fail.
func (c *ConsoleTestLogger) CallCompleted(outcome client.Outcome) {
	status := "no response"
	if outcome.StatusCode != 0 {
		status = fmt.Sprintf("Status: %d", outcome.StatusCode)
	}
	switch {
	case outcome.AsExpected() && outcome.ExpectFailure:
		c.success.Fprintf(c.out, "✓ %s - failed as expected (%s)\n", outcome.Description, status)
	case outcome.AsExpected():
		c.success.Fprintf(c.out, "✓ %s - %s\n", outcome.Description, status)
	case outcome.ExpectFailure:
		c.failure.Fprintf(c.out, "✗ %s - succeeded but was expected to fail (%s)\n", outcome.Description, status)
	default:
		c.failure.Fprintf(c.out, "✗ %s - %s\n", outcome.Description, status)
		c.failure.Fprintf(c.out, "  Error: %s\n", errorDetail(outcome.Err))
	}
}

func errorDetail(err error) string {
	if se, ok := err.(client.StatusError); ok {
		if body := strings.TrimSpace(se.Body); body != "" {
			return body
		}
	}
	return err.Error()
}

func (c *ConsoleTestLogger) Section(title string) {
	rule := strings.Repeat("=", 60)
	c.section.Fprintf(c.out, "\n%s\n  %s\n%s\n", rule, title, rule)
}

func (c *ConsoleTestLogger) Success(format string, args ...interface{}) {
	c.success.Fprintf(c.out, "✓ "+format+"\n", args...)
}

func (c *ConsoleTestLogger) Failure(format string, args ...interface{}) {
	c.failure.Fprintf(c.out, "✗ "+format+"\n", args...)
}

func (c *ConsoleTestLogger) Info(format string, args ...interface{}) {
	c.info.Fprintf(c.out, "ℹ "+format+"\n", args...)
}

func (c *ConsoleTestLogger) Warning(format string, args ...interface{}) {
	c.warning.Fprintf(c.out, "⚠ "+format+"\n", args...)
}

// PrintResults prints the end-of-run summary.
func (c *ConsoleTestLogger) PrintResults(results framework.Results, baseURL string, started, finished time.Time) {
	c.Section("TEST RUN COMPLETED")
	fmt.Fprintf(c.out, "Base URL:   %s\n", baseURL)
	fmt.Fprintf(c.out, "Start time: %s\n", started.Format(summaryTimeFormat))
	fmt.Fprintf(c.out, "End time:   %s\n", finished.Format(summaryTimeFormat))
	fmt.Fprintf(c.out, "Phases: %d completed, %d skipped, %d failed\n",
		results.Count(framework.OutcomeCompleted),
		results.Count(framework.OutcomeSkipped),
		results.Count(framework.OutcomeFailed),
	)
	for _, r := range results.Tests {
		if len(r.TestID.Path) != 0 && r.Outcome() == framework.OutcomeCompleted && len(r.Warnings) != 0 {
			c.Warning("%s: %d failed call(s) or skipped step(s)", r.TestID, len(r.Warnings))
		}
	}
	if results.OK() {
		c.Success("No assertion failures")
		return
	}
	c.Failure("Failed phases:")
	for _, f := range results.Failures {
		label := f.TestID.String()
		if label == "" {
			label = "(driver)"
		}
		fmt.Fprintf(c.out, "  %s\n", label)
		for _, e := range f.Errors {
			for _, line := range strings.Split(e.Error(), "\n") {
				fmt.Fprintf(c.out, "    %s\n", line)
			}
		}
	}
}
