package framework

import (
	"fmt"
	"io"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger is the minimal logging interface used for debug transcripts. Both *log.Logger and
// *logrus.Logger satisfy it.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// CapturingLogger is the transcript of one phase: every call the phase makes is written to it
// as it happens, and the console prints it afterward if the phase failed or --debug-all is
// set. It is only used from the goroutine running its phase.
type CapturingLogger struct {
	output CapturedOutput
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
}

// Output returns a copy of the transcript so far.
func (l *CapturingLogger) Output() CapturedOutput {
	return append(CapturedOutput(nil), l.output...)
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Message,
		)
	}
}
