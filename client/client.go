package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flashmind/quiz-contract-tests/framework"
	"github.com/flashmind/quiz-contract-tests/logging"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

// Client issues calls against the quiz platform API. Every call goes through Do, which turns
// whatever happens (success, rejected status, transport error, undecodable body) into an
// Outcome. Nothing here returns a Go error or panics, so phases only ever check Outcome.OK.
type Client struct {
	baseURL    string
	httpClient *http.Client
	calls      CallLogger
	logger     log.FieldLogger
	newID      func() string
}

// CallLogger receives exactly one notification per call.
type CallLogger interface {
	CallCompleted(outcome Outcome)
}

type nullCallLogger struct{}

func (nullCallLogger) CallCompleted(Outcome) {}

// NewClient creates a Client for the API rooted at baseURL, e.g. "http://localhost:8080/api".
// A zero timeout means calls wait as long as the transport does.
func NewClient(
	baseURL string,
	timeout time.Duration,
	calls CallLogger,
	logger log.FieldLogger,
) *Client {
	if calls == nil {
		calls = nullCallLogger{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		calls:      calls,
		logger:     logger,
		newID:      func() string { return uuid.New().String() },
	}
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs one call. If the call succeeds and out is non-nil, the response body is decoded
// into out; a body that cannot be decoded makes the whole call a failure. The request and
// response bodies are written to debugLogger, which is normally the current phase's capturing
// logger.
func (c *Client) Do(req Request, out interface{}, debugLogger framework.Logger) Outcome {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	outcome := c.execute(req, out, debugLogger)

	c.logger.WithFields(log.Fields{
		"method":     outcome.Method,
		"url":        outcome.URL,
		"status":     outcome.StatusCode,
		"elapsed":    outcome.Elapsed.String(),
		"request_id": outcome.RequestID,
		"ok":         outcome.OK(),
	}).Debug(req.Description)

	c.calls.CallCompleted(outcome)
	return outcome
}

func (c *Client) execute(req Request, out interface{}, debugLogger framework.Logger) Outcome {
	outcome := Outcome{
		Description:   req.Description,
		Method:        req.Operation.Method(),
		URL:           c.requestURL(req),
		RequestID:     c.newID(),
		ExpectFailure: req.ExpectFailure,
	}

	var body io.Reader
	if req.Payload != nil {
		data, err := json.Marshal(req.Payload)
		if err != nil {
			outcome.Err = fmt.Errorf("cannot encode request body: %w", err)
			return outcome
		}
		debugLogger.Printf("%s %s %s", outcome.Method, outcome.URL, string(data))
		body = bytes.NewBuffer(data)
	} else {
		debugLogger.Printf("%s %s", outcome.Method, outcome.URL)
	}

	httpReq, err := http.NewRequest(outcome.Method, outcome.URL, body)
	if err != nil {
		outcome.Err = fmt.Errorf("cannot build request: %w", err)
		return outcome
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestIDHeader, outcome.RequestID)
	if req.Credential.IsDefined() {
		httpReq.Header.Set("Authorization", "Bearer "+req.Credential.String())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	outcome.Elapsed = time.Since(start)
	if err != nil {
		outcome.Err = fmt.Errorf("request failed: %w", err)
		debugLogger.Printf("Transport error: %s", err)
		return outcome
	}
	defer resp.Body.Close()

	outcome.StatusCode = resp.StatusCode
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome.Err = fmt.Errorf("error reading response body: %w", err)
		debugLogger.Printf("Status %d, unreadable body: %s", resp.StatusCode, err)
		return outcome
	}
	outcome.Body = data
	debugLogger.Printf("Status %d: %s", resp.StatusCode, string(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome.Err = StatusError{StatusCode: resp.StatusCode, Body: string(data)}
		return outcome
	}
	if out != nil && len(bytes.TrimSpace(data)) != 0 {
		if err := json.Unmarshal(data, out); err != nil {
			outcome.Err = fmt.Errorf("malformed response: %w", err)
		}
	}
	return outcome
}

func (c *Client) requestURL(req Request) string {
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(req.Query) != 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}
