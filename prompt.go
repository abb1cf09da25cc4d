package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/flashmind/quiz-contract-tests/config"
	"github.com/flashmind/quiz-contract-tests/quiztests"

	"golang.org/x/term"
)

// prompter reads answers one line at a time. Secrets are read without echo when the input is
// a terminal.
type prompter struct {
	in       *bufio.Reader
	out      io.Writer
	terminal int
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out, terminal: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.terminal = int(f.Fd())
	}
	return p
}

func (p *prompter) isTerminal() bool {
	return p.terminal >= 0
}

// line prints the label and returns the trimmed answer. io.EOF is only returned if nothing
// at all was read.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) secret(label string) (string, error) {
	if !p.isTerminal() {
		return p.line(label)
	}
	fmt.Fprint(p.out, label)
	data, err := term.ReadPassword(p.terminal)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// adminCredentialSource uses the configured admin credentials if there are any. Otherwise it
// asks, unless p is nil; an empty username means the operator chose to skip.
func adminCredentialSource(admin config.AdminConfig, p *prompter) quiztests.AdminCredentialSource {
	return func() (quiztests.AdminCredentials, bool) {
		if admin.Username != "" {
			return quiztests.AdminCredentials{Username: admin.Username, Password: admin.Password}, true
		}
		if p == nil {
			return quiztests.AdminCredentials{}, false
		}
		username, err := p.line("Admin username (or press Enter to skip): ")
		if err != nil || username == "" {
			return quiztests.AdminCredentials{}, false
		}
		password, err := p.secret("Admin password: ")
		if err != nil {
			return quiztests.AdminCredentials{}, false
		}
		return quiztests.AdminCredentials{Username: username, Password: password}, true
	}
}
