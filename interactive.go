package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/flashmind/quiz-contract-tests/framework"
	"github.com/flashmind/quiz-contract-tests/quiztests"
	"github.com/flashmind/quiz-contract-tests/servicedef"
)

type menuCommand int

const (
	menuFullSuite menuCommand = iota + 1
	menuAuthentication
	menuProfessor
	menuStudent
	menuGuest
	menuAdmin
	menuCleanup
	menuLoginProfessor
	menuLoginStudent
	menuViewSessions
	menuExit
)

var menuLabels = map[menuCommand]string{
	menuFullSuite:      "Run full test suite (all routes)",
	menuAuthentication: "Test authentication only",
	menuProfessor:      "Test professor routes only",
	menuStudent:        "Test student routes only",
	menuGuest:          "Test guest routes only",
	menuAdmin:          "Test admin routes only",
	menuCleanup:        "Delete a quiz (cleanup)",
	menuLoginProfessor: "Login as professor",
	menuLoginStudent:   "Login as student",
	menuViewSessions:   "View stored sessions",
	menuExit:           "Exit",
}

var errExit = errors.New("exit requested")

func parseMenuCommand(input string) (menuCommand, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, errors.New("please enter a number")
	}
	if n < int(menuFullSuite) || n > int(menuExit) {
		return 0, fmt.Errorf("invalid selection %d", n)
	}
	return menuCommand(n), nil
}

// interactiveSession is the menu front-end. It keeps one SuiteState for its whole lifetime,
// so a quiz created from one menu entry is offered as the default in the next.
type interactiveSession struct {
	env        *quiztests.Environment
	state      quiztests.SuiteState
	prompt     *prompter
	testLogger *ConsoleTestLogger
	filters    framework.RegexFilters
	out        io.Writer
	handlers   map[menuCommand]func() error
}

func newInteractiveSession(
	env *quiztests.Environment,
	prompt *prompter,
	testLogger *ConsoleTestLogger,
	filters framework.RegexFilters,
	out io.Writer,
) *interactiveSession {
	s := &interactiveSession{
		env:        env,
		prompt:     prompt,
		testLogger: testLogger,
		filters:    filters,
		out:        out,
	}
	s.handlers = map[menuCommand]func() error{
		menuFullSuite:      s.runFullSuite,
		menuAuthentication: func() error { return s.runPhase(quiztests.PhaseAuthentication) },
		menuProfessor:      func() error { return s.runPhase(quiztests.PhaseProfessor) },
		menuStudent:        s.runWithQuiz(quiztests.PhaseStudent),
		menuGuest:          s.runWithQuiz(quiztests.PhaseGuest),
		menuAdmin:          func() error { return s.runPhase(quiztests.PhaseAdmin) },
		menuCleanup:        s.runCleanup,
		menuLoginProfessor: s.login(quiztests.RoleProfessor),
		menuLoginStudent:   s.login(quiztests.RoleStudent),
		menuViewSessions:   s.viewSessions,
		menuExit:           func() error { return errExit },
	}
	return s
}

// run shows the menu until the operator exits or the input ends.
func (s *interactiveSession) run() error {
	s.testLogger.Section("Quiz Platform Interactive Test")
	for {
		cmd, err := s.choose()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := s.handlers[cmd](); err != nil {
			if errors.Is(err, errExit) {
				s.testLogger.Info("Exiting...")
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (s *interactiveSession) choose() (menuCommand, error) {
	fmt.Fprintln(s.out)
	s.testLogger.Info("Select test suite:")
	for cmd := menuFullSuite; cmd <= menuExit; cmd++ {
		fmt.Fprintf(s.out, "%d. %s\n", cmd, menuLabels[cmd])
	}
	for {
		answer, err := s.prompt.line("Select option: ")
		if err != nil {
			return 0, err
		}
		cmd, err := parseMenuCommand(answer)
		if err == nil {
			return cmd, nil
		}
		s.testLogger.Failure("%s", err)
	}
}

func (s *interactiveSession) runFullSuite() error {
	started := time.Now()
	framework.PrintFilterDescription(s.out, s.filters)
	results, state := quiztests.RunSuite(s.env, s.filters.AsFilter, s.testLogger)
	s.state = state
	s.testLogger.PrintResults(results, s.env.API.BaseURL(), started, time.Now())
	return nil
}

func (s *interactiveSession) runPhase(phase quiztests.Phase) error {
	started := time.Now()
	results := quiztests.RunPhase(s.env, phase, &s.state, s.testLogger)
	s.testLogger.PrintResults(results, s.env.API.BaseURL(), started, time.Now())
	return nil
}

// runWithQuiz asks which quiz to use before running a phase that needs one. Pressing Enter
// keeps the quiz from the previous menu action, if there is one.
func (s *interactiveSession) runWithQuiz(phase quiztests.Phase) func() error {
	return func() error {
		idText, err := s.prompt.line(withDefault("Enter quiz ID", idDefault(s.state.Quiz.ID)))
		if err != nil {
			return err
		}
		code, err := s.prompt.line(withDefault("Enter quiz code", s.state.Quiz.Code))
		if err != nil {
			return err
		}
		s.state.Quiz = selectQuiz(s.state.Quiz, idText, code, s.testLogger)
		return s.runPhase(phase)
	}
}

// runCleanup only needs to know which quiz to delete, so the join code is not asked for.
func (s *interactiveSession) runCleanup() error {
	idText, err := s.prompt.line(withDefault("Enter quiz ID to delete", idDefault(s.state.Quiz.ID)))
	if err != nil {
		return err
	}
	if idText != "" {
		s.state.Quiz = selectQuiz(quiztests.QuizArtifact{}, idText, "", s.testLogger)
	}
	return s.runPhase(quiztests.PhaseCleanup)
}

func (s *interactiveSession) login(role quiztests.Role) func() error {
	return func() error {
		username, err := s.prompt.line("Username: ")
		if err != nil {
			return err
		}
		password, err := s.prompt.secret("Password: ")
		if err != nil {
			return err
		}
		quiztests.RunLogin(s.env, role, servicedef.LoginParams{Username: username, Password: password},
			s.testLogger)
		return nil
	}
}

func (s *interactiveSession) viewSessions() error {
	s.testLogger.Section("STORED SESSIONS")
	for _, role := range quiztests.AllRoles {
		if token, ok := s.env.Sessions.Get(role); ok {
			s.testLogger.Success("%s: %s", strings.ToUpper(string(role)), token.Preview(30))
		} else {
			s.testLogger.Warning("%s: Not logged in", strings.ToUpper(string(role)))
		}
	}
	return nil
}

// selectQuiz applies the operator's answers to the current quiz. A new code without an id
// starts over from that code alone, since the old id belongs to a different quiz.
func selectQuiz(current quiztests.QuizArtifact, idText, code string, logger *ConsoleTestLogger) quiztests.QuizArtifact {
	quiz := current
	if code != "" && code != current.Code {
		quiz = quiztests.QuizArtifact{Code: code}
	}
	if idText != "" {
		id, err := strconv.Atoi(idText)
		if err != nil || id <= 0 {
			logger.Warning("%q is not a quiz id; the id will be resolved from the code", idText)
			id = 0
		}
		quiz.ID = id
	}
	return quiz
}

func withDefault(label, def string) string {
	if def == "" {
		return label + ": "
	}
	return fmt.Sprintf("%s [%s]: ", label, def)
}

func idDefault(id int) string {
	if id <= 0 {
		return ""
	}
	return strconv.Itoa(id)
}
