package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/flashmind/quiz-contract-tests/client"
	"github.com/flashmind/quiz-contract-tests/config"
	"github.com/flashmind/quiz-contract-tests/framework"
	"github.com/flashmind/quiz-contract-tests/logging"
	"github.com/flashmind/quiz-contract-tests/quiztests"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run returns the process exit status: 0 if the run completed, whatever the assertions
// found, and 1 for invalid parameters or a defect that escaped the phase runner.
func run(args []string, in io.Reader, out, errOut io.Writer) (status int) {
	defer func() {
		if r := recover(); r != nil {
			logger := log.New()
			logger.SetOutput(errOut)
			logger.WithField("stack", string(debug.Stack())).Errorf("test run aborted: %v", r)
			status = 1
		}
	}()

	cmd := newRootCommand(args, in, out, errOut)
	cmd.SetArgs(args[1:])
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(errOut, "Invalid parameters: %s\n", err)
		return 1
	}
	return 0
}

func newRootCommand(args []string, in io.Reader, out, errOut io.Writer) *cobra.Command {
	var params commandParams
	cmd := &cobra.Command{
		Use:           "quiz-contract-tests",
		Short:         "Integration tests for the quiz platform API",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logger.Level, cfg.Logger.Format, errOut)
			if err != nil {
				return err
			}
			if cfg.DebugAll {
				var command commandBuilder
				command.add(args...)
				logger.Infof("Command line: %s", command)
			}
			return runHarness(cfg, params.filters, logger, in, out)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	params.addFlags(cmd.Flags())
	return cmd
}

func runHarness(
	cfg *config.Config,
	filters framework.RegexFilters,
	logger *log.Logger,
	in io.Reader,
	out io.Writer,
) error {
	testLogger := NewConsoleTestLogger(out, cfg.NoColor)
	testLogger.DebugOutputOnFailure = cfg.Debug
	testLogger.DebugOutputOnSuccess = cfg.DebugAll

	prompt := newPrompter(in, out)
	env := &quiztests.Environment{
		API:      client.NewClient(cfg.URL, cfg.Timeout, testLogger, logger),
		Sessions: quiztests.NewSessions(),
	}
	logger.WithFields(log.Fields{"url": cfg.URL, "auto": cfg.Auto}).Debug("Starting test run")

	if !cfg.Auto {
		env.AdminCredentials = adminCredentialSource(cfg.Admin, prompt)
		return newInteractiveSession(env, prompt, testLogger, filters, out).run()
	}

	if prompt.isTerminal() {
		env.AdminCredentials = adminCredentialSource(cfg.Admin, prompt)
	} else {
		env.AdminCredentials = adminCredentialSource(cfg.Admin, nil)
	}

	testLogger.Section("Quiz Platform API Test Suite")
	started := time.Now()
	testLogger.Info("Base URL: %s", cfg.URL)
	testLogger.Info("Start time: %s", started.Format(summaryTimeFormat))
	framework.PrintFilterDescription(out, filters)

	results, _ := quiztests.RunSuite(env, filters.AsFilter, testLogger)
	testLogger.PrintResults(results, cfg.URL, started, time.Now())
	return nil
}
