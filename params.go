package main

import (
	"strings"

	"github.com/flashmind/quiz-contract-tests/config"
	"github.com/flashmind/quiz-contract-tests/framework"

	"github.com/alessio/shellescape"
	"github.com/spf13/pflag"
)

// commandParams holds the flags that are not configuration settings. Everything else is
// declared here but read back through config.Load, so that a config file or QUIZ_*
// variable can supply it too.
type commandParams struct {
	filters framework.RegexFilters
}

func (c *commandParams) addFlags(fs *pflag.FlagSet) {
	fs.String(config.KeyConfig, "", "config file (any format viper supports)")
	fs.String(config.KeyURL, config.DefaultURL, "base URL of the quiz platform API")
	fs.Bool(config.KeyAuto, false, "run the full suite unattended instead of showing the menu")
	fs.Duration(config.KeyTimeout, 0, "per-call timeout (0 waits as long as the transport does)")
	fs.String(config.KeyLogLevel, "info", "log level (debug, info, warn, error)")
	fs.String(config.KeyLogFormat, "text", `log format ("text" or "json")`)
	fs.String(config.KeyAdminUsername, "", "admin username for the admin phase")
	fs.String(config.KeyAdminPassword, "", "admin password for the admin phase")
	fs.Bool(config.KeyDebug, false, "print the call transcript of failed phases")
	fs.Bool(config.KeyDebugAll, false, "print the call transcript of all phases")
	fs.Bool(config.KeyNoColor, false, "disable colored output")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select phases to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select phases not to run")
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
