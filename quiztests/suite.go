package quiztests

import (
	"fmt"

	"github.com/flashmind/quiz-contract-tests/framework"
	"github.com/flashmind/quiz-contract-tests/servicedef"
)

// Phase is one step of the fixed test sequence.
type Phase int

const (
	PhaseAuthentication Phase = iota
	PhaseProfessor
	PhaseStudent
	PhaseGuest
	PhaseAdmin
	PhaseCleanup
)

// AllPhases is the order the full suite runs in. Each phase only consumes artifacts produced
// by phases before it.
var AllPhases = []Phase{
	PhaseAuthentication,
	PhaseProfessor,
	PhaseStudent,
	PhaseGuest,
	PhaseAdmin,
	PhaseCleanup,
}

func (p Phase) String() string {
	switch p {
	case PhaseAuthentication:
		return "authentication"
	case PhaseProfessor:
		return "professor"
	case PhaseStudent:
		return "student"
	case PhaseGuest:
		return "guest"
	case PhaseAdmin:
		return "admin"
	case PhaseCleanup:
		return "cleanup"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// SuiteState carries artifacts from one phase to the next. The interactive menu keeps a
// single SuiteState for the whole session, so a quiz created by one menu action can be used
// by the next.
type SuiteState struct {
	Registrations Registrations
	Quiz          QuizArtifact
}

// RunSuite runs every phase in order. A phase that fails, skips or panics never stops the
// ones after it.
func RunSuite(
	env *Environment,
	filter framework.Filter,
	testLogger framework.TestLogger,
) (framework.Results, SuiteState) {
	var state SuiteState
	results := framework.Run(filter, testLogger, func(c *framework.Context) {
		for _, phase := range AllPhases {
			runPhase(c, env, phase, &state)
		}
	})
	return results, state
}

// RunPhase runs a single phase against existing state, as the interactive menu does.
func RunPhase(
	env *Environment,
	phase Phase,
	state *SuiteState,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(nil, testLogger, func(c *framework.Context) {
		runPhase(c, env, phase, state)
	})
}

// RunLogin logs in manually as the given role and stores the credential on success.
func RunLogin(
	env *Environment,
	role Role,
	params servicedef.LoginParams,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(nil, testLogger, func(c *framework.Context) {
		c.Run("login "+string(role), func(c *framework.Context) {
			login(newScope(c, env), role, params)
		})
	})
}

func runPhase(c *framework.Context, env *Environment, phase Phase, state *SuiteState) {
	c.Run(phase.String(), func(c *framework.Context) {
		t := newScope(c, env)
		switch phase {
		case PhaseAuthentication:
			state.Registrations = DoAuthenticationPhase(t)
		case PhaseProfessor:
			state.Quiz = QuizArtifact{} // a skipped phase must not leave an older quiz behind
			state.Quiz = DoProfessorPhase(t)
		case PhaseStudent:
			DoStudentPhase(t, state.Quiz)
		case PhaseGuest:
			DoGuestPhase(t, state.Quiz)
		case PhaseAdmin:
			creds, ok := env.adminCredentials()
			if !ok {
				t.Skip("no admin credentials supplied")
			}
			DoAdminPhase(t, creds)
		case PhaseCleanup:
			DoCleanupPhase(t, state.Quiz)
		}
	})
}
