package quiztests

import (
	"fmt"

	"github.com/flashmind/quiz-contract-tests/client"
	"github.com/flashmind/quiz-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
)

const testPassword = "testpass123"

// Registrations holds the accounts the authentication phase registered, with whatever the
// platform answered. They are kept for display and for manual re-login.
type Registrations struct {
	Professor       servicedef.RegisterParams
	ProfessorResult servicedef.RegistrationResult
	Student         servicedef.RegisterParams
	StudentResult   servicedef.RegistrationResult
}

// DoAuthenticationPhase registers a professor and a student, logs both in, and stores their
// credentials in the session store. Every step is best-effort: later phases notice a missing
// session on their own.
func DoAuthenticationPhase(t *T) Registrations {
	t.call(client.Request{Operation: client.Read, Path: servicedef.PathHealth, Description: "Health endpoint"}, nil)
	t.call(client.Request{Operation: client.Read, Path: servicedef.PathHello, Description: "Hello endpoint"}, nil)

	suffix := t.uniqueSuffix()
	reg := Registrations{
		Professor: servicedef.RegisterParams{
			Username:  "prof_test_" + suffix,
			Email:     "prof_" + suffix + "@test.com",
			Password:  testPassword,
			FirstName: "Test",
			LastName:  "Professor",
		},
		Student: servicedef.RegisterParams{
			Username:  "student_test_" + suffix,
			Email:     "student_" + suffix + "@test.com",
			Password:  testPassword,
			FirstName: "Test",
			LastName:  "Student",
		},
	}

	t.call(client.Request{
		Operation:   client.Create,
		Path:        servicedef.PathRegisterProfessor,
		Payload:     reg.Professor,
		Description: "Register Professor",
	}, &reg.ProfessorResult)
	t.call(client.Request{
		Operation:   client.Create,
		Path:        servicedef.PathRegisterStudent,
		Payload:     reg.Student,
		Description: "Register Student",
	}, &reg.StudentResult)

	professorToken, professorOK := login(t, RoleProfessor,
		servicedef.LoginParams{Username: reg.Professor.Username, Password: reg.Professor.Password})
	studentToken, studentOK := login(t, RoleStudent,
		servicedef.LoginParams{Username: reg.Student.Username, Password: reg.Student.Password})

	if professorOK && studentOK {
		assert.NotEqual(t, professorToken, studentToken, "professor and student logins returned the same credential")
	}

	for _, role := range []Role{RoleProfessor, RoleStudent} {
		token, ok := t.Sessions().Get(role)
		if !ok {
			t.Warn("no %s session; skipping current user check", role)
			continue
		}
		var me servicedef.User
		if t.call(client.Request{
			Operation:   client.Read,
			Path:        servicedef.PathMe,
			Credential:  token,
			Description: fmt.Sprintf("Get current %s info", role),
		}, &me) {
			t.Debug("current %s: id=%s username=%s", role, me.ID.AsValue().JSONString(), me.Username.StringValue())
		}
	}

	return reg
}

// login logs in and, if the platform returned a credential, stores it for the role. A login
// call that succeeds without a credential is an assertion failure.
func login(t *T, role Role, params servicedef.LoginParams) (client.Credential, bool) {
	var result servicedef.LoginResult
	if !t.call(client.Request{
		Operation:   client.Create,
		Path:        servicedef.PathLogin,
		Payload:     params,
		Description: "Login " + role.Title(),
	}, &result) {
		return "", false
	}
	token, ok := TokenFrom(result)
	if !ok {
		t.Errorf("login as %s succeeded but returned no token", role)
		return "", false
	}
	t.Sessions().Set(role, token)
	t.Info("%s token stored: %s", role.Title(), token.Preview(20))
	return token, true
}
