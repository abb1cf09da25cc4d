package quiztests

import (
	"strings"

	"github.com/flashmind/quiz-contract-tests/client"
)

// Role is an authenticated principal kind. Guests are not roles: they never log in.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
)

// AllRoles is the display order for session inspection.
var AllRoles = []Role{RoleAdmin, RoleProfessor, RoleStudent}

// Sessions maps each role to the credential from its latest successful login. It is created
// once per process and handed to every phase; each role is only written by the phase (or
// manual login) that owns it.
type Sessions struct {
	credentials map[Role]client.Credential
}

func NewSessions() *Sessions {
	return &Sessions{credentials: make(map[Role]client.Credential)}
}

// Set stores the credential for a role, replacing any earlier one. An empty credential clears
// the role.
func (s *Sessions) Set(role Role, credential client.Credential) {
	if !credential.IsDefined() {
		delete(s.credentials, role)
		return
	}
	s.credentials[role] = credential
}

// Get returns the credential for a role and whether there is one.
func (s *Sessions) Get(role Role) (client.Credential, bool) {
	c, ok := s.credentials[role]
	return c, ok
}

// Roles returns the roles that currently have a credential, in AllRoles order.
func (s *Sessions) Roles() []Role {
	var ret []Role
	for _, role := range AllRoles {
		if _, ok := s.credentials[role]; ok {
			ret = append(ret, role)
		}
	}
	return ret
}

// Title returns the role name with a leading capital, for labels such as "Login Professor".
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}
