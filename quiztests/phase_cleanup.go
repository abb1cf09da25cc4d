package quiztests

import (
	"fmt"

	"github.com/flashmind/quiz-contract-tests/client"
	"github.com/flashmind/quiz-contract-tests/servicedef"
)

// DoCleanupPhase deletes the quiz and checks that it can no longer be read.
func DoCleanupPhase(t *T, quiz QuizArtifact) {
	token, ok := t.Sessions().Get(RoleProfessor)
	if !ok {
		t.Skip("no professor session; run the authentication phase first")
	}
	if !quiz.HasID() {
		t.Skip("no quiz id; run the professor phase first")
	}

	messageCall(t, client.Request{
		Operation:   client.Delete,
		Path:        servicedef.QuizPath(quiz.ID),
		Credential:  token,
		Description: fmt.Sprintf("Delete quiz %d", quiz.ID),
	})

	var stale servicedef.Quiz
	if t.call(client.Request{
		Operation:     client.Read,
		Path:          servicedef.QuizPath(quiz.ID),
		Credential:    token,
		Description:   fmt.Sprintf("Attempt to get deleted quiz %d (should fail)", quiz.ID),
		ExpectFailure: true,
	}, &stale) {
		t.Errorf("quiz %d can still be read after deletion", quiz.ID)
		return
	}
	t.Info("Quiz %d is no longer readable", quiz.ID)
}
