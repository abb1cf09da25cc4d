package quiztests

import (
	"fmt"

	"github.com/flashmind/quiz-contract-tests/client"
	"github.com/flashmind/quiz-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
)

// DoStudentPhase joins the quiz as the student and submits answers twice: the correct response
// of every question, which must score 100, and then a strict subset, which must not.
func DoStudentPhase(t *T, quiz QuizArtifact) {
	token, ok := t.Sessions().Get(RoleStudent)
	if !ok {
		t.Skip("no student session; run the authentication phase first")
	}
	if !quiz.HasCode() {
		t.Skip("no quiz join code; run the professor phase first")
	}

	quiz = resolveQuizByCode(t, token, quiz, fmt.Sprintf("Get quiz details by code %s", quiz.Code))

	var joined servicedef.Participation
	t.call(client.Request{
		Operation:   client.Create,
		Path:        servicedef.JoinPath(quiz.Code),
		Credential:  token,
		Description: fmt.Sprintf("Join quiz with code %s", quiz.Code),
	}, &joined)

	var before []servicedef.Participation
	beforeOK := t.call(client.Request{
		Operation:   client.Read,
		Path:        servicedef.PathMyParticipations,
		Credential:  token,
		Description: "Get my participations",
	}, &before)

	if !quiz.HasID() {
		t.Warn("quiz id unknown; submissions not attempted")
		return
	}

	var detail servicedef.Quiz
	if !t.call(client.Request{
		Operation:   client.Read,
		Path:        servicedef.QuizPath(quiz.ID),
		Credential:  token,
		Description: "Get quiz details for answers",
	}, &detail) {
		t.Warn("quiz details unavailable; submissions not attempted")
		return
	}
	correct := CorrectResponseIDs(detail)
	if len(correct) == 0 {
		t.Warn("no correct response ids found in quiz %d; submissions not attempted", quiz.ID)
		return
	}
	t.Debug("correct response ids: %v", correct)

	submitted := false
	if result, ok := submitAnswers(t, token, quiz.ID, correct, servicedef.SubmitParams{},
		"Submit quiz answers (all correct)"); ok {
		submitted = true
		if assert.Equal(t, 100.0, result.Score, "score for submitting every correct response") {
			t.Info("Score correctly calculated as 100%%")
		}
	}

	if len(correct) > 1 {
		partial := correct[:1]
		if result, ok := submitAnswers(t, token, quiz.ID, partial, servicedef.SubmitParams{},
			"Submit quiz answers (partially correct)"); ok {
			submitted = true
			assert.Less(t, result.Score, 100.0, "score for submitting %d of %d correct responses",
				len(partial), len(correct))
		}
	} else {
		t.Info("Only one question has a correct response; partial submission not attempted")
	}

	var after []servicedef.Participation
	if t.call(client.Request{
		Operation:   client.Read,
		Path:        servicedef.PathMyParticipations,
		Credential:  token,
		Description: "Get my participations after submission",
	}, &after) {
		if beforeOK {
			t.Info("Participations: %d before submission, %d after", len(before), len(after))
		}
		if submitted {
			assert.NotEmpty(t, after, "participation listing is empty after a successful submission")
		}
	}
}

// resolveQuizByCode fetches the quiz through its join code with the given credential (which may
// be empty for guests). The code is authoritative: the id in the response replaces a missing
// one, and an id that disagrees with it is an assertion failure after which the code's quiz is
// used, so that later calls go to the quiz that was joined.
func resolveQuizByCode(t *T, token client.Credential, quiz QuizArtifact, description string) QuizArtifact {
	var byCode servicedef.Quiz
	if !t.call(client.Request{
		Operation:   client.Read,
		Path:        servicedef.JoinPath(quiz.Code),
		Credential:  token,
		Description: description,
	}, &byCode) {
		return quiz
	}
	id, ok := positiveInt(byCode.ID)
	switch {
	case !ok:
	case !quiz.HasID():
		quiz.ID = id
		t.Info("Quiz ID %d resolved from join code %s", id, quiz.Code)
	case quiz.ID != id:
		t.Errorf("join code %s belongs to quiz %d, not quiz %d", quiz.Code, id, quiz.ID)
		quiz.ID = id
	}
	return quiz
}

// submitAnswers submits a set of response ids. The returned result is only valid if the call
// succeeded and the response carried a score; a successful call without a score is an
// assertion failure.
func submitAnswers(
	t *T,
	token client.Credential,
	quizID int,
	responseIDs []int,
	params servicedef.SubmitParams,
	description string,
) (SubmissionResult, bool) {
	params.SelectedResponseIDs = responseIDs
	var participation servicedef.Participation
	if !t.call(client.Request{
		Operation:   client.Create,
		Path:        servicedef.SubmitPath(quizID),
		Credential:  token,
		Payload:     params,
		Description: description,
	}, &participation) {
		return SubmissionResult{}, false
	}
	result, ok := ScoreFrom(participation)
	if !ok {
		t.Errorf("%s: response has no score", description)
		return SubmissionResult{}, false
	}
	t.Info("Quiz submitted! Score: %g%%", result.Score)
	return result, true
}
