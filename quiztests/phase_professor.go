package quiztests

import (
	"fmt"

	"github.com/flashmind/quiz-contract-tests/client"
	"github.com/flashmind/quiz-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
)

type answerChoice struct {
	text    string
	correct bool
}

var (
	capitalQuestion = "What is the capital of France?"
	capitalChoices  = []answerChoice{{"Paris", true}, {"London", false}, {"Berlin", false}, {"Madrid", false}}

	arithmeticQuestion = "What is 2 + 2?"
	arithmeticChoices  = []answerChoice{{"4", true}, {"3", false}, {"5", false}, {"22", false}}
)

// DoProfessorPhase creates a quiz as the professor, exercises its management endpoints, and
// fills it with two questions of four responses each, one correct. It returns the captured
// quiz, or the zero value if creation did not produce both an id and a join code.
func DoProfessorPhase(t *T) QuizArtifact {
	token, ok := t.Sessions().Get(RoleProfessor)
	if !ok {
		t.Skip("no professor session; run the authentication phase first")
	}

	suffix := t.uniqueSuffix()
	params := servicedef.QuizParams{
		Title:       "Test Quiz " + suffix,
		Description: "Comprehensive test quiz for API testing",
		Duration:    30,
	}
	var created servicedef.Quiz
	if !t.call(client.Request{
		Operation:   client.Create,
		Path:        servicedef.PathCreateQuiz,
		Credential:  token,
		Payload:     params,
		Description: "Create quiz",
	}, &created) {
		t.Warn("quiz creation failed; remaining professor steps not attempted")
		return QuizArtifact{}
	}
	quiz, ok := QuizRefFrom(created)
	if !ok {
		t.Errorf("created quiz is missing its id or join code")
		return QuizArtifact{}
	}
	t.Info("Quiz created: ID=%d, Code=%s", quiz.ID, quiz.Code)

	var mine []servicedef.Quiz
	if t.call(client.Request{
		Operation:   client.Read,
		Path:        servicedef.PathMyQuizzes,
		Credential:  token,
		Description: "Get my quizzes",
	}, &mine) {
		assert.True(t, quizListed(mine, quiz.ID), "quiz %d missing from the professor's quiz list", quiz.ID)
	}

	var fetched servicedef.Quiz
	if t.call(client.Request{
		Operation:   client.Read,
		Path:        servicedef.QuizPath(quiz.ID),
		Credential:  token,
		Description: fmt.Sprintf("Get quiz %d details", quiz.ID),
	}, &fetched) {
		assertQuizMatches(t, params, fetched, "after creation")
	}

	update := servicedef.QuizParams{
		Title:       "Updated Quiz " + suffix,
		Description: "Updated description",
		Duration:    45,
	}
	if t.call(client.Request{
		Operation:   client.Replace,
		Path:        servicedef.QuizPath(quiz.ID),
		Credential:  token,
		Payload:     update,
		Description: fmt.Sprintf("Update quiz %d", quiz.ID),
	}, nil) {
		var refetched servicedef.Quiz
		if t.call(client.Request{
			Operation:   client.Read,
			Path:        servicedef.QuizPath(quiz.ID),
			Credential:  token,
			Description: fmt.Sprintf("Get quiz %d details after update", quiz.ID),
		}, &refetched) {
			assertQuizMatches(t, update, refetched, "after update")
		}
	}

	addQuestion(t, token, quiz.ID, capitalQuestion, capitalChoices)
	addQuestion(t, token, quiz.ID, arithmeticQuestion, arithmeticChoices)

	var participations []servicedef.Participation
	if t.call(client.Request{
		Operation:   client.Read,
		Path:        servicedef.ParticipationsPath(quiz.ID),
		Credential:  token,
		Description: fmt.Sprintf("Get quiz %d participations", quiz.ID),
	}, &participations) {
		assert.Empty(t, participations, "a quiz nobody has joined should have no participations")
	}

	return quiz
}

// addQuestion creates a question and then each of its responses. Responses are only added if
// the question came back with an id. Every created response must report the correctness it was
// created with.
func addQuestion(t *T, token client.Credential, quizID int, text string, choices []answerChoice) {
	var created servicedef.Question
	if !t.call(client.Request{
		Operation:   client.Create,
		Path:        servicedef.QuestionsPath(quizID),
		Credential:  token,
		Payload:     servicedef.QuestionParams{QuestionText: text},
		Description: fmt.Sprintf("Add question to quiz %d", quizID),
	}, &created) {
		return
	}
	questionID, ok := QuestionIDFrom(created)
	if !ok {
		t.Warn("question %q was created without an id; its responses were not added", text)
		return
	}
	t.Info("Question created: ID=%d", questionID)

	for _, choice := range choices {
		kind := "incorrect"
		if choice.correct {
			kind = "correct"
		}
		var r servicedef.Response
		if !t.call(client.Request{
			Operation:   client.Create,
			Path:        servicedef.ResponsesPath(questionID),
			Credential:  token,
			Payload:     servicedef.ResponseParams{ResponseText: choice.text, IsCorrect: choice.correct},
			Description: fmt.Sprintf("Add %s response: %s", kind, choice.text),
		}, &r) {
			continue
		}
		response, ok := ResponseFrom(r)
		if !ok {
			t.Warn("response %q of question %d was created without an id", choice.text, questionID)
			continue
		}
		assert.Equal(t, choice.correct, response.Correct,
			"correctness of response %q to question %d", choice.text, questionID)
	}
}

func assertQuizMatches(t *T, expected servicedef.QuizParams, actual servicedef.Quiz, when string) {
	assert.Equal(t, expected.Title, actual.Title.StringValue(), "quiz title %s", when)
	assert.Equal(t, expected.Description, actual.Description.StringValue(), "quiz description %s", when)
	assert.Equal(t, expected.Duration, actual.Duration.IntValue(), "quiz duration %s", when)
}

func quizListed(quizzes []servicedef.Quiz, id int) bool {
	for _, q := range quizzes {
		if qid, ok := positiveInt(q.ID); ok && qid == id {
			return true
		}
	}
	return false
}
