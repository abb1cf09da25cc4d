package quiztests

import (
	"strconv"
	"strings"

	"github.com/flashmind/quiz-contract-tests/client"
	"github.com/flashmind/quiz-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// All platform ids are positive integers, so zero means "not known".

// QuizArtifact identifies the quiz created by the professor phase. It is never refreshed after
// capture, even though the update step changes the platform's copy.
type QuizArtifact struct {
	ID       int
	Code     string
	Title    string
	Duration int
}

func (q QuizArtifact) HasID() bool   { return q.ID > 0 }
func (q QuizArtifact) HasCode() bool { return q.Code != "" }

type ResponseArtifact struct {
	ID      int
	Text    string
	Correct bool
}

// SubmissionResult is only used to check a score; it is never passed to a later call.
type SubmissionResult struct {
	ID    int
	Score float64
}

type GuestIdentity struct {
	ID     int
	Pseudo string
	Email  string
}

type SubscriptionArtifact struct {
	ID           int
	Name         string
	Price        float64
	DurationDays int
}

func positiveInt(o ldvalue.OptionalInt) (int, bool) {
	if !o.IsDefined() || o.IntValue() <= 0 {
		return 0, false
	}
	return o.IntValue(), true
}

func numberFrom(v ldvalue.Value) (float64, bool) {
	switch {
	case v.IsNumber():
		return v.Float64Value(), true
	case v.Type() == ldvalue.StringType:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.StringValue()), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// TokenFrom returns the bearer credential from a login response.
func TokenFrom(r servicedef.LoginResult) (client.Credential, bool) {
	if !r.Token.IsDefined() || r.Token.StringValue() == "" {
		return "", false
	}
	return client.Credential(r.Token.StringValue()), true
}

// QuizRefFrom returns the quiz id and join code, which must both be present.
func QuizRefFrom(q servicedef.Quiz) (QuizArtifact, bool) {
	id, ok := positiveInt(q.ID)
	if !ok || q.Code.StringValue() == "" {
		return QuizArtifact{}, false
	}
	return QuizArtifact{
		ID:       id,
		Code:     q.Code.StringValue(),
		Title:    q.Title.StringValue(),
		Duration: q.Duration.IntValue(),
	}, true
}

// QuestionIDFrom returns the id of a created question.
func QuestionIDFrom(q servicedef.Question) (int, bool) {
	return positiveInt(q.ID)
}

// ResponseFrom returns the id, text and correctness of a created response. Only a JSON true
// counts as correct.
func ResponseFrom(r servicedef.Response) (ResponseArtifact, bool) {
	id, ok := positiveInt(r.ID)
	if !ok {
		return ResponseArtifact{}, false
	}
	return ResponseArtifact{
		ID:      id,
		Text:    r.ResponseText.StringValue(),
		Correct: r.IsCorrect.BoolValue(),
	}, true
}

// CorrectResponseIDs returns, in question order, the id of the first response flagged correct
// in each question. A question with no correct response, or whose first correct response has
// no id, contributes nothing. Submitting exactly this list should score 100.
func CorrectResponseIDs(q servicedef.Quiz) []int {
	var ids []int
	for _, question := range q.Questions {
		for _, r := range question.Responses {
			if !r.IsCorrect.BoolValue() {
				continue
			}
			if id, ok := positiveInt(r.ID); ok {
				ids = append(ids, id)
			}
			break
		}
	}
	return ids
}

// FirstResponseIDs returns, in question order, the id of the first listed response of each
// question regardless of correctness.
func FirstResponseIDs(q servicedef.Quiz) []int {
	var ids []int
	for _, question := range q.Questions {
		if len(question.Responses) == 0 {
			continue
		}
		if id, ok := positiveInt(question.Responses[0].ID); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// ScoreFrom returns the computed score of a submission. The participation id is optional.
func ScoreFrom(p servicedef.Participation) (SubmissionResult, bool) {
	score, ok := numberFrom(p.Score)
	if !ok {
		return SubmissionResult{}, false
	}
	id, _ := positiveInt(p.ID)
	return SubmissionResult{ID: id, Score: score}, true
}

// GuestFrom returns the identity of a created or fetched guest.
func GuestFrom(g servicedef.Guest) (GuestIdentity, bool) {
	id, ok := positiveInt(g.ID)
	if !ok {
		return GuestIdentity{}, false
	}
	return GuestIdentity{ID: id, Pseudo: g.Pseudo.StringValue(), Email: g.Email.StringValue()}, true
}

// SubscriptionFrom returns a subscription plan's fields. Only the id is required.
func SubscriptionFrom(s servicedef.Subscription) (SubscriptionArtifact, bool) {
	id, ok := positiveInt(s.ID)
	if !ok {
		return SubscriptionArtifact{}, false
	}
	price, _ := numberFrom(s.Price)
	return SubscriptionArtifact{
		ID:           id,
		Name:         s.Name.StringValue(),
		Price:        price,
		DurationDays: s.DurationDays.IntValue(),
	}, true
}

// FirstProfessorID returns the user id of the first listed professor that has one.
func FirstProfessorID(professors []servicedef.Professor) (int, bool) {
	for _, p := range professors {
		if id, ok := positiveInt(p.UserID); ok {
			return id, true
		}
	}
	return 0, false
}

// SubscriptionListed reports whether a subscription with the given id is in the listing.
func SubscriptionListed(subscriptions []servicedef.Subscription, id int) bool {
	for _, s := range subscriptions {
		if sid, ok := positiveInt(s.ID); ok && sid == id {
			return true
		}
	}
	return false
}
