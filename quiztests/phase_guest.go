package quiztests

import (
	"fmt"

	"github.com/flashmind/quiz-contract-tests/client"
	"github.com/flashmind/quiz-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DoGuestPhase takes the quiz anonymously as a freshly created guest, answering the first
// listed response of every question. The score is reported but not checked.
func DoGuestPhase(t *T, quiz QuizArtifact) {
	if !quiz.HasCode() {
		t.Skip("no quiz join code; run the professor phase first")
	}

	suffix := t.uniqueSuffix()
	params := servicedef.GuestParams{
		Pseudo: "Guest_" + suffix,
		Email:  "guest_" + suffix + "@test.com",
	}
	var created servicedef.Guest
	if !t.call(client.Request{
		Operation:   client.Create,
		Path:        servicedef.PathCreateGuest,
		Payload:     params,
		Description: "Create guest user",
	}, &created) {
		t.Warn("guest creation failed; remaining guest steps not attempted")
		return
	}
	guest, ok := GuestFrom(created)
	if !ok {
		t.Errorf("created guest has no id")
		return
	}
	t.Info("Guest created: ID=%d", guest.ID)

	var fetched []GuestIdentity
	for i := 0; i < 2; i++ {
		var g servicedef.Guest
		if !t.call(client.Request{
			Operation:   client.Read,
			Path:        servicedef.GuestPath(guest.ID),
			Description: fmt.Sprintf("Get guest info for ID %d", guest.ID),
		}, &g) {
			continue
		}
		identity, _ := GuestFrom(g)
		fetched = append(fetched, identity)
	}
	for _, identity := range fetched {
		assert.Equal(t, guest, identity, "guest %d fetched by id does not match the created guest", guest.ID)
	}

	quiz = resolveQuizByCode(t, "", quiz, fmt.Sprintf("Guest view quiz with code %s", quiz.Code))
	if !quiz.HasID() {
		t.Warn("quiz id unknown; guest submission not attempted")
		return
	}

	var detail servicedef.Quiz
	if !t.call(client.Request{
		Operation:   client.Read,
		Path:        servicedef.QuizPath(quiz.ID),
		Description: "Guest get quiz details",
	}, &detail) {
		t.Warn("quiz details unavailable to guest; guest submission not attempted")
		return
	}
	answers := FirstResponseIDs(detail)
	if len(answers) == 0 {
		t.Warn("quiz %d has no responses to choose from; guest submission not attempted", quiz.ID)
		return
	}

	var participation servicedef.Participation
	if !t.call(client.Request{
		Operation: client.Create,
		Path:      servicedef.SubmitPath(quiz.ID),
		Payload: servicedef.SubmitParams{
			SelectedResponseIDs: answers,
			GuestID:             ldvalue.NewOptionalInt(guest.ID),
		},
		Description: "Guest submit quiz",
	}, &participation) {
		return
	}
	if result, ok := ScoreFrom(participation); ok {
		t.Info("Guest quiz submitted! Score: %g%%", result.Score)
	} else {
		t.Info("Guest quiz submitted! Score: N/A")
	}
}
