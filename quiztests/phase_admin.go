package quiztests

import (
	"fmt"

	"github.com/flashmind/quiz-contract-tests/client"
	"github.com/flashmind/quiz-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DoAdminPhase logs in with operator-supplied credentials, reads the user and quiz listings,
// and takes a subscription plan through its whole lifecycle.
func DoAdminPhase(t *T, creds AdminCredentials) {
	if creds.Username == "" {
		t.Skip("no admin credentials supplied")
	}
	token, ok := login(t, RoleAdmin, servicedef.LoginParams{Username: creds.Username, Password: creds.Password})
	if !ok {
		t.Warn("admin login failed; remaining admin steps not attempted")
		return
	}

	var professors []servicedef.Professor
	for _, category := range servicedef.AllUserCategories {
		req := client.Request{
			Operation:   client.Read,
			Path:        servicedef.AdminUsersPath(category),
			Credential:  token,
			Description: fmt.Sprintf("List all %s", category),
		}
		if category == servicedef.UsersProfessors {
			if t.call(req, &professors) {
				t.Info("%d %s listed", len(professors), category)
			}
			continue
		}
		var users []ldvalue.Value
		if t.call(req, &users) {
			t.Info("%d %s listed", len(users), category)
		}
	}

	var quizzes []ldvalue.Value
	if t.call(client.Request{
		Operation:   client.Read,
		Path:        servicedef.PathAdminQuizzes,
		Credential:  token,
		Description: "List all quizzes",
	}, &quizzes) {
		t.Info("%d quizzes listed", len(quizzes))
	}

	suffix := t.uniqueSuffix()
	var created servicedef.Subscription
	var subscription SubscriptionArtifact
	haveSubscription := false
	if t.call(client.Request{
		Operation:  client.Create,
		Path:       servicedef.PathAdminSubscription,
		Credential: token,
		Payload: servicedef.CreateSubscriptionParams{
			Name:         "Test Subscription " + suffix,
			Price:        29.99,
			DurationDays: 30,
		},
		Description: "Create subscription",
	}, &created) {
		if subscription, haveSubscription = SubscriptionFrom(created); haveSubscription {
			t.Info("Subscription created: ID=%d", subscription.ID)
			if created.DurationDays.IsDefined() {
				assert.Equal(t, 30, subscription.DurationDays, "duration of subscription %d", subscription.ID)
			}
		} else {
			t.Errorf("created subscription has no id")
		}
	}

	var listed []servicedef.Subscription
	if t.call(listSubscriptions(token, "List all subscriptions"), &listed) && haveSubscription {
		assert.True(t, SubscriptionListed(listed, subscription.ID),
			"subscription %d missing from listing after creation", subscription.ID)
	}

	if !haveSubscription {
		t.Warn("no subscription was created; assignment, update and deletion not attempted")
		return
	}

	if professorID, ok := FirstProfessorID(professors); ok {
		messageCall(t, client.Request{
			Operation:   client.Create,
			Path:        servicedef.AssignSubscriptionPath(professorID),
			Credential:  token,
			Payload:     servicedef.AssignSubscriptionParams{SubscriptionID: subscription.ID},
			Description: fmt.Sprintf("Assign subscription to professor %d", professorID),
		})
	} else {
		t.Warn("no professor listed; subscription assignment not attempted")
	}

	messageCall(t, client.Request{
		Operation:  client.Replace,
		Path:       servicedef.SubscriptionPath(subscription.ID),
		Credential: token,
		Payload: servicedef.UpdateSubscriptionParams{
			Name:         "Updated Subscription " + suffix,
			Price:        39.99,
			DurationDays: 60,
		},
		Description: fmt.Sprintf("Update subscription %d", subscription.ID),
	})

	if !messageCall(t, client.Request{
		Operation:   client.Delete,
		Path:        servicedef.SubscriptionPath(subscription.ID),
		Credential:  token,
		Description: fmt.Sprintf("Delete subscription %d", subscription.ID),
	}) {
		return
	}
	var remaining []servicedef.Subscription
	if t.call(listSubscriptions(token, "List all subscriptions after deletion"), &remaining) {
		assert.False(t, SubscriptionListed(remaining, subscription.ID),
			"subscription %d still listed after deletion", subscription.ID)
	}
}

func listSubscriptions(token client.Credential, description string) client.Request {
	return client.Request{
		Operation:   client.Read,
		Path:        servicedef.PathAdminSubscription,
		Credential:  token,
		Description: description,
	}
}

// messageCall makes a call whose response is a {"message": ...} acknowledgement and shows the
// message, if any.
func messageCall(t *T, req client.Request) bool {
	var result servicedef.MessageResult
	if !t.call(req, &result) {
		return false
	}
	if result.Message.StringValue() != "" {
		t.Info("%s: %s", req.Description, result.Message.StringValue())
	}
	return true
}
