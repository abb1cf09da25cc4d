// Package servicedef defines the request and response bodies of the quiz platform API.
//
// Response types use ldvalue optional types for every field that later calls depend on, so a
// missing or null field decodes to an undefined value instead of a misleading zero.
package servicedef

import "gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

const (
	PathHealth = "/test/health"
	PathHello  = "/test/hello"

	PathRegisterProfessor = "/auth/register/professor"
	PathRegisterStudent   = "/auth/register/student"
	PathLogin             = "/auth/login"
	PathMe                = "/auth/me"

	PathCreateQuiz        = "/quiz/create"
	PathMyQuizzes         = "/quiz/my-quizzes"
	PathMyParticipations  = "/quiz/my-participations"
	PathCreateGuest       = "/quiz/guest/create"
	PathAdminQuizzes      = "/admin/quizzes"
	PathAdminSubscription = "/admin/subscriptions"
)

// RegisterParams is the body of both registration endpoints.
type RegisterParams struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type RegistrationResult struct {
	Message string              `json:"message"`
	UserID  ldvalue.OptionalInt `json:"userId"`
}

type LoginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token ldvalue.OptionalString `json:"token"`
}

// User is the body of GET /auth/me.
type User struct {
	ID       ldvalue.OptionalInt    `json:"id"`
	Username ldvalue.OptionalString `json:"username"`
	Email    ldvalue.OptionalString `json:"email"`
	Role     ldvalue.OptionalString `json:"role"`
}

// QuizParams is the body for creating or updating a quiz.
type QuizParams struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

type Quiz struct {
	ID          ldvalue.OptionalInt    `json:"id"`
	Code        ldvalue.OptionalString `json:"code"`
	Title       ldvalue.OptionalString `json:"title"`
	Description ldvalue.OptionalString `json:"description"`
	Duration    ldvalue.OptionalInt    `json:"duration"`
	Questions   []Question             `json:"questions"`
}

type QuestionParams struct {
	QuestionText string `json:"questionText"`
}

type Question struct {
	ID           ldvalue.OptionalInt    `json:"id"`
	QuizID       ldvalue.OptionalInt    `json:"quizId"`
	QuestionText ldvalue.OptionalString `json:"questionText"`
	Responses    []Response             `json:"responses"`
}

type ResponseParams struct {
	ResponseText string `json:"responseText"`
	IsCorrect    bool   `json:"isCorrect"`
}

// Response is one answer choice. IsCorrect is kept as a raw value because the platform may
// omit it or send null; only a JSON true counts as correct.
type Response struct {
	ID           ldvalue.OptionalInt    `json:"id"`
	ResponseText ldvalue.OptionalString `json:"response_text"`
	IsCorrect    ldvalue.Value          `json:"isCorrect"`
}

// SubmitParams is the body of POST /quiz/{id}/submit. GuestID is null for authenticated
// submissions.
type SubmitParams struct {
	SelectedResponseIDs []int               `json:"selectedResponseIds"`
	GuestID             ldvalue.OptionalInt `json:"guestId"`
}

// Participation is returned by joining, by submitting, and by the participation listings.
// Score is a decimal on the platform side, so it is kept as a raw value.
type Participation struct {
	ID      ldvalue.OptionalInt `json:"id"`
	Score   ldvalue.Value       `json:"score"`
	UserID  ldvalue.OptionalInt `json:"userId"`
	GuestID ldvalue.OptionalInt `json:"guestId"`
	Quiz    *QuizSummary        `json:"quiz"`
}

type QuizSummary struct {
	ID    ldvalue.OptionalInt    `json:"id"`
	Title ldvalue.OptionalString `json:"title"`
	Code  ldvalue.OptionalString `json:"code"`
}

type GuestParams struct {
	Pseudo string `json:"pseudo"`
	Email  string `json:"email"`
}

type Guest struct {
	ID     ldvalue.OptionalInt    `json:"id"`
	Pseudo ldvalue.OptionalString `json:"pseudo"`
	Email  ldvalue.OptionalString `json:"email"`
}

// CreateSubscriptionParams is the body of POST /admin/subscriptions. The create endpoint
// reads the duration as duration_days while the update endpoint reads durationDays.
type CreateSubscriptionParams struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"duration_days"`
}

type UpdateSubscriptionParams struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"durationDays"`
}

type Subscription struct {
	ID           ldvalue.OptionalInt    `json:"id"`
	Name         ldvalue.OptionalString `json:"name"`
	Price        ldvalue.Value          `json:"price"`
	DurationDays ldvalue.OptionalInt    `json:"durationDays"`
}

type AssignSubscriptionParams struct {
	SubscriptionID int `json:"subscriptionId"`
}

// Professor is one entry of GET /admin/users/professors.
type Professor struct {
	UserID    ldvalue.OptionalInt    `json:"userId"`
	FirstName ldvalue.OptionalString `json:"firstName"`
	LastName  ldvalue.OptionalString `json:"lastName"`
}

// MessageResult is the generic {"message": ...} body of delete and assignment calls.
type MessageResult struct {
	Message ldvalue.OptionalString `json:"message"`
}
