package servicedef

import (
	"fmt"
	"net/url"
)

// UserCategory selects one of the admin user listings.
type UserCategory string

const (
	UsersStudents   UserCategory = "students"
	UsersProfessors UserCategory = "professors"
	UsersAdmins     UserCategory = "admins"
	UsersGuests     UserCategory = "guests"
)

// AllUserCategories is the order in which the admin listings are checked.
var AllUserCategories = []UserCategory{UsersStudents, UsersProfessors, UsersAdmins, UsersGuests}

func QuizPath(quizID int) string {
	return fmt.Sprintf("/quiz/%d", quizID)
}

func QuestionsPath(quizID int) string {
	return fmt.Sprintf("/quiz/%d/questions", quizID)
}

func ResponsesPath(questionID int) string {
	return fmt.Sprintf("/quiz/questions/%d/responses", questionID)
}

func ParticipationsPath(quizID int) string {
	return fmt.Sprintf("/quiz/%d/participations", quizID)
}

func SubmitPath(quizID int) string {
	return fmt.Sprintf("/quiz/%d/submit", quizID)
}

func JoinPath(code string) string {
	return "/quiz/join/" + url.PathEscape(code)
}

func GuestPath(guestID int) string {
	return fmt.Sprintf("/quiz/guest/%d", guestID)
}

func AdminUsersPath(category UserCategory) string {
	return "/admin/users/" + string(category)
}

func SubscriptionPath(subscriptionID int) string {
	return fmt.Sprintf("%s/%d", PathAdminSubscription, subscriptionID)
}

func AssignSubscriptionPath(professorID int) string {
	return fmt.Sprintf("/admin/professors/%d/assign-subscription", professorID)
}
