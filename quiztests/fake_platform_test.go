package quiztests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

const (
	fakeAdminUsername = "admin"
	fakeAdminPassword = "admin-secret"
)

// fakePlatform is an in-memory quiz platform that behaves correctly unless one of its knobs is
// set. It is served under /api like the real one.
type fakePlatform struct {
	lock   sync.Mutex
	nextID int

	users          map[string]*fakeUser
	tokens         map[string]*fakeUser
	quizzes        map[int]*fakeQuiz
	questions      map[int]*fakeQuestion
	participations []*fakeParticipation
	guests         map[int]*fakeGuest
	subscriptions  map[int]*fakeSubscription
	assignments    map[int]int
	requestIDs     []string

	// failures forces a status for an exact "METHOD /path" (without the /api prefix).
	failures      map[string]int
	fixedScore    *float64
	ignoreDeletes bool
	ignoreUpdates bool
	omitCodes     bool

	// sharedToken, if set, is issued to every login.
	sharedToken              string
	strayParticipation       bool
	keepDeletedSubscriptions bool
	renameGuestsOnRead       bool
	dropCorrectFlags         bool
}

type fakeUser struct {
	id        int
	username  string
	password  string
	email     string
	role      Role
	firstName string
	lastName  string
}

type fakeQuiz struct {
	id          int
	ownerID     int
	code        string
	title       string
	description string
	duration    int
	questions   []*fakeQuestion
}

type fakeQuestion struct {
	id        int
	quizID    int
	text      string
	responses []*fakeResponse
}

type fakeResponse struct {
	id      int
	text    string
	correct bool
}

type fakeParticipation struct {
	id        int
	quizID    int
	userID    int
	guestID   int
	score     float64
	submitted bool
}

type fakeGuest struct {
	id     int
	pseudo string
	email  string
}

type fakeSubscription struct {
	id           int
	name         string
	price        float64
	durationDays int
}

type jsonObject = map[string]interface{}

func newFakePlatform() *fakePlatform {
	p := &fakePlatform{
		users:         make(map[string]*fakeUser),
		tokens:        make(map[string]*fakeUser),
		quizzes:       make(map[int]*fakeQuiz),
		questions:     make(map[int]*fakeQuestion),
		guests:        make(map[int]*fakeGuest),
		subscriptions: make(map[int]*fakeSubscription),
		assignments:   make(map[int]int),
		failures:      make(map[string]int),
	}
	p.users[fakeAdminUsername] = &fakeUser{
		id:       p.newID(),
		username: fakeAdminUsername,
		password: fakeAdminPassword,
		role:     RoleAdmin,
	}
	return p
}

func (p *fakePlatform) newID() int {
	p.nextID++
	return p.nextID
}

func (p *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.requestIDs = append(p.requestIDs, r.Header.Get("X-Request-ID"))
	path := strings.TrimPrefix(r.URL.Path, "/api")
	if status, ok := p.failures[r.Method+" "+path]; ok {
		writeJSON(w, status, jsonObject{"error": "forced failure"})
		return
	}
	caller := p.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]

	var body jsonObject
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	route := func(method, pattern string) ([]string, bool) {
		if r.Method != method {
			return nil, false
		}
		return matchPath(path, pattern)
	}

	if _, ok := route("GET", "/test/health"); ok {
		writeJSON(w, 200, jsonObject{"status": "UP"})
		return
	}
	if _, ok := route("GET", "/test/hello"); ok {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("Hello"))
		return
	}
	if params, ok := route("POST", "/auth/register/*"); ok {
		p.register(w, Role(strings.TrimSuffix(params[0], "s")), body)
		return
	}
	if _, ok := route("POST", "/auth/login"); ok {
		p.login(w, body)
		return
	}
	if _, ok := route("GET", "/auth/me"); ok {
		if !requireRole(w, caller, "") {
			return
		}
		writeJSON(w, 200, jsonObject{"id": caller.id, "username": caller.username, "email": caller.email,
			"role": string(caller.role)})
		return
	}

	if p.serveQuiz(w, route, caller, body) {
		return
	}
	if p.serveAdmin(w, route, caller, body) {
		return
	}
	writeJSON(w, 404, jsonObject{"error": "no route for " + r.Method + " " + path})
}

func (p *fakePlatform) register(w http.ResponseWriter, role Role, body jsonObject) {
	if role != RoleProfessor && role != RoleStudent {
		writeJSON(w, 404, jsonObject{"error": "unknown role"})
		return
	}
	username := stringField(body, "username")
	if username == "" || p.users[username] != nil {
		writeJSON(w, 400, jsonObject{"error": "username missing or taken"})
		return
	}
	u := &fakeUser{
		id:        p.newID(),
		username:  username,
		password:  stringField(body, "password"),
		email:     stringField(body, "email"),
		role:      role,
		firstName: stringField(body, "first_name"),
		lastName:  stringField(body, "last_name"),
	}
	p.users[username] = u
	writeJSON(w, 201, jsonObject{"message": "User registered successfully", "userId": u.id})
}

func (p *fakePlatform) login(w http.ResponseWriter, body jsonObject) {
	u := p.users[stringField(body, "username")]
	if u == nil || u.password != stringField(body, "password") {
		writeJSON(w, 401, jsonObject{"error": "Invalid credentials"})
		return
	}
	token := fmt.Sprintf("token-%s-%d-%d", u.role, u.id, p.newID())
	if p.sharedToken != "" {
		token = p.sharedToken
	}
	p.tokens[token] = u
	writeJSON(w, 200, jsonObject{"token": token})
}

func (p *fakePlatform) serveQuiz(
	w http.ResponseWriter,
	route func(method, pattern string) ([]string, bool),
	caller *fakeUser,
	body jsonObject,
) bool {
	if _, ok := route("POST", "/quiz/create"); ok {
		if requireRole(w, caller, RoleProfessor) {
			q := &fakeQuiz{
				id:          p.newID(),
				ownerID:     caller.id,
				title:       stringField(body, "title"),
				description: stringField(body, "description"),
				duration:    int(numberField(body, "duration")),
			}
			q.code = fmt.Sprintf("QZ%04d", q.id)
			p.quizzes[q.id] = q
			out := q.detail()
			if p.omitCodes {
				delete(out, "code")
			}
			writeJSON(w, 201, out)
		}
		return true
	}
	if _, ok := route("GET", "/quiz/my-quizzes"); ok {
		if requireRole(w, caller, RoleProfessor) {
			list := []jsonObject{}
			for _, q := range p.sortedQuizzes() {
				if q.ownerID == caller.id {
					list = append(list, q.summary())
				}
			}
			writeJSON(w, 200, list)
		}
		return true
	}
	if _, ok := route("GET", "/quiz/my-participations"); ok {
		if requireRole(w, caller, RoleStudent) {
			list := []jsonObject{}
			for _, part := range p.participations {
				if part.userID == caller.id {
					list = append(list, p.participationJSON(part))
				}
			}
			writeJSON(w, 200, list)
		}
		return true
	}
	if _, ok := route("POST", "/quiz/guest/create"); ok {
		g := &fakeGuest{id: p.newID(), pseudo: stringField(body, "pseudo"), email: stringField(body, "email")}
		p.guests[g.id] = g
		writeJSON(w, 201, g.json())
		return true
	}
	if params, ok := route("GET", "/quiz/guest/*"); ok {
		if g := p.guests[atoi(params[0])]; g != nil {
			out := g.json()
			if p.renameGuestsOnRead {
				out["pseudo"] = g.pseudo + "_renamed"
			}
			writeJSON(w, 200, out)
		} else {
			writeJSON(w, 404, jsonObject{"error": "Guest not found"})
		}
		return true
	}
	if params, ok := route("GET", "/quiz/join/*"); ok {
		if q := p.quizByCode(params[0]); q != nil {
			writeJSON(w, 200, q.summary())
		} else {
			writeJSON(w, 404, jsonObject{"error": "Quiz not found"})
		}
		return true
	}
	if params, ok := route("POST", "/quiz/join/*"); ok {
		if !requireRole(w, caller, RoleStudent) {
			return true
		}
		q := p.quizByCode(params[0])
		if q == nil {
			writeJSON(w, 404, jsonObject{"error": "Quiz not found"})
			return true
		}
		part := &fakeParticipation{id: p.newID(), quizID: q.id, userID: caller.id}
		p.participations = append(p.participations, part)
		writeJSON(w, 201, p.participationJSON(part))
		return true
	}
	if params, ok := route("POST", "/quiz/questions/*/responses"); ok {
		question := p.questions[atoi(params[0])]
		if question == nil {
			writeJSON(w, 404, jsonObject{"error": "Question not found"})
			return true
		}
		if !p.requireOwner(w, caller, p.quizzes[question.quizID]) {
			return true
		}
		resp := &fakeResponse{id: p.newID(), text: stringField(body, "responseText"),
			correct: body["isCorrect"] == true && !p.dropCorrectFlags}
		question.responses = append(question.responses, resp)
		writeJSON(w, 201, resp.json())
		return true
	}
	if params, ok := route("POST", "/quiz/*/questions"); ok {
		q := p.quizzes[atoi(params[0])]
		if !p.requireOwner(w, caller, q) {
			return true
		}
		question := &fakeQuestion{id: p.newID(), quizID: q.id, text: stringField(body, "questionText")}
		q.questions = append(q.questions, question)
		p.questions[question.id] = question
		writeJSON(w, 201, jsonObject{"id": question.id, "quizId": q.id, "questionText": question.text})
		return true
	}
	if params, ok := route("GET", "/quiz/*/participations"); ok {
		q := p.quizzes[atoi(params[0])]
		if !p.requireOwner(w, caller, q) {
			return true
		}
		list := []jsonObject{}
		for _, part := range p.participations {
			if part.quizID == q.id {
				list = append(list, p.participationJSON(part))
			}
		}
		if p.strayParticipation {
			list = append(list, jsonObject{"id": 0, "userId": 0})
		}
		writeJSON(w, 200, list)
		return true
	}
	if params, ok := route("POST", "/quiz/*/submit"); ok {
		p.submit(w, p.quizzes[atoi(params[0])], caller, body)
		return true
	}
	if params, ok := route("GET", "/quiz/*"); ok {
		if q := p.quizzes[atoi(params[0])]; q != nil {
			writeJSON(w, 200, q.detail())
		} else {
			writeJSON(w, 404, jsonObject{"error": "Quiz not found"})
		}
		return true
	}
	if params, ok := route("PUT", "/quiz/*"); ok {
		q := p.quizzes[atoi(params[0])]
		if p.requireOwner(w, caller, q) {
			if !p.ignoreUpdates {
				q.title = stringField(body, "title")
				q.description = stringField(body, "description")
				q.duration = int(numberField(body, "duration"))
			}
			writeJSON(w, 200, q.detail())
		}
		return true
	}
	if params, ok := route("DELETE", "/quiz/*"); ok {
		q := p.quizzes[atoi(params[0])]
		if p.requireOwner(w, caller, q) {
			if !p.ignoreDeletes {
				delete(p.quizzes, q.id)
			}
			writeJSON(w, 200, jsonObject{"message": "Quiz deleted successfully"})
		}
		return true
	}
	return false
}

func (p *fakePlatform) submit(w http.ResponseWriter, q *fakeQuiz, caller *fakeUser, body jsonObject) {
	if q == nil {
		writeJSON(w, 404, jsonObject{"error": "Quiz not found"})
		return
	}
	selected := make(map[int]bool)
	if ids, ok := body["selectedResponseIds"].([]interface{}); ok {
		for _, id := range ids {
			if n, ok := id.(float64); ok {
				selected[int(n)] = true
			}
		}
	}
	score := 0.0
	if len(q.questions) != 0 {
		right := 0
		for _, question := range q.questions {
			for _, resp := range question.responses {
				if resp.correct && selected[resp.id] {
					right++
					break
				}
			}
		}
		score = 100 * float64(right) / float64(len(q.questions))
	}
	if p.fixedScore != nil {
		score = *p.fixedScore
	}

	var part *fakeParticipation
	switch {
	case caller != nil:
		for _, existing := range p.participations {
			if existing.quizID == q.id && existing.userID == caller.id && !existing.submitted {
				part = existing
				break
			}
		}
		if part == nil {
			part = &fakeParticipation{id: p.newID(), quizID: q.id, userID: caller.id}
			p.participations = append(p.participations, part)
		}
	default:
		guestID := int(numberField(body, "guestId"))
		if p.guests[guestID] == nil {
			writeJSON(w, 401, jsonObject{"error": "Authentication or guest id required"})
			return
		}
		part = &fakeParticipation{id: p.newID(), quizID: q.id, guestID: guestID}
		p.participations = append(p.participations, part)
	}
	part.score = score
	part.submitted = true
	writeJSON(w, 200, p.participationJSON(part))
}

func (p *fakePlatform) serveAdmin(
	w http.ResponseWriter,
	route func(method, pattern string) ([]string, bool),
	caller *fakeUser,
	body jsonObject,
) bool {
	if _, ok := matchAny(route, "/admin/*", "/admin/*/*", "/admin/*/*/*"); !ok {
		return false
	}
	if !requireRole(w, caller, RoleAdmin) {
		return true
	}
	if params, ok := route("GET", "/admin/users/*"); ok {
		list := []jsonObject{}
		switch params[0] {
		case "guests":
			for _, g := range p.guests {
				list = append(list, g.json())
			}
		case "professors":
			for _, u := range p.usersWithRole(RoleProfessor) {
				list = append(list, jsonObject{"userId": u.id, "firstName": u.firstName, "lastName": u.lastName})
			}
		case "students":
			for _, u := range p.usersWithRole(RoleStudent) {
				list = append(list, jsonObject{"id": u.id, "username": u.username})
			}
		case "admins":
			for _, u := range p.usersWithRole(RoleAdmin) {
				list = append(list, jsonObject{"id": u.id, "username": u.username})
			}
		default:
			writeJSON(w, 404, jsonObject{"error": "unknown category"})
			return true
		}
		writeJSON(w, 200, list)
		return true
	}
	if _, ok := route("GET", "/admin/quizzes"); ok {
		list := []jsonObject{}
		for _, q := range p.sortedQuizzes() {
			list = append(list, q.summary())
		}
		writeJSON(w, 200, list)
		return true
	}
	if _, ok := route("POST", "/admin/subscriptions"); ok {
		s := &fakeSubscription{id: p.newID()}
		s.update(body, "duration_days")
		p.subscriptions[s.id] = s
		writeJSON(w, 201, s.json())
		return true
	}
	if _, ok := route("GET", "/admin/subscriptions"); ok {
		list := []jsonObject{}
		for id := 1; id <= p.nextID; id++ {
			if s := p.subscriptions[id]; s != nil {
				list = append(list, s.json())
			}
		}
		writeJSON(w, 200, list)
		return true
	}
	if params, ok := route("PUT", "/admin/subscriptions/*"); ok {
		if s := p.subscriptions[atoi(params[0])]; s != nil {
			s.update(body, "durationDays")
			writeJSON(w, 200, jsonObject{"message": "Subscription updated successfully"})
		} else {
			writeJSON(w, 404, jsonObject{"error": "Subscription not found"})
		}
		return true
	}
	if params, ok := route("DELETE", "/admin/subscriptions/*"); ok {
		id := atoi(params[0])
		if p.subscriptions[id] == nil {
			writeJSON(w, 404, jsonObject{"error": "Subscription not found"})
			return true
		}
		if !p.keepDeletedSubscriptions {
			delete(p.subscriptions, id)
		}
		writeJSON(w, 200, jsonObject{"message": "Subscription deleted successfully"})
		return true
	}
	if params, ok := route("POST", "/admin/professors/*/assign-subscription"); ok {
		professorID := atoi(params[0])
		subscriptionID := int(numberField(body, "subscriptionId"))
		if p.subscriptions[subscriptionID] == nil || !p.isProfessor(professorID) {
			writeJSON(w, 404, jsonObject{"error": "Professor or subscription not found"})
			return true
		}
		p.assignments[professorID] = subscriptionID
		writeJSON(w, 200, jsonObject{"message": "Subscription assigned"})
		return true
	}
	writeJSON(w, 404, jsonObject{"error": "no admin route"})
	return true
}

func (p *fakePlatform) requireOwner(w http.ResponseWriter, caller *fakeUser, q *fakeQuiz) bool {
	if !requireRole(w, caller, RoleProfessor) {
		return false
	}
	if q == nil {
		writeJSON(w, 404, jsonObject{"error": "Quiz not found"})
		return false
	}
	if q.ownerID != caller.id {
		writeJSON(w, 403, jsonObject{"error": "Not the owner of this quiz"})
		return false
	}
	return true
}

func requireRole(w http.ResponseWriter, caller *fakeUser, role Role) bool {
	if caller == nil {
		writeJSON(w, 401, jsonObject{"error": "Authentication required"})
		return false
	}
	if role != "" && caller.role != role {
		writeJSON(w, 403, jsonObject{"error": "Forbidden"})
		return false
	}
	return true
}

func (p *fakePlatform) quizByCode(code string) *fakeQuiz {
	for _, q := range p.quizzes {
		if q.code == code {
			return q
		}
	}
	return nil
}

func (p *fakePlatform) sortedQuizzes() []*fakeQuiz {
	var ret []*fakeQuiz
	for id := 1; id <= p.nextID; id++ {
		if q := p.quizzes[id]; q != nil {
			ret = append(ret, q)
		}
	}
	return ret
}

func (p *fakePlatform) usersWithRole(role Role) []*fakeUser {
	var ret []*fakeUser
	for id := 1; id <= p.nextID; id++ {
		for _, u := range p.users {
			if u.id == id && u.role == role {
				ret = append(ret, u)
			}
		}
	}
	return ret
}

func (p *fakePlatform) isProfessor(id int) bool {
	for _, u := range p.users {
		if u.id == id && u.role == RoleProfessor {
			return true
		}
	}
	return false
}

func (p *fakePlatform) participationJSON(part *fakeParticipation) jsonObject {
	out := jsonObject{"id": part.id}
	if part.submitted {
		out["score"] = part.score
	}
	if part.userID != 0 {
		out["userId"] = part.userID
	}
	if part.guestID != 0 {
		out["guestId"] = part.guestID
	}
	if q := p.quizzes[part.quizID]; q != nil {
		out["quiz"] = jsonObject{"id": q.id, "title": q.title, "code": q.code}
	}
	return out
}

// Accessors for assertions; they take the lock because the server goroutine may still be
// finishing a response.

func (p *fakePlatform) submittedScores() []float64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	var scores []float64
	for _, part := range p.participations {
		if part.submitted && part.userID != 0 {
			scores = append(scores, part.score)
		}
	}
	return scores
}

func (p *fakePlatform) guestSubmissions() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	n := 0
	for _, part := range p.participations {
		if part.submitted && part.guestID != 0 {
			n++
		}
	}
	return n
}

func (p *fakePlatform) quizCount() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.quizzes)
}

func (p *fakePlatform) subscriptionCount() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.subscriptions)
}

func (p *fakePlatform) subscriptionIDs() []int {
	p.lock.Lock()
	defer p.lock.Unlock()
	var ids []int
	for id := 1; id <= p.nextID; id++ {
		if p.subscriptions[id] != nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func (p *fakePlatform) assignmentCount() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.assignments)
}

func (q *fakeQuiz) summary() jsonObject {
	return jsonObject{"id": q.id, "code": q.code, "title": q.title, "description": q.description,
		"duration": q.duration}
}

func (q *fakeQuiz) detail() jsonObject {
	out := q.summary()
	questions := []jsonObject{}
	for _, question := range q.questions {
		responses := []jsonObject{}
		for _, resp := range question.responses {
			responses = append(responses, resp.json())
		}
		questions = append(questions, jsonObject{"id": question.id, "quizId": q.id,
			"questionText": question.text, "responses": responses})
	}
	out["questions"] = questions
	return out
}

func (r *fakeResponse) json() jsonObject {
	return jsonObject{"id": r.id, "response_text": r.text, "isCorrect": r.correct}
}

func (g *fakeGuest) json() jsonObject {
	return jsonObject{"id": g.id, "pseudo": g.pseudo, "email": g.email}
}

// update reads the duration from durationKey only, so a body using the other endpoint's key
// leaves it at zero the way the real platform leaves it null.
func (s *fakeSubscription) update(body jsonObject, durationKey string) {
	s.name = stringField(body, "name")
	s.price = numberField(body, "price")
	s.durationDays = int(numberField(body, durationKey))
}

func (s *fakeSubscription) json() jsonObject {
	return jsonObject{"id": s.id, "name": s.name, "price": s.price, "durationDays": s.durationDays}
}

// matchPath matches a path against a pattern in which "*" stands for exactly one segment, and
// returns the segments matched by each "*".
func matchPath(path, pattern string) ([]string, bool) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	parts := strings.Split(strings.Trim(pattern, "/"), "/")
	if len(segments) != len(parts) {
		return nil, false
	}
	var params []string
	for i, part := range parts {
		switch {
		case part == "*":
			params = append(params, segments[i])
		case part != segments[i]:
			return nil, false
		}
	}
	return params, true
}

func matchAny(route func(method, pattern string) ([]string, bool), patterns ...string) ([]string, bool) {
	for _, method := range []string{"GET", "POST", "PUT", "DELETE"} {
		for _, pattern := range patterns {
			if params, ok := route(method, pattern); ok {
				return params, true
			}
		}
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	data, _ := json.Marshal(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func stringField(body jsonObject, name string) string {
	s, _ := body[name].(string)
	return s
}

func numberField(body jsonObject, name string) float64 {
	n, _ := body[name].(float64)
	return n
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
