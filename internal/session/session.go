// Package session holds the page-lifetime mutable state shared by the flows:
// the active user, the active analysis record, and one request-generation
// token per flow so late responses can be told apart from current ones.
package session

import "github.com/google/uuid"

// Flow names a token slot. Each flow's in-flight exchange owns exactly one
// current generation; minting a new one invalidates whatever is pending.
type Flow string

const (
	FlowAnalysis Flow = "analysis"
	// FlowFeedback is a prefix: ratings run one slot per challenge title,
	// since submissions for different titles may overlap in flight.
	FlowFeedback      Flow = "feedback"
	FlowHistory       Flow = "history"
	FlowQuestionnaire Flow = "questionnaire"
)

// Session is owned by the top-level controller and injected into each flow.
type Session struct {
	user           string
	activeRecordID int64
	gens           map[Flow]uuid.UUID
}

func New() *Session {
	return &Session{gens: make(map[Flow]uuid.UUID)}
}

func (s *Session) LoggedIn() bool { return s.user != "" }
func (s *Session) User() string   { return s.user }

// Login sets the active user. Any prior per-flow state is stale by definition.
func (s *Session) Login(user string) {
	s.user = user
	s.activeRecordID = 0
	s.gens = make(map[Flow]uuid.UUID)
}

// Logout clears everything, including pending generations, so in-flight
// responses from the old session can never apply.
func (s *Session) Logout() {
	s.user = ""
	s.activeRecordID = 0
	s.gens = make(map[Flow]uuid.UUID)
}

// ActiveRecordID is the sole valid feedback target; zero means none.
func (s *Session) ActiveRecordID() int64      { return s.activeRecordID }
func (s *Session) SetActiveRecordID(id int64) { s.activeRecordID = id }
func (s *Session) ClearActiveRecord()         { s.activeRecordID = 0 }

// Begin mints a fresh generation token for flow, invalidating the previous one.
func (s *Session) Begin(flow Flow) uuid.UUID {
	tok := uuid.New()
	s.gens[flow] = tok
	return tok
}

// Matches reports whether tok is still the current generation for flow.
func (s *Session) Matches(flow Flow, tok uuid.UUID) bool {
	cur, ok := s.gens[flow]
	return ok && cur == tok
}

// Invalidate drops the current generation for flow; a pending response with
// the old token will no longer match.
func (s *Session) Invalidate(flow Flow) {
	delete(s.gens, flow)
}
