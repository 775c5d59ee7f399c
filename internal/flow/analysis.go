// Package flow implements the three cooperating interaction flows over one
// shared session: single-record analysis/feedback, multi-record history, and
// the turn-based questionnaire. Flows are plain state machines; network work
// happens outside and is fed back in through Apply/Fail calls carrying the
// generation token the flow issued, so stale responses are discarded instead
// of applied.
package flow

import (
	"errors"

	"github.com/google/uuid"

	"github.com/sehyun-dev/maum-tui/internal/api"
	"github.com/sehyun-dev/maum-tui/internal/session"
)

var (
	ErrNotLoggedIn      = errors.New("no active user")
	ErrBusy             = errors.New("request already in flight")
	ErrSignalRange      = errors.New("signal out of range")
	ErrNoActiveRecord   = errors.New("no active record")
	ErrUnknownChallenge = errors.New("challenge not in rendered list")
	ErrFeedbackGiven    = errors.New("feedback already given")
	ErrBadRating        = errors.New("rating must be +1 or -1")
)

// Slider bounds and home-entry defaults.
const (
	MoodMin, MoodMax         = 0, 10
	SleepMin, SleepMax       = 0, 12
	ActivityMin, ActivityMax = 0, 10

	DefaultMood     = 5
	DefaultSleep    = 6
	DefaultActivity = 5
)

// Signals are the three bounded integer inputs of one submission.
type Signals struct {
	Mood     int
	Sleep    int
	Activity int
}

func (s Signals) validate() error {
	if s.Mood < MoodMin || s.Mood > MoodMax ||
		s.Sleep < SleepMin || s.Sleep > SleepMax ||
		s.Activity < ActivityMin || s.Activity > ActivityMax {
		return ErrSignalRange
	}
	return nil
}

// FeedbackState is the per-challenge control state. Transitions are one-way:
// Open → Busy → Liked/Disliked; a failed submission reopens the controls.
type FeedbackState int

const (
	FeedbackOpen FeedbackState = iota
	FeedbackBusy
	FeedbackLiked
	FeedbackDisliked
)

// Rated reports whether the pair is permanently settled.
func (f FeedbackState) Rated() bool { return f == FeedbackLiked || f == FeedbackDisliked }

// feedbackFlow names the per-title token slot. Ratings for different titles
// are legitimately concurrent, so each pair gets its own generation; logout
// still orphans them all at once because the session drops every slot.
func feedbackFlow(title string) session.Flow {
	return session.FlowFeedback + session.Flow(":"+title)
}

// Analysis coordinates submission of one record and feedback against it.
type Analysis struct {
	sess     *session.Session
	busy     bool
	result   *api.AnalysisResult
	feedback map[string]FeedbackState
}

func NewAnalysis(sess *session.Session) *Analysis {
	return &Analysis{sess: sess, feedback: map[string]FeedbackState{}}
}

func (a *Analysis) Busy() bool                  { return a.busy }
func (a *Analysis) Result() *api.AnalysisResult { return a.result }

// FeedbackStateFor returns the control state for a rendered challenge title.
func (a *Analysis) FeedbackStateFor(title string) FeedbackState {
	return a.feedback[title]
}

// Begin validates the submission and issues a generation token for it. The
// explicit in-flight guard replaces reliance on event-queue serialization.
func (a *Analysis) Begin(sig Signals, text string) (uuid.UUID, error) {
	if !a.sess.LoggedIn() {
		return uuid.Nil, ErrNotLoggedIn
	}
	if a.busy {
		return uuid.Nil, ErrBusy
	}
	if err := sig.validate(); err != nil {
		return uuid.Nil, err
	}
	a.busy = true
	return a.sess.Begin(session.FlowAnalysis), nil
}

// Apply installs a successful result: the returned record becomes the
// session's active record and every challenge gets open feedback controls.
// Returns false (no mutation beyond clearing busy) for stale tokens.
func (a *Analysis) Apply(tok uuid.UUID, res *api.AnalysisResult) bool {
	if !a.sess.Matches(session.FlowAnalysis, tok) {
		return false
	}
	a.busy = false
	a.result = res
	a.sess.SetActiveRecordID(res.RecordID)
	for title := range a.feedback {
		a.sess.Invalidate(feedbackFlow(title))
	}
	a.feedback = make(map[string]FeedbackState, len(res.Challenges))
	for _, c := range res.Challenges {
		a.feedback[c.Title] = FeedbackOpen
	}
	return true
}

// Fail clears the in-flight guard and leaves prior view state untouched.
func (a *Analysis) Fail(tok uuid.UUID) bool {
	if !a.sess.Matches(session.FlowAnalysis, tok) {
		return false
	}
	a.busy = false
	return true
}

// BeginFeedback guards one rating submission. It returns the token and the
// record id the rating must target. Preconditions fail fast without issuing
// a request: missing user/record, unknown title, settled pair, bad rating.
func (a *Analysis) BeginFeedback(title string, rating int) (uuid.UUID, int64, error) {
	if !a.sess.LoggedIn() {
		return uuid.Nil, 0, ErrNotLoggedIn
	}
	if a.sess.ActiveRecordID() == 0 || a.result == nil {
		return uuid.Nil, 0, ErrNoActiveRecord
	}
	if rating != 1 && rating != -1 {
		return uuid.Nil, 0, ErrBadRating
	}
	st, ok := a.feedback[title]
	if !ok {
		return uuid.Nil, 0, ErrUnknownChallenge
	}
	if st == FeedbackBusy {
		return uuid.Nil, 0, ErrBusy
	}
	if st.Rated() {
		return uuid.Nil, 0, ErrFeedbackGiven
	}
	a.feedback[title] = FeedbackBusy
	return a.sess.Begin(feedbackFlow(title)), a.sess.ActiveRecordID(), nil
}

// ApplyFeedback settles the pair permanently. The transition is one-way; the
// controls for this title never reopen within the session.
func (a *Analysis) ApplyFeedback(tok uuid.UUID, title string, rating int) bool {
	if !a.sess.Matches(feedbackFlow(title), tok) {
		return false
	}
	if rating == 1 {
		a.feedback[title] = FeedbackLiked
	} else {
		a.feedback[title] = FeedbackDisliked
	}
	return true
}

// FailFeedback reopens the controls without recording anything.
func (a *Analysis) FailFeedback(tok uuid.UUID, title string) bool {
	if !a.sess.Matches(feedbackFlow(title), tok) {
		return false
	}
	if a.feedback[title] == FeedbackBusy {
		a.feedback[title] = FeedbackOpen
	}
	return true
}

// Reset implements the home-tab entry policy: result gone, feedback controls
// gone, active record cleared, pending exchanges orphaned. Home is always a
// fresh-entry form, never resumable.
func (a *Analysis) Reset() {
	a.busy = false
	for title := range a.feedback {
		a.sess.Invalidate(feedbackFlow(title))
	}
	a.result = nil
	a.feedback = map[string]FeedbackState{}
	a.sess.ClearActiveRecord()
	a.sess.Invalidate(session.FlowAnalysis)
}
