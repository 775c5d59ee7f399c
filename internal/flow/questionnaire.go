package flow

import (
	"errors"

	"github.com/google/uuid"

	"github.com/sehyun-dev/maum-tui/internal/api"
	"github.com/sehyun-dev/maum-tui/internal/session"
)

var (
	ErrNotAsking     = errors.New("questionnaire is not asking")
	ErrBadOption     = errors.New("option index out of range")
	ErrNotAnswerable = errors.New("all questions already answered")
	ErrNotComplete   = errors.New("answer list incomplete")
)

// QState is the questionnaire machine state.
type QState int

const (
	QIdle QState = iota
	QAsking
	QTerminated
)

// Questionnaire is a strict turn machine over a fixed, server-provided
// question set: Idle → Asking(0..n-1) → Terminated, restart re-entering via
// Start. Answering is the only way position advances; there is no going back.
type Questionnaire struct {
	sess      *session.Session
	state     QState
	questions []api.Question
	pos       int
	answers   []int
	busy      bool
	result    *api.ScreeningResult
}

func NewQuestionnaire(sess *session.Session) *Questionnaire {
	return &Questionnaire{sess: sess}
}

func (q *Questionnaire) State() QState                { return q.state }
func (q *Questionnaire) Busy() bool                   { return q.busy }
func (q *Questionnaire) Position() int                { return q.pos }
func (q *Questionnaire) Len() int                     { return len(q.questions) }
func (q *Questionnaire) Result() *api.ScreeningResult { return q.result }

// Answers returns a copy of the accumulator, in answer order.
func (q *Questionnaire) Answers() []int {
	out := make([]int, len(q.answers))
	copy(out, q.answers)
	return out
}

// Current is the question the machine is asking right now. The rendered
// option set must always come from here, never from an earlier render.
func (q *Questionnaire) Current() (api.Question, bool) {
	if q.state != QAsking || q.pos >= len(q.questions) {
		return api.Question{}, false
	}
	return q.questions[q.pos], true
}

// BeginStart issues a start (or restart) request. Minting a new generation
// token here is what makes a pending result from the previous run stale.
func (q *Questionnaire) BeginStart() (uuid.UUID, error) {
	if q.busy {
		return uuid.Nil, ErrBusy
	}
	q.busy = true
	return q.sess.Begin(session.FlowQuestionnaire), nil
}

// ApplyQuestions enters Asking(0) with an empty accumulator. Semantically
// identical whether this is the first start or a restart.
func (q *Questionnaire) ApplyQuestions(tok uuid.UUID, questions []api.Question) bool {
	if !q.sess.Matches(session.FlowQuestionnaire, tok) {
		return false
	}
	q.busy = false
	q.questions = questions
	q.pos = 0
	q.answers = q.answers[:0]
	q.result = nil
	if len(questions) == 0 {
		q.state = QIdle
		return true
	}
	q.state = QAsking
	return true
}

// FailStart returns to the state before the start attempt.
func (q *Questionnaire) FailStart(tok uuid.UUID) bool {
	if !q.sess.Matches(session.FlowQuestionnaire, tok) {
		return false
	}
	q.busy = false
	return true
}

// Answer appends the chosen option's score and advances. done reports that
// the accumulator now covers every question and must be submitted.
func (q *Questionnaire) Answer(optionIdx int) (done bool, err error) {
	if q.state != QAsking {
		return false, ErrNotAsking
	}
	if q.pos >= len(q.questions) {
		return false, ErrNotAnswerable
	}
	opts := q.questions[q.pos].Options
	if optionIdx < 0 || optionIdx >= len(opts) {
		return false, ErrBadOption
	}
	q.answers = append(q.answers, opts[optionIdx].Score)
	q.pos++
	return q.pos == len(q.questions), nil
}

// BeginSubmit issues the scoring request once every question is answered.
func (q *Questionnaire) BeginSubmit() (uuid.UUID, []int, error) {
	if q.state != QAsking {
		return uuid.Nil, nil, ErrNotAsking
	}
	if len(q.answers) != len(q.questions) {
		return uuid.Nil, nil, ErrNotComplete
	}
	if q.busy {
		return uuid.Nil, nil, ErrBusy
	}
	q.busy = true
	return q.sess.Begin(session.FlowQuestionnaire), q.Answers(), nil
}

// ApplyResult terminates the run. A result whose token predates a restart is
// dropped; the restarted run never sees the old score.
func (q *Questionnaire) ApplyResult(tok uuid.UUID, res *api.ScreeningResult) bool {
	if !q.sess.Matches(session.FlowQuestionnaire, tok) {
		return false
	}
	q.busy = false
	q.state = QTerminated
	q.result = res
	return true
}

// FailSubmit keeps the answered state so the user can retry submission.
func (q *Questionnaire) FailSubmit(tok uuid.UUID) bool {
	if !q.sess.Matches(session.FlowQuestionnaire, tok) {
		return false
	}
	q.busy = false
	return true
}

// Reset destroys the run entirely; used on logout.
func (q *Questionnaire) Reset() {
	q.state = QIdle
	q.questions = nil
	q.pos = 0
	q.answers = nil
	q.busy = false
	q.result = nil
	q.sess.Invalidate(session.FlowQuestionnaire)
}
