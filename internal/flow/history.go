package flow

import (
	"github.com/google/uuid"

	"github.com/sehyun-dev/maum-tui/internal/api"
	"github.com/sehyun-dev/maum-tui/internal/chart"
	"github.com/sehyun-dev/maum-tui/internal/session"
)

// Entry is one rendered history item. Expanded is presentation-only state and
// resets to collapsed on every load, since the list is rebuilt from scratch.
type Entry struct {
	RecordID   int64
	Date       string
	Score      float64
	Status     string
	Text       string
	Challenges []ChallengeLine
	Expanded   bool
}

// History fetches and renders the full record list for the active user. A
// load either replaces everything (entries, series) or nothing.
type History struct {
	sess    *session.Session
	busy    bool
	loaded  bool
	entries []Entry
	series  []chart.Point
}

func NewHistory(sess *session.Session) *History {
	return &History{sess: sess}
}

func (h *History) Busy() bool   { return h.busy }
func (h *History) Loaded() bool { return h.loaded }

// Entries returns the current list in server order.
func (h *History) Entries() []Entry { return h.entries }

// Series is the derived (label, score) sequence for the chart collaborator.
func (h *History) Series() []chart.Point { return h.series }

// Begin issues a load for the active user.
func (h *History) Begin() (uuid.UUID, error) {
	if !h.sess.LoggedIn() {
		return uuid.Nil, ErrNotLoggedIn
	}
	if h.busy {
		return uuid.Nil, ErrBusy
	}
	h.busy = true
	return h.sess.Begin(session.FlowHistory), nil
}

// Apply replaces the whole list and series: one entry per record, same order,
// all collapsed. An empty record list yields zero entries and zero points.
func (h *History) Apply(tok uuid.UUID, records []api.Record) bool {
	if !h.sess.Matches(session.FlowHistory, tok) {
		return false
	}
	h.busy = false
	h.loaded = true
	entries := make([]Entry, 0, len(records))
	series := make([]chart.Point, 0, len(records))
	for _, rec := range records {
		entries = append(entries, Entry{
			RecordID:   rec.ID,
			Date:       rec.Date,
			Score:      rec.Score,
			Status:     rec.Status,
			Text:       rec.Text,
			Challenges: Reconcile(rec),
		})
		series = append(series, chart.Point{Label: SeriesLabel(rec.Date), Score: rec.Score})
	}
	h.entries = entries
	h.series = series
	return true
}

// Fail leaves the previous list and series untouched.
func (h *History) Fail(tok uuid.UUID) bool {
	if !h.sess.Matches(session.FlowHistory, tok) {
		return false
	}
	h.busy = false
	return true
}

// Toggle flips one entry's collapse state.
func (h *History) Toggle(i int) {
	if i >= 0 && i < len(h.entries) {
		h.entries[i].Expanded = !h.entries[i].Expanded
	}
}

// Reset drops everything; used on logout.
func (h *History) Reset() {
	h.busy = false
	h.loaded = false
	h.entries = nil
	h.series = nil
	h.sess.Invalidate(session.FlowHistory)
}
