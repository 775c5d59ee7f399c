package flow

import (
	"errors"
	"testing"

	"github.com/sehyun-dev/maum-tui/internal/api"
	"github.com/sehyun-dev/maum-tui/internal/session"
)

func loggedIn(t *testing.T) *session.Session {
	t.Helper()
	s := session.New()
	s.Login("alice")
	return s
}

func sampleResult() *api.AnalysisResult {
	return &api.AnalysisResult{
		RecordID:      42,
		Score:         6.5,
		EmotionStatus: "보통",
		TextEmotion:   "Neutral",
		Challenges: []api.Challenge{
			{Title: "Walk", Type: "activity", URL: "#"},
			{Title: "Meditate", Type: "유튜브", URL: "https://example.com"},
		},
	}
}

func TestAnalysisBeginRequiresLogin(t *testing.T) {
	a := NewAnalysis(session.New())
	if _, err := a.Begin(Signals{Mood: 5, Sleep: 6, Activity: 5}, ""); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("want ErrNotLoggedIn, got %v", err)
	}
}

func TestAnalysisSignalBounds(t *testing.T) {
	a := NewAnalysis(loggedIn(t))
	bad := []Signals{
		{Mood: -1, Sleep: 6, Activity: 5},
		{Mood: 11, Sleep: 6, Activity: 5},
		{Mood: 5, Sleep: 13, Activity: 5},
		{Mood: 5, Sleep: 6, Activity: -2},
	}
	for _, sig := range bad {
		if _, err := a.Begin(sig, ""); !errors.Is(err, ErrSignalRange) {
			t.Fatalf("signals %+v: want ErrSignalRange, got %v", sig, err)
		}
	}
	if _, err := a.Begin(Signals{Mood: 0, Sleep: 12, Activity: 10}, "text"); err != nil {
		t.Fatalf("boundary signals rejected: %v", err)
	}
}

func TestAnalysisApplySetsActiveRecord(t *testing.T) {
	sess := loggedIn(t)
	a := NewAnalysis(sess)
	tok, err := a.Begin(Signals{Mood: 7, Sleep: 6, Activity: 4}, "ok")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Apply(tok, sampleResult()) {
		t.Fatal("Apply rejected current token")
	}
	if sess.ActiveRecordID() != 42 {
		t.Fatalf("active record = %d, want 42", sess.ActiveRecordID())
	}
	if a.Busy() {
		t.Fatal("busy after apply")
	}
	for _, title := range []string{"Walk", "Meditate"} {
		if st := a.FeedbackStateFor(title); st != FeedbackOpen {
			t.Fatalf("%s: state %v, want open", title, st)
		}
	}
}

func TestAnalysisInFlightGuard(t *testing.T) {
	a := NewAnalysis(loggedIn(t))
	if _, err := a.Begin(Signals{Mood: 5, Sleep: 6, Activity: 5}, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Begin(Signals{Mood: 5, Sleep: 6, Activity: 5}, ""); !errors.Is(err, ErrBusy) {
		t.Fatalf("want ErrBusy, got %v", err)
	}
}

func TestAnalysisStaleTokenDiscarded(t *testing.T) {
	sess := loggedIn(t)
	a := NewAnalysis(sess)
	tok, _ := a.Begin(Signals{Mood: 5, Sleep: 6, Activity: 5}, "")
	a.Reset() // user re-entered home before the response arrived
	if a.Apply(tok, sampleResult()) {
		t.Fatal("stale token applied")
	}
	if a.Result() != nil {
		t.Fatal("stale result installed")
	}
	if sess.ActiveRecordID() != 0 {
		t.Fatal("stale response set active record")
	}
}

func TestAnalysisFailLeavesPriorState(t *testing.T) {
	a := NewAnalysis(loggedIn(t))
	tok, _ := a.Begin(Signals{Mood: 7, Sleep: 6, Activity: 4}, "ok")
	a.Apply(tok, sampleResult())

	tok2, err := a.Begin(Signals{Mood: 2, Sleep: 4, Activity: 2}, "bad day")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Fail(tok2) {
		t.Fatal("Fail rejected current token")
	}
	if a.Result() == nil || a.Result().RecordID != 42 {
		t.Fatal("failure disturbed prior result")
	}
}

func TestFeedbackLifecycle(t *testing.T) {
	sess := loggedIn(t)
	a := NewAnalysis(sess)
	tok, _ := a.Begin(Signals{Mood: 7, Sleep: 6, Activity: 4}, "ok")
	a.Apply(tok, sampleResult())

	ftok, recordID, err := a.BeginFeedback("Walk", 1)
	if err != nil {
		t.Fatal(err)
	}
	if recordID != 42 {
		t.Fatalf("feedback targets record %d, want 42", recordID)
	}
	if _, _, err := a.BeginFeedback("Walk", -1); !errors.Is(err, ErrBusy) {
		t.Fatalf("re-entrant feedback: want ErrBusy, got %v", err)
	}
	if !a.ApplyFeedback(ftok, "Walk", 1) {
		t.Fatal("ApplyFeedback rejected current token")
	}
	if st := a.FeedbackStateFor("Walk"); st != FeedbackLiked {
		t.Fatalf("state %v, want liked", st)
	}
	// Settled pairs are permanent within the session.
	if _, _, err := a.BeginFeedback("Walk", -1); !errors.Is(err, ErrFeedbackGiven) {
		t.Fatalf("want ErrFeedbackGiven, got %v", err)
	}
	// The sibling challenge remains open.
	if st := a.FeedbackStateFor("Meditate"); st != FeedbackOpen {
		t.Fatalf("sibling state %v, want open", st)
	}
}

func TestFeedbackConcurrentTitles(t *testing.T) {
	a := NewAnalysis(loggedIn(t))
	tok, _ := a.Begin(Signals{Mood: 7, Sleep: 6, Activity: 4}, "ok")
	a.Apply(tok, sampleResult())

	walkTok, _, err := a.BeginFeedback("Walk", 1)
	if err != nil {
		t.Fatal(err)
	}
	medTok, _, err := a.BeginFeedback("Meditate", 1)
	if err != nil {
		t.Fatalf("second title refused while first is in flight: %v", err)
	}
	// The first response arrives after the second request was issued; each
	// pair settles independently.
	if !a.ApplyFeedback(walkTok, "Walk", 1) {
		t.Fatal("Walk response discarded")
	}
	if st := a.FeedbackStateFor("Walk"); st != FeedbackLiked {
		t.Fatalf("Walk state %v, want liked", st)
	}
	if st := a.FeedbackStateFor("Meditate"); st != FeedbackBusy {
		t.Fatalf("Meditate state %v, want busy", st)
	}
	if !a.ApplyFeedback(medTok, "Meditate", 1) {
		t.Fatal("Meditate response discarded")
	}
	if st := a.FeedbackStateFor("Meditate"); st != FeedbackLiked {
		t.Fatalf("Meditate state %v, want liked", st)
	}
}

func TestFeedbackStaleAfterReset(t *testing.T) {
	a := NewAnalysis(loggedIn(t))
	tok, _ := a.Begin(Signals{Mood: 7, Sleep: 6, Activity: 4}, "ok")
	a.Apply(tok, sampleResult())
	ftok, _, _ := a.BeginFeedback("Walk", 1)
	a.Reset()
	if a.ApplyFeedback(ftok, "Walk", 1) {
		t.Fatal("feedback response from before reset applied")
	}
	if st := a.FeedbackStateFor("Walk"); st != FeedbackOpen {
		t.Fatalf("state %v after reset, want open", st)
	}
}

func TestFeedbackPreconditions(t *testing.T) {
	sess := loggedIn(t)
	a := NewAnalysis(sess)
	if _, _, err := a.BeginFeedback("Walk", 1); !errors.Is(err, ErrNoActiveRecord) {
		t.Fatalf("want ErrNoActiveRecord, got %v", err)
	}
	tok, _ := a.Begin(Signals{Mood: 7, Sleep: 6, Activity: 4}, "ok")
	a.Apply(tok, sampleResult())
	if _, _, err := a.BeginFeedback("Nope", 1); !errors.Is(err, ErrUnknownChallenge) {
		t.Fatalf("want ErrUnknownChallenge, got %v", err)
	}
	if _, _, err := a.BeginFeedback("Walk", 2); !errors.Is(err, ErrBadRating) {
		t.Fatalf("want ErrBadRating, got %v", err)
	}
}

func TestFeedbackFailureReopensControls(t *testing.T) {
	a := NewAnalysis(loggedIn(t))
	tok, _ := a.Begin(Signals{Mood: 7, Sleep: 6, Activity: 4}, "ok")
	a.Apply(tok, sampleResult())

	ftok, _, _ := a.BeginFeedback("Walk", 1)
	if !a.FailFeedback(ftok, "Walk") {
		t.Fatal("FailFeedback rejected current token")
	}
	if st := a.FeedbackStateFor("Walk"); st != FeedbackOpen {
		t.Fatalf("state %v, want reopened", st)
	}
}

func TestResetClearsActiveRecord(t *testing.T) {
	sess := loggedIn(t)
	a := NewAnalysis(sess)
	tok, _ := a.Begin(Signals{Mood: 7, Sleep: 6, Activity: 4}, "ok")
	a.Apply(tok, sampleResult())
	a.Reset()
	if a.Result() != nil || sess.ActiveRecordID() != 0 {
		t.Fatal("reset did not clear result and active record")
	}
}
