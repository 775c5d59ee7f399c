package api

import "testing"

func TestChallengesFailClosed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"absent", "", 0},
		{"malformed", "{not json", 0},
		{"wrong shape", `{"title":"x"}`, 0},
		{"valid", `[{"title":"걷기","type":"활동","url":"#"},{"title":"명상","type":"유튜브","url":"https://example.com"}]`, 2},
	}
	for _, tc := range cases {
		rec := Record{RecommendedChallengesJSON: tc.raw}
		if got := len(rec.Challenges()); got != tc.want {
			t.Fatalf("%s: got %d challenges, want %d", tc.name, got, tc.want)
		}
	}
}

func TestFeedbackFailClosed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"absent", "", 0},
		{"malformed", "[1,2]", 0},
		{"null", "null", 0},
		{"valid", `{"걷기":1,"명상":-1}`, 2},
	}
	for _, tc := range cases {
		rec := Record{FeedbackGivenJSON: tc.raw}
		fb := rec.Feedback()
		if fb == nil {
			t.Fatalf("%s: Feedback returned nil map", tc.name)
		}
		if got := len(fb); got != tc.want {
			t.Fatalf("%s: got %d entries, want %d", tc.name, got, tc.want)
		}
	}
}

func TestChallengeHasLink(t *testing.T) {
	if (Challenge{URL: "#"}).HasLink() {
		t.Fatal("# must denote a non-link activity challenge")
	}
	if (Challenge{URL: ""}).HasLink() {
		t.Fatal("empty url must not be a link")
	}
	if !(Challenge{URL: "https://example.com"}).HasLink() {
		t.Fatal("real url must be a link")
	}
}
