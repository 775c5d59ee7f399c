package api

import "encoding/json"

// Challenge is one recommended activity or resource. Title is the feedback
// correlation key within a record's recommendation list.
type Challenge struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

// HasLink reports whether the challenge points at an openable resource.
// "#" is the server's marker for a plain activity challenge.
func (c Challenge) HasLink() bool { return c.URL != "" && c.URL != "#" }

// Record is one persisted mood-analysis submission as returned by the backend.
// The recommendation list and feedback map arrive as serialized JSON strings;
// decode them through Challenges and Feedback, which fail closed.
type Record struct {
	ID                        int64   `json:"id"`
	Date                      string  `json:"date"`
	Score                     float64 `json:"score"`
	Status                    string  `json:"status"`
	Text                      string  `json:"text"`
	RecommendedChallengesJSON string  `json:"recommended_challenges_json"`
	FeedbackGivenJSON         string  `json:"feedback_given_json"`
}

// Challenges decodes the stored recommendation list. Malformed or absent data
// yields an empty list, never an error into the render path.
func (r Record) Challenges() []Challenge {
	if r.RecommendedChallengesJSON == "" {
		return nil
	}
	var out []Challenge
	if err := json.Unmarshal([]byte(r.RecommendedChallengesJSON), &out); err != nil {
		return nil
	}
	return out
}

// Feedback decodes the stored title→rating map, failing closed like Challenges.
func (r Record) Feedback() map[string]int {
	if r.FeedbackGivenJSON == "" {
		return map[string]int{}
	}
	var out map[string]int
	if err := json.Unmarshal([]byte(r.FeedbackGivenJSON), &out); err != nil {
		return map[string]int{}
	}
	if out == nil {
		return map[string]int{}
	}
	return out
}

// Breakdown is the per-signal calculation detail attached to an analysis.
type Breakdown struct {
	MoodCalc     string `json:"mood_calc"`
	SleepCalc    string `json:"sleep_calc"`
	ActivityCalc string `json:"activity_calc"`
	TextCalc     string `json:"text_calc"`
	TotalRaw     string `json:"total_raw"`
	CapApplied   bool   `json:"cap_applied"`
}

// Empty reports whether the server omitted the breakdown.
func (b Breakdown) Empty() bool {
	return b.MoodCalc == "" && b.SleepCalc == "" && b.ActivityCalc == "" && b.TextCalc == ""
}

// AnalysisResult is the scoring service's answer to one submission.
type AnalysisResult struct {
	RecordID      int64       `json:"record_id"`
	Score         float64     `json:"score"`
	EmotionStatus string      `json:"emotion_status"`
	TextEmotion   string      `json:"text_emotion"`
	Challenges    []Challenge `json:"challenges"`
	Breakdown     Breakdown   `json:"breakdown"`
}

// AnalysisInput carries the three bounded signals plus free text.
type AnalysisInput struct {
	Mood        int
	Sleep       int
	Activity    int
	FeelingText string
}

// RegisterForm mirrors the registration form fields.
type RegisterForm struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Name       string `json:"name,omitempty"`
	Birthdate  string `json:"birthdate,omitempty"`
	Gender     string `json:"gender,omitempty"`
	RegionSiDo string `json:"region_si_do,omitempty"`
	RegionGu   string `json:"region_gu,omitempty"`
}

// Option is one answer choice of a questionnaire question.
type Option struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// Question is one turn of the fixed questionnaire.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// ScreeningResult is the scored questionnaire outcome.
type ScreeningResult struct {
	TotalScore   int    `json:"total_score"`
	Message      string `json:"message"`
	HospitalInfo string `json:"hospital_info"`
}
