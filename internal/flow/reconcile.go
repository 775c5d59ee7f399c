package flow

import "github.com/sehyun-dev/maum-tui/internal/api"

// Feedback glyphs shown next to reconciled history challenges.
const (
	GlyphLike    = "👍"
	GlyphDislike = "👎"
)

// ChallengeLine is one reconciled recommendation row of a history entry.
type ChallengeLine struct {
	Title   string
	URL     string
	HasLink bool
	Glyph   string // GlyphLike, GlyphDislike, or empty
}

// Reconcile annotates a record's stored recommendations with its stored
// feedback, looked up by title. Pure and order-preserving; absent or
// malformed stored data decodes to empty (api fails closed), so the worst
// case is an empty line list, never a panic in the render path.
func Reconcile(rec api.Record) []ChallengeLine {
	fb := rec.Feedback()
	chs := rec.Challenges()
	out := make([]ChallengeLine, 0, len(chs))
	for _, c := range chs {
		line := ChallengeLine{Title: c.Title, URL: c.URL, HasLink: c.HasLink()}
		switch fb[c.Title] {
		case 1:
			line.Glyph = GlyphLike
		case -1:
			line.Glyph = GlyphDislike
		}
		out = append(out, line)
	}
	return out
}

// SeriesLabel truncates a record date ("2006-01-02 15:04") to the chart's
// month-day-time form, mirroring the server's date layout.
func SeriesLabel(date string) string {
	runes := []rune(date)
	if len(runes) <= 5 {
		return date
	}
	if len(runes) > 16 {
		runes = runes[:16]
	}
	return string(runes[5:])
}
