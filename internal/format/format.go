// Package format builds the markdown bodies the UI renders through glamour.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sehyun-dev/maum-tui/internal/api"
)

// Score prints a 0–10 score without trailing zeros ("6.5", "7").
func Score(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Score1 prints a score with one decimal, as history rows do ("6.5").
func Score1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// AnalysisSummary is the static part of the analysis result view: score,
// emotion classification and calculation breakdown. The challenge rows are
// interactive and rendered by the UI itself.
func AnalysisSummary(res *api.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("## 분석 결과\n\n")
	b.WriteString(fmt.Sprintf("**종합 점수:** %s / 10\n\n", Score(res.Score)))
	b.WriteString(fmt.Sprintf("**감정 상태:** %s\n\n", res.EmotionStatus))
	b.WriteString(fmt.Sprintf("**텍스트 기반 감정:** %s\n", res.TextEmotion))
	if !res.Breakdown.Empty() {
		b.WriteString("\n### 계산 내역\n\n")
		b.WriteString("- 기분: " + res.Breakdown.MoodCalc + "\n")
		b.WriteString("- 수면: " + res.Breakdown.SleepCalc + "\n")
		b.WriteString("- 활동: " + res.Breakdown.ActivityCalc + "\n")
		b.WriteString("- 텍스트: " + res.Breakdown.TextCalc + "\n")
		if res.Breakdown.TotalRaw != "" {
			b.WriteString("- 합계: " + res.Breakdown.TotalRaw + "\n")
		}
		if res.Breakdown.CapApplied {
			b.WriteString("- 부정 감정 상한선이 적용되었습니다.\n")
		}
	}
	return b.String()
}

// ScreeningResult is the terminated questionnaire view body.
func ScreeningResult(res *api.ScreeningResult) string {
	var b strings.Builder
	b.WriteString("## 진단 결과\n\n")
	b.WriteString(res.Message)
	b.WriteString("\n")
	if res.HospitalInfo != "" {
		b.WriteString("\n**도움 받을 수 있는 곳:** " + res.HospitalInfo + "\n")
	}
	return b.String()
}

// RecordText is the free-text block of a history entry, with a placeholder
// when the record carries none.
func RecordText(text string) string {
	if strings.TrimSpace(text) == "" {
		return "작성된 텍스트가 없습니다."
	}
	return text
}
