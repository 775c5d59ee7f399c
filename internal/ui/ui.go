package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sehyun-dev/maum-tui/internal/api"
	"github.com/sehyun-dev/maum-tui/internal/chart"
	"github.com/sehyun-dev/maum-tui/internal/flow"
	"github.com/sehyun-dev/maum-tui/internal/format"
	"github.com/sehyun-dev/maum-tui/internal/session"
	"github.com/sehyun-dev/maum-tui/internal/util"
)

const (
	viewAuth = "auth"
	viewMain = "main"
)

const (
	tabHome          = "home"
	tabHistory       = "history"
	tabQuestionnaire = "questionnaire"
)

// Home control slots, top to bottom.
const (
	slotMood = iota
	slotSleep
	slotActivity
	slotText
	slotAnalyze
	slotResult
)

type model struct {
	ctx    context.Context
	client *api.Client
	cfg    util.Config
	log    *zap.Logger

	sess     *session.Session
	analysis *flow.Analysis
	history  *flow.History
	quest    *flow.Questionnaire
	charts   *chart.Handle

	view string
	tab  string

	// auth view
	authRegister bool
	authInputs   []textinput.Model
	authLabels   []string
	authFocus    int
	authBusy     bool
	authErr      string
	authNotice   string

	// home tab
	mood, sleep, activity int
	feeling               textinput.Model
	slot                  int
	homeErr               string
	resultMD              string
	feedbackCursor        int
	feedbackErr           string

	// history tab
	histCursor  int
	histRefresh bool // a refresh was requested while a load was in flight

	// questionnaire tab
	questErr string
	questMD  string

	styles struct {
		title    lipgloss.Style
		tab      lipgloss.Style
		tabOn    lipgloss.Style
		muted    lipgloss.Style
		err      lipgloss.Style
		focus    lipgloss.Style
		like     lipgloss.Style
		dislike  lipgloss.Style
		box      lipgloss.Style
		barOn    lipgloss.Style
		barOff   lipgloss.Style
		selected lipgloss.Style
	}
	pal    palette
	width  int
	height int
}

// Messages produced by network commands. Every one carries the generation
// token minted when its request was issued; the owning flow drops the rest.
type (
	loginMsg struct {
		user string
		err  error
	}
	registerMsg struct {
		message string
		err     error
	}
	analysisMsg struct {
		tok uuid.UUID
		res *api.AnalysisResult
		err error
	}
	feedbackMsg struct {
		tok    uuid.UUID
		title  string
		rating int
		err    error
	}
	historyMsg struct {
		tok     uuid.UUID
		records []api.Record
		err     error
	}
	questionsMsg struct {
		tok       uuid.UUID
		questions []api.Question
		err       error
	}
	screeningMsg struct {
		tok uuid.UUID
		res *api.ScreeningResult
		err error
	}
)

func initialModel(ctx context.Context, client *api.Client, cfg util.Config, log *zap.Logger) model {
	sess := session.New()
	m := model{
		ctx:      ctx,
		client:   client,
		cfg:      cfg,
		log:      log,
		sess:     sess,
		analysis: flow.NewAnalysis(sess),
		history:  flow.NewHistory(sess),
		quest:    flow.NewQuestionnaire(sess),
		charts:   chart.NewHandle(),
		view:     viewAuth,
		tab:      tabHome,
		mood:     flow.DefaultMood,
		sleep:    flow.DefaultSleep,
		activity: flow.DefaultActivity,
	}
	m.pal = paletteFor(cfg.Theme)
	m.styles.title = lipgloss.NewStyle().Bold(true).Foreground(m.pal.Accent)
	m.styles.tab = lipgloss.NewStyle().Foreground(m.pal.Muted).Padding(0, 1)
	m.styles.tabOn = lipgloss.NewStyle().Bold(true).Foreground(m.pal.Accent).Padding(0, 1).Underline(true)
	m.styles.muted = lipgloss.NewStyle().Foreground(m.pal.Muted)
	m.styles.err = lipgloss.NewStyle().Foreground(m.pal.Danger)
	m.styles.focus = lipgloss.NewStyle().Foreground(m.pal.Accent).Bold(true)
	m.styles.like = lipgloss.NewStyle().Foreground(m.pal.Like)
	m.styles.dislike = lipgloss.NewStyle().Foreground(m.pal.Dislike)
	m.styles.box = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(m.pal.Border).Padding(1, 2)
	m.styles.barOn = lipgloss.NewStyle().Foreground(m.pal.SliderOn)
	m.styles.barOff = lipgloss.NewStyle().Foreground(m.pal.SliderOff)
	m.styles.selected = lipgloss.NewStyle().Bold(true).Foreground(m.pal.Success)
	m.feeling = textinput.New()
	m.feeling.Placeholder = "오늘 하루는 어땠나요?"
	m.feeling.CharLimit = 500
	m.feeling.Width = 48
	m.buildAuthInputs()
	return m
}

func (m *model) buildAuthInputs() {
	labels := []string{"아이디", "비밀번호"}
	if m.authRegister {
		labels = append(labels, "이름", "생년월일", "성별", "지역 (시/도)", "지역 (구)")
	}
	inputs := make([]textinput.Model, len(labels))
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 28
		if labels[i] == "비밀번호" {
			ti.EchoMode = textinput.EchoPassword
		}
		inputs[i] = ti
	}
	inputs[0].Focus()
	m.authInputs = inputs
	m.authLabels = labels
	m.authFocus = 0
}

// resetHome implements the home-entry policy: fixed slider defaults, cleared
// text, cleared result and active record. Home is never resumable.
func (m *model) resetHome() {
	m.mood = flow.DefaultMood
	m.sleep = flow.DefaultSleep
	m.activity = flow.DefaultActivity
	m.feeling.SetValue("")
	m.feeling.Blur()
	m.slot = slotMood
	m.homeErr = ""
	m.feedbackErr = ""
	m.resultMD = ""
	m.feedbackCursor = 0
	m.analysis.Reset()
}

// enterTab activates exactly one tab. Only home resets on entry; history and
// questionnaire state persist across tab switches unless restarted.
func (m *model) enterTab(tab string) {
	m.tab = tab
	if tab == tabHome {
		m.resetHome()
	}
}

func (m *model) switchView(view string) {
	m.view = view
}

func (m *model) logout() {
	m.sess.Logout()
	m.analysis.Reset()
	m.history.Reset()
	m.quest.Reset()
	m.charts.Destroy()
	m.histRefresh = false
	m.resultMD = ""
	m.questMD = ""
	m.homeErr = ""
	m.questErr = ""
	m.authErr = ""
	m.authNotice = ""
	m.authBusy = false
	m.authRegister = false
	m.buildAuthInputs()
	m.switchView(viewAuth)
}

// Commands -------------------------------------------------------------------

func (m model) loginCmd(user, pass string) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		err := client.Login(ctx, user, pass)
		return loginMsg{user: user, err: err}
	}
}

func (m model) registerCmd(form api.RegisterForm) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		msg, err := client.Register(ctx, form)
		return registerMsg{message: msg, err: err}
	}
}

func (m model) analyzeCmd(tok uuid.UUID, in api.AnalysisInput) tea.Cmd {
	ctx, client, user := m.ctx, m.client, m.sess.User()
	return func() tea.Msg {
		res, err := client.Analyze(ctx, user, in)
		return analysisMsg{tok: tok, res: res, err: err}
	}
}

func (m model) feedbackCmd(tok uuid.UUID, recordID int64, title string, rating int) tea.Cmd {
	ctx, client, user := m.ctx, m.client, m.sess.User()
	return func() tea.Msg {
		err := client.SubmitFeedback(ctx, user, recordID, title, rating)
		return feedbackMsg{tok: tok, title: title, rating: rating, err: err}
	}
}

func (m model) historyCmd(tok uuid.UUID) tea.Cmd {
	ctx, client, user := m.ctx, m.client, m.sess.User()
	return func() tea.Msg {
		records, err := client.Records(ctx, user)
		return historyMsg{tok: tok, records: records, err: err}
	}
}

func (m model) questionsCmd(tok uuid.UUID) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		qs, err := client.StartQuestionnaire(ctx)
		return questionsMsg{tok: tok, questions: qs, err: err}
	}
}

func (m model) screeningCmd(tok uuid.UUID, answers []int) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		res, err := client.SubmitQuestionnaire(ctx, answers)
		return screeningMsg{tok: tok, res: res, err: err}
	}
}

// refreshHistory issues a load. If one is already in flight the request is
// remembered and reissued when the pending load resolves, so a record created
// during the login-triggered load still shows up without a manual refresh.
func (m *model) refreshHistory() tea.Cmd {
	tok, err := m.history.Begin()
	if err != nil {
		if errors.Is(err, flow.ErrBusy) {
			m.histRefresh = true
		}
		return nil
	}
	return m.historyCmd(tok)
}

// drainHistoryRefresh reissues the remembered refresh, if any.
func (m *model) drainHistoryRefresh() tea.Cmd {
	if !m.histRefresh {
		return nil
	}
	m.histRefresh = false
	return m.refreshHistory()
}

// tea.Model -------------------------------------------------------------------

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginMsg:
		m.authBusy = false
		if msg.err != nil {
			m.authErr = errMessage(msg.err)
			return m, nil
		}
		m.sess.Login(msg.user)
		m.authErr = ""
		m.authNotice = ""
		m.switchView(viewMain)
		m.enterTab(tabHome)
		return m, m.refreshHistory()

	case registerMsg:
		m.authBusy = false
		if msg.err != nil {
			m.authErr = errMessage(msg.err)
			return m, nil
		}
		// Back to the login form so the new account can sign in.
		m.authRegister = false
		m.buildAuthInputs()
		m.authErr = ""
		m.authNotice = msg.message
		return m, nil

	case analysisMsg:
		if msg.err != nil {
			if m.analysis.Fail(msg.tok) {
				m.homeErr = errMessage(msg.err)
				m.log.Warn("analysis failed", zap.Error(msg.err))
			}
			return m, nil
		}
		if !m.analysis.Apply(msg.tok, msg.res) {
			return m, nil
		}
		m.homeErr = ""
		m.feedbackErr = ""
		m.resultMD = renderMarkdown(format.AnalysisSummary(msg.res))
		m.feedbackCursor = 0
		m.slot = slotResult
		// The new record must appear in history immediately.
		return m, m.refreshHistory()

	case feedbackMsg:
		if msg.err != nil {
			if m.analysis.FailFeedback(msg.tok, msg.title) {
				m.feedbackErr = errMessage(msg.err)
				m.log.Warn("feedback failed", zap.String("title", msg.title), zap.Error(msg.err))
			}
			return m, nil
		}
		if m.analysis.ApplyFeedback(msg.tok, msg.title, msg.rating) {
			m.feedbackErr = ""
		}
		return m, nil

	case historyMsg:
		if msg.err != nil {
			if m.history.Fail(msg.tok) {
				// Previous list and chart stay; failure is only logged.
				m.log.Warn("history load failed", zap.Error(msg.err))
				return m, m.drainHistoryRefresh()
			}
			return m, nil
		}
		if m.history.Apply(msg.tok, msg.records) {
			m.charts.Replace(m.history.Series())
			if m.histCursor >= len(m.history.Entries()) {
				m.histCursor = 0
			}
			return m, m.drainHistoryRefresh()
		}
		return m, nil

	case questionsMsg:
		if msg.err != nil {
			if m.quest.FailStart(msg.tok) {
				m.questErr = errMessage(msg.err)
			}
			return m, nil
		}
		if m.quest.ApplyQuestions(msg.tok, msg.questions) {
			m.questErr = ""
			m.questMD = ""
		}
		return m, nil

	case screeningMsg:
		if msg.err != nil {
			if m.quest.FailSubmit(msg.tok) {
				m.questErr = errMessage(msg.err)
			}
			return m, nil
		}
		if m.quest.ApplyResult(msg.tok, msg.res) {
			m.questErr = ""
			m.questMD = renderMarkdown(format.ScreeningResult(msg.res))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.view == viewAuth {
			return m.updateAuth(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.setAuthFocus((m.authFocus + 1) % len(m.authInputs))
		return m, nil
	case "shift+tab", "up":
		m.setAuthFocus((m.authFocus - 1 + len(m.authInputs)) % len(m.authInputs))
		return m, nil
	case "ctrl+n":
		m.authRegister = !m.authRegister
		m.authErr = ""
		m.authNotice = ""
		m.buildAuthInputs()
		return m, nil
	case "enter":
		if m.authFocus < len(m.authInputs)-1 {
			m.setAuthFocus(m.authFocus + 1)
			return m, nil
		}
		return m.submitAuth()
	}
	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

func (m *model) setAuthFocus(i int) {
	m.authInputs[m.authFocus].Blur()
	m.authFocus = i
	m.authInputs[i].Focus()
}

func (m model) submitAuth() (tea.Model, tea.Cmd) {
	if m.authBusy {
		return m, nil
	}
	user := strings.TrimSpace(m.authInputs[0].Value())
	pass := m.authInputs[1].Value()
	if user == "" || pass == "" {
		m.authErr = "아이디와 비밀번호를 모두 입력해주세요."
		return m, nil
	}
	m.authBusy = true
	if !m.authRegister {
		return m, m.loginCmd(user, pass)
	}
	form := api.RegisterForm{
		Username:   user,
		Password:   pass,
		Name:       strings.TrimSpace(m.authInputs[2].Value()),
		Birthdate:  strings.TrimSpace(m.authInputs[3].Value()),
		Gender:     strings.TrimSpace(m.authInputs[4].Value()),
		RegionSiDo: strings.TrimSpace(m.authInputs[5].Value()),
		RegionGu:   strings.TrimSpace(m.authInputs[6].Value()),
	}
	return m, m.registerCmd(form)
}

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch k {
	case "ctrl+l":
		m.logout()
		return m, nil
	case "tab":
		switch m.tab {
		case tabHome:
			m.enterTab(tabHistory)
		case tabHistory:
			m.enterTab(tabQuestionnaire)
		default:
			m.enterTab(tabHome)
		}
		return m, nil
	}
	switch m.tab {
	case tabHome:
		return m.updateHome(msg)
	case tabHistory:
		return m.updateHistory(msg)
	default:
		return m.updateQuestionnaire(msg)
	}
}

func (m model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	// Result zone: feedback navigation over the rendered challenge list.
	if m.slot == slotResult && m.analysis.Result() != nil {
		switch k {
		case "up":
			m.slot = slotAnalyze
			m.feeling.Blur()
			return m, nil
		case "j", "down":
			if m.feedbackCursor < len(m.analysis.Result().Challenges)-1 {
				m.feedbackCursor++
			}
			return m, nil
		case "k":
			if m.feedbackCursor > 0 {
				m.feedbackCursor--
			}
			return m, nil
		case "y", "n":
			rating := 1
			if k == "n" {
				rating = -1
			}
			return m.submitFeedback(rating)
		}
		return m, nil
	}

	switch k {
	case "up":
		if m.slot > slotMood {
			m.slot--
		}
	case "down":
		if m.slot < slotAnalyze {
			m.slot++
		} else if m.analysis.Result() != nil {
			m.slot = slotResult
		}
	case "enter":
		if m.slot == slotAnalyze {
			return m.submitAnalysis()
		}
		if m.slot < slotAnalyze {
			m.slot++
		}
	default:
		switch m.slot {
		case slotMood:
			m.mood = adjust(m.mood, k, flow.MoodMin, flow.MoodMax)
		case slotSleep:
			m.sleep = adjust(m.sleep, k, flow.SleepMin, flow.SleepMax)
		case slotActivity:
			m.activity = adjust(m.activity, k, flow.ActivityMin, flow.ActivityMax)
		case slotText:
			var cmd tea.Cmd
			m.feeling, cmd = m.feeling.Update(msg)
			return m, cmd
		}
	}
	if m.slot == slotText {
		m.feeling.Focus()
	} else {
		m.feeling.Blur()
	}
	return m, nil
}

func adjust(v int, key string, lo, hi int) int {
	switch key {
	case "left", "h":
		if v > lo {
			v--
		}
	case "right", "l":
		if v < hi {
			v++
		}
	}
	return v
}

func (m model) submitAnalysis() (tea.Model, tea.Cmd) {
	sig := flow.Signals{Mood: m.mood, Sleep: m.sleep, Activity: m.activity}
	tok, err := m.analysis.Begin(sig, m.feeling.Value())
	if err != nil {
		if !errors.Is(err, flow.ErrBusy) {
			m.homeErr = errMessage(err)
		}
		return m, nil
	}
	m.homeErr = ""
	in := api.AnalysisInput{
		Mood:        sig.Mood,
		Sleep:       sig.Sleep,
		Activity:    sig.Activity,
		FeelingText: m.feeling.Value(),
	}
	return m, m.analyzeCmd(tok, in)
}

func (m model) submitFeedback(rating int) (tea.Model, tea.Cmd) {
	res := m.analysis.Result()
	if res == nil || m.feedbackCursor >= len(res.Challenges) {
		return m, nil
	}
	title := res.Challenges[m.feedbackCursor].Title
	tok, recordID, err := m.analysis.BeginFeedback(title, rating)
	if err != nil {
		// Settled or in-flight pairs refuse silently; real precondition
		// violations never reach the network.
		if !errors.Is(err, flow.ErrFeedbackGiven) && !errors.Is(err, flow.ErrBusy) {
			m.feedbackErr = errMessage(err)
		}
		return m, nil
	}
	return m, m.feedbackCmd(tok, recordID, title, rating)
}

func (m model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.histCursor > 0 {
			m.histCursor--
		}
	case "down", "j":
		if m.histCursor < len(m.history.Entries())-1 {
			m.histCursor++
		}
	case "enter":
		m.history.Toggle(m.histCursor)
	case "r":
		return m, m.refreshHistory()
	}
	return m, nil
}

func (m model) updateQuestionnaire(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch m.quest.State() {
	case flow.QIdle:
		if k == "s" || k == "enter" {
			return m.startQuestionnaire()
		}
	case flow.QAsking:
		if m.quest.Busy() {
			return m, nil
		}
		if cur, ok := m.quest.Current(); ok {
			if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
				idx := int(k[0] - '1')
				if idx < len(cur.Options) {
					return m.answerQuestion(idx)
				}
			}
		}
	case flow.QTerminated:
		if k == "r" {
			return m.startQuestionnaire()
		}
	}
	return m, nil
}

func (m model) startQuestionnaire() (tea.Model, tea.Cmd) {
	tok, err := m.quest.BeginStart()
	if err != nil {
		return m, nil
	}
	m.questErr = ""
	return m, m.questionsCmd(tok)
}

func (m model) answerQuestion(optionIdx int) (tea.Model, tea.Cmd) {
	done, err := m.quest.Answer(optionIdx)
	if err != nil {
		return m, nil
	}
	if !done {
		return m, nil
	}
	tok, answers, err := m.quest.BeginSubmit()
	if err != nil {
		m.questErr = errMessage(err)
		return m, nil
	}
	return m, m.screeningCmd(tok, answers)
}

// errMessage surfaces server messages verbatim; transport errors keep their
// Go error text.
func errMessage(err error) string {
	var se *api.ServerError
	if errors.As(err, &se) {
		return se.Error()
	}
	switch {
	case errors.Is(err, flow.ErrNotLoggedIn):
		return "로그인이 필요합니다."
	case errors.Is(err, flow.ErrSignalRange):
		return "입력값이 범위를 벗어났습니다."
	case errors.Is(err, flow.ErrNoActiveRecord):
		return "분석 기록이 없습니다."
	case errors.Is(err, flow.ErrBusy):
		return "요청을 처리하는 중입니다."
	case errors.Is(err, flow.ErrUnknownChallenge):
		return "알 수 없는 챌린지입니다."
	case errors.Is(err, flow.ErrFeedbackGiven):
		return "이미 피드백을 남긴 챌린지입니다."
	case errors.Is(err, flow.ErrBadRating):
		return "잘못된 평가 값입니다."
	case errors.Is(err, flow.ErrNotAsking):
		return "진행 중인 진단이 없습니다."
	case errors.Is(err, flow.ErrNotComplete):
		return "아직 답하지 않은 문항이 있습니다."
	}
	return err.Error()
}

func renderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// View ------------------------------------------------------------------------

func (m model) View() string {
	if m.view == viewAuth {
		return m.renderAuth()
	}
	return m.renderMain()
}

func (m model) renderAuth() string {
	var b strings.Builder
	title := "마음로그 — 로그인"
	submit := "[Enter] 로그인"
	if m.authRegister {
		title = "마음로그 — 회원가입"
		submit = "[Enter] 가입하기"
	}
	if m.authBusy {
		submit = "처리 중..."
	}
	b.WriteString(m.styles.title.Render(title) + "\n\n")
	for i, in := range m.authInputs {
		label := fmt.Sprintf("%-10s", m.authLabels[i])
		if i == m.authFocus {
			label = m.styles.focus.Render(label)
		} else {
			label = m.styles.muted.Render(label)
		}
		b.WriteString(label + " " + in.View() + "\n")
	}
	if m.authErr != "" {
		b.WriteString("\n" + m.styles.err.Render(m.authErr) + "\n")
	}
	if m.authNotice != "" {
		b.WriteString("\n" + m.styles.selected.Render(m.authNotice) + "\n")
	}
	b.WriteString("\n" + m.styles.muted.Render(submit+"  [Tab] 다음 칸  [Ctrl+N] 로그인/회원가입 전환  [Ctrl+C] 종료"))
	return m.styles.box.Render(b.String())
}

func (m model) renderMain() string {
	top := m.renderTopBar()
	var body string
	switch m.tab {
	case tabHome:
		body = m.renderHome()
	case tabHistory:
		body = m.renderHistory()
	default:
		body = m.renderQuestionnaire()
	}
	bottom := m.renderBottomBar()
	return lipgloss.JoinVertical(lipgloss.Left, top, body, bottom)
}

func (m model) renderTopBar() string {
	tabs := []struct{ id, label string }{
		{tabHome, "홈"},
		{tabHistory, "기록"},
		{tabQuestionnaire, "자가진단"},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.id == m.tab {
			parts = append(parts, m.styles.tabOn.Render(t.label))
		} else {
			parts = append(parts, m.styles.tab.Render(t.label))
		}
	}
	left := m.styles.title.Render("마음로그") + " " + strings.Join(parts, "")
	right := m.styles.muted.Render(m.sess.User() + "님")
	w := m.width
	if w <= 0 {
		w = 100
	}
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m model) renderBottomBar() string {
	return m.styles.muted.Render("[Tab] 탭 전환  [Ctrl+L] 로그아웃  [Ctrl+C] 종료")
}

func (m model) sliderLine(slot int, label string, v, hi int, unit string) string {
	const width = 12
	fill := 0
	if hi > 0 {
		fill = v * width / hi
	}
	bar := m.styles.barOn.Render(strings.Repeat("█", fill)) +
		m.styles.barOff.Render(strings.Repeat("░", width-fill))
	cursor := "  "
	name := m.styles.muted.Render(label)
	if m.slot == slot {
		cursor = m.styles.focus.Render("> ")
		name = m.styles.focus.Render(label)
	}
	return fmt.Sprintf("%s%s %s %d%s", cursor, name, bar, v, unit)
}

func (m model) renderHome() string {
	var b strings.Builder
	b.WriteString("\n" + m.styles.title.Render("오늘의 마음 기록") + "\n\n")
	b.WriteString(m.sliderLine(slotMood, "기분      ", m.mood, flow.MoodMax, "") + "\n")
	b.WriteString(m.sliderLine(slotSleep, "수면      ", m.sleep, flow.SleepMax, "시간") + "\n")
	b.WriteString(m.sliderLine(slotActivity, "활동량    ", m.activity, flow.ActivityMax, "") + "\n\n")

	textCursor := "  "
	if m.slot == slotText {
		textCursor = m.styles.focus.Render("> ")
	}
	b.WriteString(textCursor + m.feeling.View() + "\n\n")

	analyzeLabel := "[ 분석하기 ]"
	if m.analysis.Busy() {
		analyzeLabel = "[ 분석 중... ]"
	}
	if m.slot == slotAnalyze {
		b.WriteString(m.styles.focus.Render("> "+analyzeLabel) + "\n")
	} else {
		b.WriteString("  " + m.styles.muted.Render(analyzeLabel) + "\n")
	}
	if m.homeErr != "" {
		b.WriteString("\n" + m.styles.err.Render("분석 실패: "+m.homeErr) + "\n")
	}
	if res := m.analysis.Result(); res != nil {
		b.WriteString("\n" + m.resultMD)
		b.WriteString(m.renderChallenges(res))
	}
	return b.String()
}

// renderChallenges draws one row per recommendation with its feedback zone:
// either the two controls or the settled status, never both.
func (m model) renderChallenges(res *api.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("추천 챌린지") + "\n")
	for i, c := range res.Challenges {
		cursor := "  "
		if m.slot == slotResult && i == m.feedbackCursor {
			cursor = m.styles.focus.Render("> ")
		}
		row := fmt.Sprintf("%s (%s)", c.Title, c.Type)
		if c.HasLink() {
			row += "  " + m.styles.muted.Render(c.URL)
		} else {
			row += "  " + m.styles.muted.Render("[활동 챌린지]")
		}
		var fb string
		switch m.analysis.FeedbackStateFor(c.Title) {
		case flow.FeedbackOpen:
			fb = m.styles.like.Render("[y] 👍") + "  " + m.styles.dislike.Render("[n] 👎")
		case flow.FeedbackBusy:
			fb = m.styles.muted.Render("전송 중...")
		case flow.FeedbackLiked:
			fb = m.styles.like.Render("👍 좋았어요") + "  " + m.styles.muted.Render("👎")
		case flow.FeedbackDisliked:
			fb = m.styles.muted.Render("👍") + "  " + m.styles.dislike.Render("👎 별로였어요")
		}
		b.WriteString(cursor + row + "\n    " + fb + "\n")
	}
	if m.feedbackErr != "" {
		b.WriteString(m.styles.err.Render("피드백 저장 실패: "+m.feedbackErr) + "\n")
	}
	if m.slot == slotResult {
		b.WriteString(m.styles.muted.Render("[j/k] 이동  [y] 좋았어요  [n] 별로였어요  [↑] 입력으로") + "\n")
	}
	return b.String()
}

func (m model) renderHistory() string {
	var b strings.Builder
	b.WriteString("\n" + m.styles.title.Render("감정 기록") + "\n\n")
	entries := m.history.Entries()
	if len(entries) == 0 {
		if m.history.Loaded() {
			b.WriteString(m.styles.muted.Render("기록이 없습니다.") + "\n")
		} else {
			b.WriteString(m.styles.muted.Render("불러오는 중...") + "\n")
		}
	}
	for i, e := range entries {
		cursor := "  "
		if i == m.histCursor {
			cursor = m.styles.focus.Render("> ")
		}
		marker := "▼"
		if e.Expanded {
			marker = "▲"
		}
		b.WriteString(fmt.Sprintf("%s%s: %s점 (%s) %s\n",
			cursor, e.Date, format.Score1(e.Score), e.Status, m.styles.muted.Render(marker)))
		if e.Expanded {
			b.WriteString("    " + m.styles.muted.Render("기록 내용:") + " " + format.RecordText(e.Text) + "\n")
			if len(e.Challenges) == 0 {
				b.WriteString("    " + m.styles.muted.Render("추천된 챌린지가 없습니다.") + "\n")
			}
			for _, c := range e.Challenges {
				line := "    - " + c.Title
				if c.HasLink {
					line += " " + m.styles.muted.Render(c.URL)
				}
				if c.Glyph != "" {
					line += " (" + c.Glyph + ")"
				}
				b.WriteString(line + "\n")
			}
		}
	}
	if c := m.charts.Chart(); c != nil && c.Len() > 0 {
		w := m.width
		if w <= 0 {
			w = 80
		}
		b.WriteString("\n" + m.styles.title.Render("일별 감정 점수") + "\n")
		b.WriteString(c.Render(w) + "\n")
	}
	b.WriteString("\n" + m.styles.muted.Render("[j/k] 이동  [Enter] 펼치기/접기  [r] 새로고침"))
	return b.String()
}

func (m model) renderQuestionnaire() string {
	var b strings.Builder
	b.WriteString("\n" + m.styles.title.Render("우울증 자가진단 (PHQ-9)") + "\n\n")
	switch m.quest.State() {
	case flow.QIdle:
		b.WriteString("지난 2주간의 상태에 대한 9개 문항에 답하면 결과를 알려드립니다.\n\n")
		b.WriteString(m.styles.focus.Render("[s] 진단 시작") + "\n")
	case flow.QAsking:
		if m.quest.Busy() {
			b.WriteString(m.styles.muted.Render("결과를 기다리는 중...") + "\n")
			break
		}
		cur, ok := m.quest.Current()
		if !ok {
			b.WriteString(m.styles.muted.Render("결과를 기다리는 중...") + "\n")
			break
		}
		b.WriteString(m.styles.muted.Render(fmt.Sprintf("질문 %d / %d", m.quest.Position()+1, m.quest.Len())) + "\n\n")
		b.WriteString(cur.Text + "\n\n")
		for i, opt := range cur.Options {
			b.WriteString(fmt.Sprintf("  [%d] %s\n", i+1, opt.Text))
		}
	case flow.QTerminated:
		b.WriteString(m.questMD)
		b.WriteString("\n" + m.styles.focus.Render("[r] 다시 진단하기") + "\n")
	}
	if m.questErr != "" {
		b.WriteString("\n" + m.styles.err.Render(m.questErr) + "\n")
	}
	return b.String()
}
