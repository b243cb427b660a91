package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moodiary/internal/calendar"
	"moodiary/internal/diary"
	"moodiary/internal/i18n"
	"moodiary/internal/parse"
	"moodiary/internal/session"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View 当前屏幕标识 / View identifies the active screen
type View int

const (
	ViewLock View = iota
	ViewMood
	ViewChat
	ViewSummary
	ViewList
	ViewCalendar
	ViewTrash
)

// requestTimeout caps a single model round trip from the UI side. The
// provider carries its own HTTP timeout; this is the outer bound.
const requestTimeout = 60 * time.Second

// --- Tea Messages ---

// ReplyMsg 对话回复结果 / ReplyMsg carries one conversation turn's outcome
type ReplyMsg struct {
	Reply session.Reply
	Err   error
}

// SummaryMsg 摘要结果 / SummaryMsg carries the computed entry summary
type SummaryMsg struct {
	Result parse.Result
}

// App Bubble Tea 主 Model
// App is the main Bubble Tea model
type App struct {
	// 布局 / Layout
	width  int
	height int

	// 会话 / Session
	sess         *session.Session
	password     string
	calendarDays int

	// 屏幕 / Screens
	view View

	// 输入 / Inputs
	passInput textinput.Model
	input     textarea.Model
	freeInput textinput.Model

	// 聊天记录 / Chat transcript. Kept as a plain string: the model is
	// copied on every Update, which a strings.Builder does not survive.
	chatView    viewport.Model
	chatContent string

	// 摘要 / Summary state
	summary      parse.Result
	summaryReady bool
	kwCursor     int
	kwSelected   map[int]bool
	freeFocused  bool

	// 浏览 / Browse state
	moodCursor  int
	listCursor  int
	trashCursor int
	calYear     int
	calMonth    time.Month

	// 状态 / State
	waiting   bool
	status    string
	lastError string

	// 配置 / Config
	theme  Theme
	keys   KeyMap
	locale *i18n.I18n
}

// NewApp 创建 TUI 应用
// NewApp creates a new TUI application. An empty password skips the lock.
func NewApp(sess *session.Session, password string, calendarDays int) App {
	ta := textarea.New()
	ta.Placeholder = i18n.T("chat.placeholder")
	ta.CharLimit = 4096
	ta.SetHeight(3)
	ta.Focus()

	pass := textinput.New()
	pass.Placeholder = i18n.T("lock.prompt")
	pass.EchoMode = textinput.EchoPassword
	pass.Focus()

	free := textinput.New()
	free.Placeholder = "#keyword"
	free.CharLimit = 64

	now := time.Now()
	view := ViewLock
	if password == "" {
		view = ViewMood
	}

	return App{
		sess:         sess,
		password:     password,
		calendarDays: calendarDays,
		view:         view,
		passInput:    pass,
		input:        ta,
		freeInput:    free,
		kwSelected:   make(map[int]bool),
		calYear:      now.Year(),
		calMonth:     now.Month(),
		status:       i18n.T("status.ready"),
		theme:        DarkTheme(),
		keys:         DefaultKeyMap(),
		locale:       i18n.Global(),
	}
}

func (a App) Init() tea.Cmd {
	return textarea.Blink
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.relayout()
		return a, nil

	case ReplyMsg:
		return a.onReply(msg)

	case SummaryMsg:
		a.summary = msg.Result
		a.summaryReady = true
		a.status = a.locale.T("status.ready")
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.view {
		case ViewLock:
			return a.updateLock(msg)
		case ViewMood:
			return a.updateMood(msg)
		case ViewChat:
			return a.updateChat(msg)
		case ViewSummary:
			return a.updateSummary(msg)
		case ViewList:
			return a.updateList(msg)
		case ViewCalendar:
			return a.updateCalendar(msg)
		case ViewTrash:
			return a.updateTrash(msg)
		}
	}

	return a.updateFocusedInput(msg)
}

// --- 屏幕更新 / Per-screen update handlers ---

func (a App) updateLock(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if a.passInput.Value() == a.password {
			a.view = ViewMood
			a.lastError = ""
		} else {
			a.lastError = a.locale.T("lock.wrong")
		}
		a.passInput.SetValue("")
		return a, nil
	}
	var cmd tea.Cmd
	a.passInput, cmd = a.passInput.Update(msg)
	return a, cmd
}

func (a App) updateMood(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	moods := diary.Moods()
	switch msg.String() {
	case "tab":
		a.view = ViewList
		return a, nil
	case "up", "k":
		if a.moodCursor > 0 {
			a.moodCursor--
		}
	case "down", "j":
		if a.moodCursor < len(moods)-1 {
			a.moodCursor++
		}
	case "enter":
		if err := a.sess.PickMood(moods[a.moodCursor]); err != nil {
			a.lastError = err.Error()
			return a, nil
		}
		a.chatContent = ""
		a.chatView.SetContent("")
		a.summaryReady = false
		a.kwSelected = make(map[int]bool)
		a.freeInput.SetValue("")
		a.input.Focus()
		a.view = ViewChat
	}
	return a, nil
}

func (a App) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if a.waiting {
			return a, nil
		}
		text := strings.TrimSpace(a.input.Value())
		if text == "" {
			a.status = a.locale.T("chat.empty")
			return a, nil
		}
		a.input.SetValue("")
		a.appendChat("\n👤 " + text)
		a.waiting = true
		a.status = a.locale.T("status.thinking")
		return a, a.sendCmd(text)
	case "ctrl+d":
		if a.waiting {
			return a, nil
		}
		if err := a.sess.EndChat(); err != nil {
			a.status = a.locale.T("chat.empty")
			return a, nil
		}
		a.view = ViewSummary
		a.summaryReady = false
		a.status = a.locale.T("status.thinking")
		return a, a.summarizeCmd()
	case "esc":
		// 放弃草稿回到选择 / Abandon the draft back to mood selection
		a.sess.Abandon()
		a.view = ViewMood
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.freeFocused {
		switch msg.String() {
		case "enter", "esc":
			a.freeFocused = false
			a.freeInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.freeInput, cmd = a.freeInput.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "up", "k":
		if a.kwCursor > 0 {
			a.kwCursor--
		}
	case "down", "j":
		if a.kwCursor < len(a.summary.Keywords)-1 {
			a.kwCursor++
		}
	case " ":
		a.kwSelected[a.kwCursor] = !a.kwSelected[a.kwCursor]
	case "e":
		a.freeFocused = true
		return a, a.freeInput.Focus()
	case "s", "enter":
		if !a.summaryReady {
			return a, nil
		}
		var picked []string
		for i, kw := range a.summary.Keywords {
			if a.kwSelected[i] {
				picked = append(picked, kw)
			}
		}
		_, truncated := a.sess.CurateKeywords(picked, a.freeInput.Value())
		if truncated {
			a.status = fmt.Sprintf(a.locale.T("summary.pick_hint"), diary.MaxCuratedKeywords)
		}
		if _, err := a.sess.Save(time.Now()); err != nil {
			a.lastError = err.Error()
			return a, nil
		}
		a.status = a.locale.T("summary.saved")
		a.view = ViewMood
	case "d":
		if err := a.sess.Discard(time.Now()); err != nil {
			a.lastError = err.Error()
			return a, nil
		}
		a.status = a.locale.T("summary.discarded")
		a.view = ViewMood
	case "esc", "b":
		if err := a.sess.Back(); err == nil {
			a.input.Focus()
			a.view = ViewChat
		}
	}
	return a, nil
}

func (a App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := a.sess.Store().Recent()
	switch msg.String() {
	case "tab":
		a.view = ViewCalendar
	case "esc":
		a.view = ViewMood
	case "up", "k":
		if a.listCursor > 0 {
			a.listCursor--
		}
	case "down", "j":
		if a.listCursor < len(entries)-1 {
			a.listCursor++
		}
	case "x":
		if a.listCursor < len(entries) {
			a.sess.Store().SoftDelete(entries[a.listCursor].ID, time.Now())
			if a.listCursor > 0 {
				a.listCursor--
			}
		}
	}
	return a, nil
}

func (a App) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		a.view = ViewTrash
	case "esc":
		a.view = ViewMood
	case "left", "h":
		a.calMonth--
		if a.calMonth < time.January {
			a.calMonth = time.December
			a.calYear--
		}
	case "right", "l":
		a.calMonth++
		if a.calMonth > time.December {
			a.calMonth = time.January
			a.calYear++
		}
	}
	return a, nil
}

func (a App) updateTrash(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	trash := a.sess.Store().Trash(time.Now())
	switch msg.String() {
	case "tab":
		a.view = ViewMood
	case "esc":
		a.view = ViewMood
	case "up", "k":
		if a.trashCursor > 0 {
			a.trashCursor--
		}
	case "down", "j":
		if a.trashCursor < len(trash)-1 {
			a.trashCursor++
		}
	case "r":
		if a.trashCursor < len(trash) {
			a.sess.Store().Restore(trash[a.trashCursor].Entry.ID)
			a.status = a.locale.T("trash.restored")
			if a.trashCursor > 0 {
				a.trashCursor--
			}
		}
	case "x":
		if a.trashCursor < len(trash) {
			a.sess.Store().PermanentlyDelete(trash[a.trashCursor].Entry.ID)
			if a.trashCursor > 0 {
				a.trashCursor--
			}
		}
	}
	return a, nil
}

func (a App) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case ViewLock:
		a.passInput, cmd = a.passInput.Update(msg)
	case ViewChat:
		a.input, cmd = a.input.Update(msg)
	case ViewSummary:
		if a.freeFocused {
			a.freeInput, cmd = a.freeInput.Update(msg)
		}
	}
	return a, cmd
}

// --- 异步命令 / Async commands ---

func (a App) sendCmd(text string) tea.Cmd {
	sess := a.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		r, err := sess.SendMessage(ctx, text)
		return ReplyMsg{Reply: r, Err: err}
	}
}

func (a App) summarizeCmd() tea.Cmd {
	sess := a.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return SummaryMsg{Result: sess.Summarize(ctx)}
	}
}

func (a App) onReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	a.waiting = false
	a.status = a.locale.T("status.ready")

	if msg.Err != nil {
		if errors.Is(msg.Err, session.ErrBudgetExhausted) {
			a.status = a.locale.T("chat.budget")
			// 预算耗尽后不再停留在聊天 / Chat is over once the budget is spent.
			// A non-empty draft moves on to the (default-valued) summary so it
			// can still be saved; an empty one goes home.
			if err := a.sess.EndChat(); err == nil {
				a.view = ViewSummary
				a.summaryReady = false
				return a, a.summarizeCmd()
			}
			a.sess.Abandon()
			a.view = ViewMood
			return a, nil
		}
		a.lastError = a.locale.T("error.provider", msg.Err.Error())
		return a, nil
	}

	switch msg.Reply.Kind {
	case session.ReplyCrisis:
		a.appendChat("\n" + a.theme.CrisisStyle.Render(msg.Reply.Text))
	default:
		rendered := RenderMarkdown(msg.Reply.Text, a.chatWidth())
		if rendered == "" {
			rendered = msg.Reply.Text
		}
		a.appendChat("\n" + rendered)
	}
	return a, nil
}

// --- 内部方法 / Internal methods ---

func (a *App) relayout() {
	width := a.chatWidth()
	height := a.height - 8
	if height < 3 {
		height = 3
	}
	a.chatView = viewport.New(width, height)
	a.chatView.SetContent(a.chatContent)
	a.input.SetWidth(width - 4)
	a.passInput.Width = 24
	a.freeInput.Width = 32
}

func (a App) chatWidth() int {
	if a.width == 0 {
		return 80
	}
	return a.width - 2
}

func (a *App) appendChat(text string) {
	a.chatContent += text + "\n"
	a.chatView.SetContent(a.chatContent)
	a.chatView.GotoBottom()
}

// --- 渲染方法 / Render methods ---

func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}

	var body string
	switch a.view {
	case ViewLock:
		body = a.viewLock()
	case ViewMood:
		body = a.viewMood()
	case ViewChat:
		body = a.viewChat()
	case ViewSummary:
		body = a.viewSummary()
	case ViewList:
		body = a.viewList()
	case ViewCalendar:
		body = a.viewCalendar()
	case ViewTrash:
		body = a.viewTrash()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, a.renderStatusBar(a.width))
}

func (a App) viewLock() string {
	var parts []string
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("lock.title")))
	parts = append(parts, "")
	parts = append(parts, "  "+a.passInput.View())
	if a.lastError != "" {
		parts = append(parts, "", "  "+a.theme.ErrorStyle.Render(a.lastError))
	}
	return strings.Join(parts, "\n")
}

func (a App) viewMood() string {
	var parts []string
	parts = append(parts, a.renderTabs())
	parts = append(parts, "")
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("mood.title")))
	parts = append(parts, "")
	for i, m := range diary.Moods() {
		label := fmt.Sprintf("%s %s", m.Glyph(), a.locale.T("mood."+string(m)))
		if i == a.moodCursor {
			parts = append(parts, " "+a.theme.SelectedStyle.Render(label))
		} else {
			parts = append(parts, "  "+label)
		}
	}
	parts = append(parts, "")
	parts = append(parts, a.theme.MutedStyle.Render("  "+a.locale.T("keys.select")+" · "+a.locale.T("keys.tab")))
	return strings.Join(parts, "\n")
}

func (a App) viewChat() string {
	title := a.theme.TitleStyle.Render(" " + a.locale.T("chat.title") + " " + a.sess.Mood().Glyph())
	hint := a.theme.MutedStyle.Render(" " + a.locale.T("chat.end_hint"))
	inputBox := a.theme.InputStyle.Width(a.chatWidth()).Render(a.input.View())
	if a.waiting {
		hint = a.theme.MutedStyle.Render(" " + a.locale.T("chat.waiting"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, a.chatView.View(), hint, inputBox)
}

func (a App) viewSummary() string {
	var parts []string
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("summary.title")))
	parts = append(parts, "")

	if !a.summaryReady {
		parts = append(parts, "  "+a.locale.T("status.thinking"))
		return strings.Join(parts, "\n")
	}

	parts = append(parts, "  "+a.summary.Summary)
	parts = append(parts, "")
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("summary.keywords")))
	parts = append(parts, a.theme.MutedStyle.Render(fmt.Sprintf("  "+a.locale.T("summary.pick_hint"), diary.MaxCuratedKeywords)))
	for i, kw := range a.summary.Keywords {
		mark := "[ ]"
		if a.kwSelected[i] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, a.theme.KeywordStyle.Render(kw))
		if i == a.kwCursor && !a.freeFocused {
			parts = append(parts, " "+a.theme.SelectedStyle.Render(line))
		} else {
			parts = append(parts, "  "+line)
		}
	}
	parts = append(parts, "  e: "+a.freeInput.View())
	parts = append(parts, "")
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("summary.actions")))
	for _, item := range a.summary.ActionItems {
		parts = append(parts, "  • "+item)
	}
	parts = append(parts, "")
	parts = append(parts, a.theme.MutedStyle.Render(
		"  s: "+a.locale.T("summary.save")+
			" · d: "+a.locale.T("summary.discard")+
			" · esc: "+a.locale.T("summary.back")))
	return strings.Join(parts, "\n")
}

func (a App) viewList() string {
	var parts []string
	parts = append(parts, a.renderTabs())
	parts = append(parts, "")
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("list.title")))
	parts = append(parts, "")

	entries := a.sess.Store().Recent()
	if len(entries) == 0 {
		parts = append(parts, a.theme.MutedStyle.Render("  "+a.locale.T("list.empty")))
		return strings.Join(parts, "\n")
	}

	for i, e := range entries {
		line := fmt.Sprintf("%s %s  %s", e.Date.Format("2006-01-02"), e.Glyph(), e.Preview())
		if i == a.listCursor {
			parts = append(parts, " "+a.theme.SelectedStyle.Render(line))
		} else {
			parts = append(parts, "  "+line)
		}
	}

	// 选中条目详情 / Details of the selected entry
	if a.listCursor < len(entries) {
		e := entries[a.listCursor]
		parts = append(parts, "")
		if len(e.Keywords) > 0 {
			parts = append(parts, "  "+a.theme.KeywordStyle.Render(strings.Join(e.Keywords, " ")))
		}
		for _, item := range e.ActionItems {
			parts = append(parts, "  • "+item)
		}
	}
	return strings.Join(parts, "\n")
}

func (a App) viewCalendar() string {
	entries := a.sess.Store().Entries()
	var parts []string
	parts = append(parts, a.renderTabs())
	parts = append(parts, "")
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("calendar.title")))
	parts = append(parts, "")
	cells := calendar.Window(entries, time.Now(), a.calendarDays)
	parts = append(parts, RenderStrip(cells, a.theme))
	if len(cells) > 0 {
		// 今天的提示行 / Today's tooltip line
		parts = append(parts, a.theme.MutedStyle.Render("  "+cells[len(cells)-1].Tooltip))
	}
	parts = append(parts, "")
	parts = append(parts, a.theme.TitleStyle.Render(fmt.Sprintf(" %d-%02d", a.calYear, a.calMonth)))
	parts = append(parts, RenderMonthGrid(calendar.Month(entries, a.calYear, a.calMonth), a.theme))
	parts = append(parts, "")
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("calendar.stats")))
	parts = append(parts, RenderStats(calendar.MonthStats(entries, a.calYear, a.calMonth), a.theme))
	return strings.Join(parts, "\n")
}

func (a App) viewTrash() string {
	var parts []string
	parts = append(parts, a.renderTabs())
	parts = append(parts, "")
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("trash.title")))
	retentionDays := int(diary.TrashRetention.Hours() / 24)
	parts = append(parts, a.theme.MutedStyle.Render(fmt.Sprintf("  "+a.locale.T("trash.note"), retentionDays)))
	parts = append(parts, "")

	trash := a.sess.Store().Trash(time.Now())
	if len(trash) == 0 {
		parts = append(parts, a.theme.MutedStyle.Render("  "+a.locale.T("trash.empty")))
		return strings.Join(parts, "\n")
	}

	for i, d := range trash {
		line := fmt.Sprintf("%s %s  %s", d.Entry.Date.Format("2006-01-02"), d.Entry.Glyph(), d.Entry.Preview())
		if i == a.trashCursor {
			parts = append(parts, " "+a.theme.SelectedStyle.Render(line))
		} else {
			parts = append(parts, "  "+line)
		}
	}
	parts = append(parts, "")
	parts = append(parts, a.theme.MutedStyle.Render(
		"  r: "+a.locale.T("trash.restore")+" · x: "+a.locale.T("trash.delete")))
	return strings.Join(parts, "\n")
}

func (a App) renderTabs() string {
	tabs := []struct {
		view View
		name string
	}{
		{ViewMood, a.locale.T("mood.title")},
		{ViewList, a.locale.T("list.title")},
		{ViewCalendar, a.locale.T("calendar.title")},
		{ViewTrash, a.locale.T("trash.title")},
	}
	var parts []string
	for _, tab := range tabs {
		style := a.theme.InactiveTabStyle
		if tab.view == a.view {
			style = a.theme.ActiveTabStyle
		}
		parts = append(parts, style.Render(tab.name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) renderStatusBar(width int) string {
	left := " " + a.status
	if a.lastError != "" {
		left = " " + a.lastError
	}
	right := fmt.Sprintf("tokens %d/%d  ", a.sess.Usage(), a.sess.Budget())

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + strings.Repeat(" ", gap) + right
	return a.theme.StatusBarStyle.Width(width).Render(bar)
}

// Run 启动 Bubble Tea TUI
// Run starts the Bubble Tea TUI application
func Run(sess *session.Session, password string, calendarDays int) error {
	app := NewApp(sess, password, calendarDays)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
