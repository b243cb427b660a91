// Package session orchestrates one mood→chat→summary cycle against the
// external model and owns all session-scoped state: the diary store, the
// trash, the context window, the in-progress draft, and the token counter.
// One caller per interaction; no hidden globals.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"moodiary/internal/chat"
	"moodiary/internal/diary"
	"moodiary/internal/parse"
	"moodiary/internal/prompt"
	"moodiary/internal/provider"
	"moodiary/internal/safety"
	"moodiary/internal/tokens"
)

// State 会话状态机的状态
// State is the conversation state machine position.
type State int

const (
	StateMoodSelection State = iota
	StateChat
	StateSummary
)

func (s State) String() string {
	switch s {
	case StateMoodSelection:
		return "mood_selection"
	case StateChat:
		return "chat"
	case StateSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// Defaults for the session configuration.
const (
	DefaultTokenBudget   = 3000
	DefaultHistoryWindow = 10
	DefaultTemperature   = 0.7
	DefaultMaxTokens     = 300
)

// ApologyReply is the fixed assistant outcome surfaced on model failure.
// Nothing is appended to history and no tokens are charged.
const ApologyReply = "I'm sorry, I couldn't listen properly just now. Could you try telling me again in a little while?"

// CrisisMessage is the static safety response shown instead of a model call
// when the content filter matches. The conversation state is preserved.
const CrisisMessage = `It sounds like you are going through something really painful right now. You don't have to carry this alone.

Please consider reaching out to a crisis line or a mental health professional. In many countries you can dial or text 988, or find local services at findahelpline.com. If you are in immediate danger, contact your local emergency number.

I'm still here if you want to keep writing.`

// Sentinel errors of the local validation taxonomy. None of them mutate
// state; the caller re-prompts.
var (
	ErrWrongState      = errors.New("operation not valid in current state")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrNoMessages      = errors.New("chat has no messages yet")
	ErrBudgetExhausted = errors.New("session token budget exhausted")
)

// ReplyKind classifies the outcome of a chat turn.
type ReplyKind int

const (
	// ReplyAssistant is a normal model reply, appended to history.
	ReplyAssistant ReplyKind = iota
	// ReplyCrisis is the safety diversion; no call made, no history change.
	ReplyCrisis
	// ReplyApology is the soft-failure fallback; no history change, no charge.
	ReplyApology
)

// Reply is the outcome of one chat turn handed to the presentation layer.
type Reply struct {
	Kind          ReplyKind
	Text          string
	TokensCharged int
}

// Config tunes one session. Zero values fall back to the defaults above.
type Config struct {
	Model         string
	Temperature   float64
	MaxTokens     int
	TokenBudget   int
	HistoryWindow int
}

func (c Config) withDefaults() Config {
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.TokenBudget <= 0 {
		c.TokenBudget = DefaultTokenBudget
	}
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = DefaultHistoryWindow
	}
	return c
}

// draft is the transient, never-persisted in-progress cycle.
type draft struct {
	mood     diary.Mood
	messages []chat.Message
	summary  *parse.Result
	curated  []string
}

// Session 单用户的情绪日记会话
// Session drives user input through the content filter and prompt builder to
// the model, and commits finished entries into the store. All external-model
// failures are soft: the session degrades and continues.
type Session struct {
	provider provider.Provider
	counter  *tokens.Counter
	log      zerolog.Logger
	cfg      Config

	store  *diary.Store
	window *diary.ContextWindow

	state State
	draft *draft
	usage int
}

// New creates a session around a store. The store may be pre-wired with a
// save-point hook by the caller.
func New(p provider.Provider, store *diary.Store, cfg Config, log zerolog.Logger) *Session {
	if store == nil {
		store = diary.NewStore()
	}
	return &Session{
		provider: p,
		counter:  tokens.Default(),
		log:      log,
		cfg:      cfg.withDefaults(),
		store:    store,
		window:   &diary.ContextWindow{},
		state:    StateMoodSelection,
	}
}

// Store exposes the diary store for the read-only list/calendar/trash views.
func (s *Session) Store() *diary.Store { return s.store }

// Context exposes the rolling context window.
func (s *Session) Context() *diary.ContextWindow { return s.window }

// State returns the current state machine position.
func (s *Session) State() State { return s.state }

// Usage returns tokens charged so far this session.
func (s *Session) Usage() int { return s.usage }

// Budget returns the session-wide token ceiling.
func (s *Session) Budget() int { return s.cfg.TokenBudget }

// BudgetExhausted reports whether further model calls are blocked.
func (s *Session) BudgetExhausted() bool { return s.usage >= s.cfg.TokenBudget }

// Mood returns the draft's mood, or the zero mood outside a cycle.
func (s *Session) Mood() diary.Mood {
	if s.draft == nil {
		return ""
	}
	return s.draft.mood
}

// Messages returns a copy of the draft's message history.
func (s *Session) Messages() []chat.Message {
	if s.draft == nil {
		return nil
	}
	out := make([]chat.Message, len(s.draft.messages))
	copy(out, s.draft.messages)
	return out
}

// PickMood starts a cycle: records the mood, resets the history, and moves
// to the chat state.
func (s *Session) PickMood(m diary.Mood) error {
	if s.state != StateMoodSelection {
		return ErrWrongState
	}
	if !m.Valid() {
		return errors.New("unknown mood")
	}
	s.draft = &draft{mood: m}
	s.state = StateChat
	return nil
}

// SendMessage runs one chat turn. Empty input and an exhausted budget are
// rejected without state change; filtered content diverts to the crisis
// message without a model call; model failure surfaces the apology without
// touching history or the token counter.
func (s *Session) SendMessage(ctx context.Context, text string) (Reply, error) {
	if s.state != StateChat || s.draft == nil {
		return Reply{}, ErrWrongState
	}
	if strings.TrimSpace(text) == "" {
		return Reply{}, ErrEmptyMessage
	}
	if s.BudgetExhausted() {
		return Reply{}, ErrBudgetExhausted
	}
	if safety.IsHarmful(text) {
		return Reply{Kind: ReplyCrisis, Text: CrisisMessage}, nil
	}

	system := prompt.BuildSystemPrompt(string(s.draft.mood), s.window.Recent(prompt.ContextEntriesInPrompt))
	userTurn := chat.User(prompt.BuildUserTurn(string(s.draft.mood), text))

	msgs := []chat.Message{chat.System(system)}
	msgs = append(msgs, chat.Tail(s.draft.messages, s.cfg.HistoryWindow)...)
	msgs = append(msgs, userTurn)

	resp, err := s.chat(ctx, msgs)
	if err != nil {
		s.log.Warn().Err(err).Msg("chat turn failed, degrading to apology")
		return Reply{Kind: ReplyApology, Text: ApologyReply}, nil
	}

	charged := s.charge(msgs, resp)
	s.draft.messages = append(s.draft.messages, chat.User(text), chat.Assistant(resp.Content))
	return Reply{Kind: ReplyAssistant, Text: resp.Content, TokensCharged: charged}, nil
}

// EndChat moves to the summary state; allowed only once the chat has turns.
func (s *Session) EndChat() error {
	if s.state != StateChat || s.draft == nil {
		return ErrWrongState
	}
	if len(s.draft.messages) == 0 {
		return ErrNoMessages
	}
	s.state = StateSummary
	return nil
}

// Summarize computes the draft summary once and caches it for the rest of
// the cycle. An exhausted budget or any model/parse failure degrades to the
// parser's fixed defaults; this never fails the caller.
func (s *Session) Summarize(ctx context.Context) parse.Result {
	if s.state != StateSummary || s.draft == nil {
		return parse.ParseSummary("")
	}
	if s.draft.summary != nil {
		return *s.draft.summary
	}

	result := parse.ParseSummary("")
	if !s.BudgetExhausted() {
		system, user := prompt.BuildSummaryRequest(chat.UserTexts(s.draft.messages))
		msgs := []chat.Message{chat.System(system), chat.User(user)}
		resp, err := s.chat(ctx, msgs)
		if err != nil {
			s.log.Warn().Err(err).Msg("summarization failed, using defaults")
		} else {
			s.charge(msgs, resp)
			result = parse.ParseSummary(resp.Content)
		}
	}

	s.draft.summary = &result
	return result
}

// CurateKeywords records the user's keyword pick: up to MaxCuratedKeywords
// selections from the suggested set plus one optional free keyword, which is
// auto-prefixed with the marker. Anything beyond the cap is truncated and
// reported so the caller can warn.
func (s *Session) CurateKeywords(selected []string, free string) (kept []string, truncated bool) {
	if s.state != StateSummary || s.draft == nil {
		return nil, false
	}
	combined := make([]string, 0, len(selected)+1)
	for _, k := range selected {
		k = strings.TrimSpace(k)
		if k != "" {
			combined = append(combined, k)
		}
	}
	if f := parse.EnsureMarker(free); f != "" {
		combined = append(combined, f)
	}
	if len(combined) > diary.MaxCuratedKeywords {
		combined = combined[:diary.MaxCuratedKeywords]
		truncated = true
	}
	if len(combined) == 0 {
		// Nothing picked keeps the generated keywords.
		s.draft.curated = nil
		return nil, false
	}
	s.draft.curated = combined
	return append([]string(nil), combined...), truncated
}

// Save commits the draft as a diary entry, pushes its context record, clears
// the draft, and returns to mood selection.
func (s *Session) Save(now time.Time) (diary.Entry, error) {
	if s.state != StateSummary || s.draft == nil {
		return diary.Entry{}, ErrWrongState
	}
	summary := s.draft.summary
	if summary == nil {
		r := parse.ParseSummary("")
		summary = &r
	}
	keywords := s.draft.curated
	if keywords == nil {
		keywords = summary.Keywords
	}

	entry := s.store.Commit(diary.Entry{
		Date:        now,
		Mood:        s.draft.mood,
		Messages:    append([]chat.Message(nil), s.draft.messages...),
		Summary:     summary.Summary,
		Keywords:    append([]string(nil), keywords...),
		ActionItems: append([]string(nil), summary.ActionItems...),
	})
	s.window.Push(diary.ContextEntry{
		Date:        entry.Date,
		Mood:        entry.Mood,
		Summary:     entry.Summary,
		ActionItems: append([]string(nil), entry.ActionItems...),
	})
	s.reset()
	return entry, nil
}

// Discard wraps the would-be entry straight into the trash, clears the
// draft, and returns to mood selection.
func (s *Session) Discard(now time.Time) error {
	if s.state != StateSummary || s.draft == nil {
		return ErrWrongState
	}
	summary := s.draft.summary
	if summary == nil {
		r := parse.ParseSummary("")
		summary = &r
	}
	s.store.TrashDirect(diary.Entry{
		Date:        now,
		Mood:        s.draft.mood,
		Messages:    append([]chat.Message(nil), s.draft.messages...),
		Summary:     summary.Summary,
		Keywords:    append([]string(nil), summary.Keywords...),
		ActionItems: append([]string(nil), summary.ActionItems...),
	}, now)
	s.reset()
	return nil
}

// Back returns from summary to chat without clearing the history. The cached
// summary survives; it is never recomputed for the same draft.
func (s *Session) Back() error {
	if s.state != StateSummary {
		return ErrWrongState
	}
	s.state = StateChat
	return nil
}

// Abandon drops the draft (nothing is stored) and returns to mood selection.
// Also the route the caller takes when told the budget is exhausted.
func (s *Session) Abandon() {
	s.reset()
}

// SingleShot runs the one-submission variant: one emotion-tagged entry, one
// empathetic reply, committed immediately on success. Crisis and failure
// outcomes commit nothing.
func (s *Session) SingleShot(ctx context.Context, emotion diary.Emotion, text string, now time.Time) (Reply, diary.Entry, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, diary.Entry{}, ErrEmptyMessage
	}
	if !emotion.Valid() {
		emotion = diary.EmotionUnspecified
	}
	if s.BudgetExhausted() {
		return Reply{}, diary.Entry{}, ErrBudgetExhausted
	}
	if safety.IsHarmful(text) {
		return Reply{Kind: ReplyCrisis, Text: CrisisMessage}, diary.Entry{}, nil
	}

	system := prompt.BuildSystemPrompt(string(emotion), s.window.Recent(prompt.ContextEntriesInPrompt))
	msgs := []chat.Message{
		chat.System(system),
		chat.User(prompt.BuildUserTurn(string(emotion), text)),
	}
	resp, err := s.chat(ctx, msgs)
	if err != nil {
		s.log.Warn().Err(err).Msg("single-shot turn failed, degrading to apology")
		return Reply{Kind: ReplyApology, Text: ApologyReply}, diary.Entry{}, nil
	}
	charged := s.charge(msgs, resp)

	entry := s.store.Commit(diary.Entry{
		Date:    now,
		Emotion: emotion,
		Text:    strings.TrimSpace(text),
		Messages: []chat.Message{
			chat.User(strings.TrimSpace(text)),
			chat.Assistant(resp.Content),
		},
	})
	return Reply{Kind: ReplyAssistant, Text: resp.Content, TokensCharged: charged}, entry, nil
}

func (s *Session) chat(ctx context.Context, msgs []chat.Message) (provider.ChatResponse, error) {
	temp := s.cfg.Temperature
	return s.provider.Chat(ctx, provider.ChatRequest{
		Model:       s.cfg.Model,
		Messages:    msgs,
		Temperature: &temp,
		MaxTokens:   s.cfg.MaxTokens,
	}, nil)
}

// charge adds the call's token cost to the running counter, estimating with
// the tokenizer when the provider reported no usage.
func (s *Session) charge(sent []chat.Message, resp provider.ChatResponse) int {
	cost := resp.Usage.TotalTokens
	if cost <= 0 {
		cost = s.counter.Count(sent) + s.counter.CountText(resp.Content)
	}
	s.usage += cost
	return cost
}

func (s *Session) reset() {
	s.draft = nil
	s.state = StateMoodSelection
}
