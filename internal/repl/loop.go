// Package repl implements the line-mode frontend: one emotion-tagged entry
// per submission with an immediate empathetic reply, plus read-only list,
// calendar, and trash commands. It is the fallback for terminals where the
// full-screen UI is unwanted (pipes, scripts, minimal shells).
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"moodiary/internal/calendar"
	"moodiary/internal/diary"
	"moodiary/internal/i18n"
	"moodiary/internal/session"

	"github.com/chzyer/readline"
)

// ANSI colors for prompts and replies.
const (
	ansiReset  = "\x1b[0m"
	ansiDim    = "\x1b[90m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiBold   = "\x1b[1m"
)

const requestTimeout = 60 * time.Second

// LineReader 行输入抽象 / LineReader abstracts line input so the loop can be
// tested without a terminal.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

type basicLineReader struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewBasicLineReader reads plain lines from in, echoing prompts to out.
func NewBasicLineReader(in io.Reader, out io.Writer) LineReader {
	return &basicLineReader{reader: bufio.NewReader(in), out: out}
}

func (b *basicLineReader) ReadLine(prompt string) (string, error) {
	if b.out != nil {
		fmt.Fprint(b.out, prompt)
	}
	line, err := b.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *basicLineReader) Close() error { return nil }

type readlineReader struct {
	instance *readline.Instance
}

// NewReadlineReader builds a readline-backed reader with persistent history.
func NewReadlineReader(historyPath string) (LineReader, error) {
	if historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	instance, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyPath,
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, err
	}
	return &readlineReader{instance: instance}, nil
}

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	return r.instance.Readline()
}

func (r *readlineReader) Close() error {
	if r == nil || r.instance == nil {
		return nil
	}
	return r.instance.Close()
}

// NewLineReader prefers readline and falls back to plain buffered input.
func NewLineReader(historyPath string) (LineReader, error) {
	rl, err := NewReadlineReader(historyPath)
	if err == nil {
		return rl, nil
	}
	return NewBasicLineReader(os.Stdin, os.Stdout), nil
}

// Loop 持有行模式状态 / Loop holds line-mode state.
type Loop struct {
	sess         *session.Session
	in           LineReader
	out          io.Writer
	locale       *i18n.I18n
	password     string
	calendarDays int
}

// NewLoop builds a line-mode loop. An empty password skips the gate.
func NewLoop(sess *session.Session, in LineReader, out io.Writer, password string, calendarDays int) *Loop {
	return &Loop{
		sess:         sess,
		in:           in,
		out:          out,
		locale:       i18n.Global(),
		password:     password,
		calendarDays: calendarDays,
	}
}

// Run drives the loop until quit or EOF.
func (l *Loop) Run() error {
	if err := l.gate(); err != nil {
		return err
	}

	fmt.Fprintf(l.out, "%s%s%s\n", ansiBold, l.locale.T("lock.title"), ansiReset)
	l.printMenu()

	for {
		input, err := l.in.ReadLine("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)

		switch input {
		case "":
			continue
		case "q", "quit":
			return nil
		case "l", "list":
			l.printList()
		case "c", "calendar":
			l.printCalendar()
		case "t", "trash":
			l.printTrash()
		case "h", "help":
			l.printMenu()
		default:
			if err := l.record(input); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		}
	}
}

// gate asks for the password until it matches.
func (l *Loop) gate() error {
	for l.password != "" {
		input, err := l.in.ReadLine(l.locale.T("lock.prompt") + ": ")
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == l.password {
			return nil
		}
		fmt.Fprintf(l.out, "%s%s%s\n", ansiRed, l.locale.T("lock.wrong"), ansiReset)
	}
	return nil
}

// record runs one single-shot entry: choice picks the emotion, then the
// entry text is read and submitted.
func (l *Loop) record(choice string) error {
	emotions := diary.Emotions()
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(emotions) {
		l.printMenu()
		return nil
	}
	emotion := emotions[idx-1]

	text, err := l.in.ReadLine(emotion.Glyph() + " " + l.locale.T("chat.placeholder") + "\n> ")
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintf(l.out, "%s%s%s\n", ansiDim, l.locale.T("chat.empty"), ansiReset)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	reply, entry, err := l.sess.SingleShot(ctx, emotion, text, time.Now())
	if err != nil {
		if errors.Is(err, session.ErrBudgetExhausted) {
			fmt.Fprintf(l.out, "%s%s%s\n", ansiYellow, l.locale.T("chat.budget"), ansiReset)
			return nil
		}
		fmt.Fprintf(l.out, "%s%s%s\n", ansiRed, l.locale.T("error.provider", err.Error()), ansiReset)
		return nil
	}

	switch reply.Kind {
	case session.ReplyCrisis:
		fmt.Fprintf(l.out, "%s%s%s\n", ansiRed, reply.Text, ansiReset)
	case session.ReplyApology:
		fmt.Fprintf(l.out, "%s%s%s\n", ansiDim, reply.Text, ansiReset)
	default:
		fmt.Fprintf(l.out, "%s%s%s\n", ansiGreen, reply.Text, ansiReset)
		fmt.Fprintf(l.out, "%s%s (%s)%s\n", ansiDim, l.locale.T("summary.saved"), entry.Date.Format("2006-01-02"), ansiReset)
	}
	return nil
}

func (l *Loop) printMenu() {
	fmt.Fprintf(l.out, "%s\n", l.locale.T("mood.title"))
	for i, e := range diary.Emotions() {
		fmt.Fprintf(l.out, "  %d. %s %s\n", i+1, e.Glyph(), l.locale.T("emotion."+string(e)))
	}
	fmt.Fprintf(l.out, "%s  l:%s  c:%s  t:%s  q:quit%s\n",
		ansiDim, l.locale.T("list.title"), l.locale.T("calendar.title"), l.locale.T("trash.title"), ansiReset)
}

func (l *Loop) printList() {
	entries := l.sess.Store().Recent()
	if len(entries) == 0 {
		fmt.Fprintf(l.out, "%s%s%s\n", ansiDim, l.locale.T("list.empty"), ansiReset)
		return
	}
	for _, e := range entries {
		fmt.Fprintf(l.out, "%s %s  %s\n", e.Date.Format("2006-01-02"), e.Glyph(), e.Preview())
		if len(e.Keywords) > 0 {
			fmt.Fprintf(l.out, "  %s%s%s\n", ansiYellow, strings.Join(e.Keywords, " "), ansiReset)
		}
	}
}

func (l *Loop) printCalendar() {
	entries := l.sess.Store().Entries()
	cells := calendar.Window(entries, time.Now(), l.calendarDays)
	var glyphs []string
	for _, c := range cells {
		glyphs = append(glyphs, c.Glyphs)
	}
	fmt.Fprintf(l.out, "%s\n", strings.Join(glyphs, ""))

	now := time.Now()
	stats := calendar.MonthStats(entries, now.Year(), now.Month())
	for _, s := range stats {
		fmt.Fprintf(l.out, "  %s %s %d (%d%%)\n", s.Glyph, s.Label, s.Count, s.Percent)
	}
}

func (l *Loop) printTrash() {
	trash := l.sess.Store().Trash(time.Now())
	if len(trash) == 0 {
		fmt.Fprintf(l.out, "%s%s%s\n", ansiDim, l.locale.T("trash.empty"), ansiReset)
		return
	}
	for _, d := range trash {
		fmt.Fprintf(l.out, "%s %s  %s\n", d.Entry.Date.Format("2006-01-02"), d.Entry.Glyph(), d.Entry.Preview())
	}
}
