package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"moodiary/internal/archive"
	"moodiary/internal/config"
	"moodiary/internal/diary"
	"moodiary/internal/i18n"
	"moodiary/internal/logging"
	"moodiary/internal/provider"
	"moodiary/internal/repl"
	"moodiary/internal/session"
	"moodiary/internal/tui"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

func main() {
	var (
		configPath string
		lineMode   bool
		logLevel   string
	)
	flag.StringVar(&configPath, "config", "", "Path to config JSON/JSONC")
	flag.BoolVar(&lineMode, "line", false, "Line mode: one entry per submission, no full-screen UI")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	i18n.Init(cfg.App.Locale)
	logging.SetLevel(logLevel)

	// 无 TTY 时自动降级到行模式 / A missing TTY forces line mode
	useLine := lineMode || !term.IsTerminal(int(os.Stdout.Fd()))

	// The full-screen UI owns the terminal, so it logs to a file. Line
	// mode shares the terminal and logs to stderr instead.
	var logger zerolog.Logger
	closeLog := func() error { return nil }
	if useLine {
		logger = logging.NewConsole()
	} else {
		logger, closeLog = logging.New(cfg.Storage.BaseDir)
	}
	defer func() { _ = closeLog() }()

	prov := provider.NewOpenAIProvider(provider.OpenAIConfig{
		BaseURL:   cfg.Provider.BaseURL,
		APIKey:    cfg.Provider.APIKey,
		Model:     cfg.Provider.Model,
		TimeoutMS: cfg.Provider.TimeoutMS,
	})

	store := diary.NewStore()
	if cfg.Storage.Archive {
		ar, err := archive.New(cfg.Storage.ArchivePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open archive failed: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = ar.Close() }()

		entries, trash, err := ar.Load()
		if err != nil {
			logger.Warn().Err(err).Msg("archive load failed, starting empty")
		} else {
			store.Seed(entries, trash)
		}
		store.SetHook(ar)
	}

	sess := session.New(prov, store, session.Config{
		Model:         cfg.Provider.Model,
		Temperature:   cfg.Provider.Temperature,
		MaxTokens:     cfg.Provider.MaxTokens,
		TokenBudget:   cfg.App.TokenBudget,
		HistoryWindow: cfg.App.HistoryWindow,
	}, logger)

	logger.Info().
		Str("model", cfg.Provider.Model).
		Bool("archive", cfg.Storage.Archive).
		Msg("diary started")

	if useLine {
		runLine(sess, cfg)
		return
	}

	if err := tui.Run(sess, cfg.App.Password, cfg.App.CalendarDays); err != nil {
		fmt.Fprintf(os.Stderr, "ui failed: %v\n", err)
		os.Exit(1)
	}
}

func runLine(sess *session.Session, cfg config.Config) {
	in, err := repl.NewLineReader(filepath.Join(cfg.Storage.BaseDir, "line.history"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "line editor unavailable: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = in.Close() }()

	loop := repl.NewLoop(sess, in, os.Stdout, cfg.App.Password, cfg.App.CalendarDays)
	if err := loop.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "line mode failed: %v\n", err)
		os.Exit(1)
	}
}
