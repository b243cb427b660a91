package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ProviderConfig configures the external model collaborator.
type ProviderConfig struct {
	BaseURL     string  `json:"base_url"`
	Model       string  `json:"model"`
	APIKey      string  `json:"api_key"`
	TimeoutMS   int     `json:"timeout_ms"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// AppConfig configures the diary session itself.
type AppConfig struct {
	// Password is the single shared secret gating the whole session.
	// Plain equality match, no accounts.
	Password      string `json:"password"`
	TokenBudget   int    `json:"token_budget"`
	HistoryWindow int    `json:"history_window"`
	CalendarDays  int    `json:"calendar_days"`
	Locale        string `json:"locale"`
}

// StorageConfig configures where logs and the optional archive live.
type StorageConfig struct {
	BaseDir string `json:"base_dir"`
	// Archive enables the SQLite save-point; the in-memory store stays the
	// source of truth either way.
	Archive     bool   `json:"archive"`
	ArchivePath string `json:"archive_path"`
}

type Config struct {
	Provider ProviderConfig `json:"provider"`
	App      AppConfig      `json:"app"`
	Storage  StorageConfig  `json:"storage"`
}

type fileAppConfig struct {
	Password      *string `json:"password"`
	TokenBudget   *int    `json:"token_budget"`
	HistoryWindow *int    `json:"history_window"`
	CalendarDays  *int    `json:"calendar_days"`
	Locale        *string `json:"locale"`
}

type fileStorageConfig struct {
	BaseDir     *string `json:"base_dir"`
	Archive     *bool   `json:"archive"`
	ArchivePath *string `json:"archive_path"`
}

type fileConfig struct {
	Provider *ProviderConfig    `json:"provider"`
	App      *fileAppConfig     `json:"app"`
	Storage  *fileStorageConfig `json:"storage"`
}

func Default() Config {
	return Config{
		Provider: ProviderConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-3.5-turbo",
			TimeoutMS:   30000,
			Temperature: 0.7,
			MaxTokens:   300,
		},
		App: AppConfig{
			TokenBudget:   3000,
			HistoryWindow: 10,
			CalendarDays:  30,
			Locale:        "en",
		},
		Storage: StorageConfig{
			BaseDir: "~/.moodiary",
			Archive: false,
		},
	}
}

// Load merges, in order: defaults, ~/.moodiary/config.json, the project
// config (diary.config.json or .moodiary/config.json, or the explicit path /
// DIARY_CONFIG_PATH), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("DIARY_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	return applyEnv(cfg)
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".moodiary", "config.json")}
}

func findProjectConfigPath() string {
	candidates := []string{
		"diary.config.json",
		".moodiary/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	cleaned := stripJSONComments(data)
	var fileCfg fileConfig
	if err := json.Unmarshal(cleaned, &fileCfg); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Provider != nil {
		cfg.Provider = mergeProvider(cfg.Provider, *fc.Provider)
	}
	if fc.App != nil {
		if fc.App.Password != nil {
			cfg.App.Password = *fc.App.Password
		}
		if fc.App.TokenBudget != nil {
			cfg.App.TokenBudget = *fc.App.TokenBudget
		}
		if fc.App.HistoryWindow != nil {
			cfg.App.HistoryWindow = *fc.App.HistoryWindow
		}
		if fc.App.CalendarDays != nil {
			cfg.App.CalendarDays = *fc.App.CalendarDays
		}
		if fc.App.Locale != nil {
			cfg.App.Locale = *fc.App.Locale
		}
	}
	if fc.Storage != nil {
		if fc.Storage.BaseDir != nil && strings.TrimSpace(*fc.Storage.BaseDir) != "" {
			cfg.Storage.BaseDir = *fc.Storage.BaseDir
		}
		if fc.Storage.Archive != nil {
			cfg.Storage.Archive = *fc.Storage.Archive
		}
		if fc.Storage.ArchivePath != nil && strings.TrimSpace(*fc.Storage.ArchivePath) != "" {
			cfg.Storage.ArchivePath = *fc.Storage.ArchivePath
		}
	}
}

func mergeProvider(base ProviderConfig, override ProviderConfig) ProviderConfig {
	if strings.TrimSpace(override.BaseURL) != "" {
		base.BaseURL = override.BaseURL
	}
	if strings.TrimSpace(override.Model) != "" {
		base.Model = override.Model
	}
	if strings.TrimSpace(override.APIKey) != "" {
		base.APIKey = override.APIKey
	}
	if override.TimeoutMS > 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	if override.Temperature > 0 {
		base.Temperature = override.Temperature
	}
	if override.MaxTokens > 0 {
		base.MaxTokens = override.MaxTokens
	}
	return base
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("DIARY_BASE_URL")); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DIARY_MODEL")); v != "" {
		cfg.Provider.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("DIARY_API_KEY")); v != "" {
		cfg.Provider.APIKey = v
	} else if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("DIARY_PASSWORD"); v != "" {
		cfg.App.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("DIARY_LANG")); v != "" {
		cfg.App.Locale = v
	}
	if v := strings.TrimSpace(os.Getenv("DIARY_TOKEN_BUDGET")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid DIARY_TOKEN_BUDGET: %q", v)
		}
		cfg.App.TokenBudget = n
	}
	if v := strings.TrimSpace(os.Getenv("DIARY_DATA_DIR")); v != "" {
		cfg.Storage.BaseDir = v
	}

	return cfg, normalize(&cfg)
}

func normalize(cfg *Config) error {
	def := Default()
	if strings.TrimSpace(cfg.Provider.BaseURL) == "" {
		cfg.Provider.BaseURL = def.Provider.BaseURL
	}
	if strings.TrimSpace(cfg.Provider.Model) == "" {
		cfg.Provider.Model = def.Provider.Model
	}
	if cfg.Provider.TimeoutMS <= 0 {
		cfg.Provider.TimeoutMS = def.Provider.TimeoutMS
	}
	if cfg.Provider.Temperature <= 0 {
		cfg.Provider.Temperature = def.Provider.Temperature
	}
	if cfg.Provider.MaxTokens <= 0 {
		cfg.Provider.MaxTokens = def.Provider.MaxTokens
	}
	if cfg.App.TokenBudget <= 0 {
		cfg.App.TokenBudget = def.App.TokenBudget
	}
	if cfg.App.HistoryWindow <= 0 {
		cfg.App.HistoryWindow = def.App.HistoryWindow
	}
	if cfg.App.CalendarDays <= 0 {
		cfg.App.CalendarDays = def.App.CalendarDays
	}
	if strings.TrimSpace(cfg.App.Locale) == "" {
		cfg.App.Locale = def.App.Locale
	}

	baseDir, err := expandPath(cfg.Storage.BaseDir)
	if err != nil {
		return err
	}
	if baseDir == "" {
		baseDir, err = expandPath(def.Storage.BaseDir)
		if err != nil {
			return err
		}
	}
	cfg.Storage.BaseDir = baseDir
	if strings.TrimSpace(cfg.Storage.ArchivePath) == "" {
		cfg.Storage.ArchivePath = filepath.Join(baseDir, "diary.db")
	} else {
		p, err := expandPath(cfg.Storage.ArchivePath)
		if err != nil {
			return err
		}
		cfg.Storage.ArchivePath = p
	}
	return nil
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}
