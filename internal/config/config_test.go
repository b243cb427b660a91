package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	for _, v := range []string{
		"DIARY_CONFIG_PATH", "DIARY_BASE_URL", "DIARY_MODEL", "DIARY_API_KEY",
		"OPENAI_API_KEY", "DIARY_PASSWORD", "DIARY_LANG", "DIARY_TOKEN_BUDGET",
		"DIARY_DATA_DIR",
	} {
		t.Setenv(v, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Model != "gpt-3.5-turbo" {
		t.Fatalf("model=%q", cfg.Provider.Model)
	}
	if cfg.Provider.Temperature != 0.7 || cfg.Provider.MaxTokens != 300 {
		t.Fatalf("sampling=%+v", cfg.Provider)
	}
	if cfg.App.TokenBudget != 3000 || cfg.App.CalendarDays != 30 {
		t.Fatalf("app=%+v", cfg.App)
	}
	if cfg.Storage.Archive {
		t.Fatal("archive should default off")
	}
	if cfg.Storage.ArchivePath == "" {
		t.Fatal("archive path should be derived from base dir")
	}
}

func TestLoadJSONCAndPrecedence(t *testing.T) {
	isolate(t)

	home, _ := os.UserHomeDir()
	globalDir := filepath.Join(home, ".moodiary")
	if err := os.MkdirAll(globalDir, 0o755); err != nil {
		t.Fatal(err)
	}
	globalCfg := `{
  // global
  "provider": {"model": "global-model"},
  "app": {"password": "global-pw", "locale": "ko"}
}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(globalCfg), 0o644); err != nil {
		t.Fatal(err)
	}
	projectCfg := `{
  "provider": {"model": "project-model"},
  "app": {"token_budget": 500}
}`
	if err := os.WriteFile("diary.config.json", []byte(projectCfg), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Model != "project-model" {
		t.Fatalf("model=%q", cfg.Provider.Model)
	}
	if cfg.App.Password != "global-pw" {
		t.Fatalf("password=%q", cfg.App.Password)
	}
	if cfg.App.Locale != "ko" {
		t.Fatalf("locale=%q", cfg.App.Locale)
	}
	if cfg.App.TokenBudget != 500 {
		t.Fatalf("budget=%d", cfg.App.TokenBudget)
	}
}

func TestEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("DIARY_MODEL", "env-model")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("DIARY_PASSWORD", "2752")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Model != "env-model" {
		t.Fatalf("model=%q", cfg.Provider.Model)
	}
	if cfg.Provider.APIKey != "sk-from-env" {
		t.Fatalf("api key=%q", cfg.Provider.APIKey)
	}
	if cfg.App.Password != "2752" {
		t.Fatalf("password=%q", cfg.App.Password)
	}
}

func TestEnvAPIKeyPrecedence(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("DIARY_API_KEY", "sk-diary")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.APIKey != "sk-diary" {
		t.Fatalf("api key=%q", cfg.Provider.APIKey)
	}
}

func TestInvalidTokenBudgetEnv(t *testing.T) {
	isolate(t)
	t.Setenv("DIARY_TOKEN_BUDGET", "not-a-number")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error")
	}
}

func TestStripJSONComments(t *testing.T) {
	in := []byte(`{
  // line comment
  "a": "value // not a comment",
  /* block
     comment */
  "b": 2
}`)
	out := stripJSONComments(in)
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("cleaned JSON invalid: %v\n%s", err, out)
	}
	if m["a"] != "value // not a comment" {
		t.Fatalf("a=%v", m["a"])
	}
}
