package i18n

import "testing"

func TestNew_English(t *testing.T) {
	i := New("en")
	if i.Locale() != "en" {
		t.Fatalf("Locale()=%q, want en", i.Locale())
	}
	got := i.T("mood.title")
	if got != "How are you feeling today?" {
		t.Fatalf("T(mood.title)=%q", got)
	}
}

func TestNew_Korean(t *testing.T) {
	i := New("ko")
	if i.Locale() != "ko" {
		t.Fatalf("Locale()=%q, want ko", i.Locale())
	}
	got := i.T("calendar.no_record")
	if got != "기록 없음" {
		t.Fatalf("T(calendar.no_record)=%q", got)
	}
}

func TestNew_KoreanFromLang(t *testing.T) {
	i := New("ko_KR.UTF-8")
	if i.Locale() != "ko" {
		t.Fatalf("Locale()=%q, want ko", i.Locale())
	}
	got := i.T("mood.good")
	if got != "좋음" {
		t.Fatalf("T(mood.good)=%q", got)
	}
}

func TestT_WithArgs(t *testing.T) {
	i := New("en")
	got := i.T("error.provider", "timeout")
	if got != "Provider error: timeout" {
		t.Fatalf("T with args=%q", got)
	}
}

func TestT_MissingKey(t *testing.T) {
	i := New("en")
	got := i.T("nonexistent.key")
	if got != "nonexistent.key" {
		t.Fatalf("T missing key=%q, want key itself", got)
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en_US.UTF-8", "en"},
		{"ko_KR.UTF-8", "ko"},
		{"ko", "ko"},
		{"EN", "en"},
		{"", "en"},
		{"fr-FR", "fr-FR"},
	}
	for _, tt := range tests {
		if got := normalizeLocale(tt.input); got != tt.expected {
			t.Fatalf("normalizeLocale(%q)=%q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestKoreanCatalogCoversEnglishKeys(t *testing.T) {
	for k := range KoMessages {
		if _, ok := EnMessages[k]; !ok {
			t.Fatalf("ko key %q missing from English catalog", k)
		}
	}
}
