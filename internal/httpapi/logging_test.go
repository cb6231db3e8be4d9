package httpapi

import (
	"net/http/httptest"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"off":     LevelOff,
		"":        LevelOff,
		"error":   LevelError,
		"info":    LevelInfo,
		"debug":   LevelDebug,
		"bogus":   LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q)=%d want %d", in, got, want)
		}
	}
}

func TestRequestLogLevelOverrides(t *testing.T) {
	r := httptest.NewRequest("GET", "/run?log=debug", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("query override: %d", got)
	}
	r = httptest.NewRequest("GET", "/run?log=1", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("legacy query override: %d", got)
	}
	r = httptest.NewRequest("GET", "/run", nil)
	r.Header.Set("X-Log-Level", "error")
	if got := requestLogLevel(r); got != LevelError {
		t.Fatalf("header override: %d", got)
	}
	r = httptest.NewRequest("GET", "/run", nil)
	if got := requestLogLevel(r); got != defaultLogLevel {
		t.Fatalf("default: %d", got)
	}
}
