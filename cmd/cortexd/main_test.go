package main

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"bogus": slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFreeDiskGBReturnsZeroForMissingPath(t *testing.T) {
	if got := freeDiskGB("/this/path/does/not/exist/at/all"); got != 0 {
		t.Errorf("freeDiskGB(missing path) = %v, want 0", got)
	}
}

func TestFreeDiskGBReportsPositiveForRealPath(t *testing.T) {
	if got := freeDiskGB("/tmp"); got <= 0 {
		t.Errorf("freeDiskGB(/tmp) = %v, want > 0", got)
	}
}
