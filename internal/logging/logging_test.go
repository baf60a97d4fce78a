package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"0": NONE, "NONE": NONE,
		"1": ERROR, "ERROR": ERROR,
		"2": WARN, "WARN": WARN,
		"3": INFO, "INFO": INFO,
		"4": INFO_MEDIUM_LEVEL, "INFO_MEDIUM_LEVEL": INFO_MEDIUM_LEVEL,
		"5": INFO_LOW_LEVEL, "INFO_LOW_LEVEL": INFO_LOW_LEVEL,
	}
	for s, want := range cases {
		got, ok := ParseLevel(s)
		if !ok || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, true", s, got, ok, want)
		}
	}
	if _, ok := ParseLevel("bogus"); ok {
		t.Errorf("ParseLevel(\"bogus\") unexpectedly succeeded")
	}
}

func TestLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := New(WARN, &buf)

	l.Info("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below threshold, got %q", buf.String())
	}

	l.Warn("should appear: %d", 7)
	if !strings.Contains(buf.String(), "should appear: 7") {
		t.Errorf("expected warning text, got %q", buf.String())
	}
}

func TestNoneLevelSuppressesEverything(t *testing.T) {
	var buf bytes.Buffer
	l := New(NONE, &buf)

	l.Error("bad thing happened")
	if buf.Len() != 0 {
		t.Errorf("expected NONE to suppress even Error, got %q", buf.String())
	}
}
