// log/log_test.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, l := range []string{"debug", "info", "warn", "error", ""} {
		if _, err := ParseLevel(l); err != nil {
			t.Errorf("%q: unexpected error %v", l, err)
		}
	}
	if _, err := ParseLevel("loud"); !errors.Is(err, ErrBadLevel) {
		t.Errorf("expected ErrBadLevel, got %v", err)
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter("warn", &buf)

	l.Debug("dropped")
	l.Infof("dropped %d", 1)
	l.Warn("kept", "pair", "AAL1/DAL2")
	if l.DebugEnabled() {
		t.Errorf("debug enabled at warn level")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["msg"] != "kept" || rec["pair"] != "AAL1/DAL2" {
		t.Errorf("unexpected record %v", rec)
	}
	if _, ok := rec["callstack"]; !ok {
		t.Errorf("record is missing a callstack")
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter("debug", &buf).With("ownship", "N123")
	l.Debugf("cycle %d", 7)
	if !strings.Contains(buf.String(), `"ownship":"N123"`) || !strings.Contains(buf.String(), "cycle 7") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Debug("nothing")
	l.Info("nothing")
	if l.DebugEnabled() {
		t.Errorf("nil logger reports debug enabled")
	}
	if l.With("a", 1) != nil {
		t.Errorf("With on a nil logger should be nil")
	}
}

func TestNewFile(t *testing.T) {
	dir := t.TempDir()
	l := New("info", dir)
	l.Info("written")
	b, err := os.ReadFile(l.LogFile)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if !strings.Contains(string(b), "written") || !strings.Contains(string(b), "Hello logging") {
		t.Errorf("log file contents %q", b)
	}
}

func TestCallstack(t *testing.T) {
	fr := Callstack(nil)
	if len(fr) == 0 {
		t.Fatalf("empty callstack")
	}
	for _, f := range fr {
		if strings.HasPrefix(f.Function, "github.com/airsep/airsep/") {
			t.Errorf("module prefix not trimmed: %s", f)
		}
	}
}
