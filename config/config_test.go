// config/config_test.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package config

import (
	"context"
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/airsep/airsep/detect"
	"github.com/airsep/airsep/math"
	"github.com/airsep/airsep/monitor"
	"github.com/airsep/airsep/sensitivity"
	"github.com/airsep/airsep/units"
	"github.com/airsep/airsep/util"
)

const fullConfig = `
log:
  level: debug
  dir: /var/log/airsep
table: TA
thresholds: |
  # wider protection at SL3
  level_3_DMOD = 0.6 nmi
detection:
  model: taumod
  lookahead: 3 min
  filter_time: 10 s
resolution:
  min_gs: 120 kn
  max_gs: 480 kn
  max_vs: 4000 fpm
  vs_granularity: 100 fpm
  recovery_time: 20 s
monitor:
  max_pairs: 64
  workers: 2
  session_ttl: 5 min
`

func near(a, b float64) bool {
	return gomath.Abs(a-b) < 1e-9
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(fullConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if c.LogLevel != "debug" || c.LogDir != "/var/log/airsep" {
		t.Errorf("log %q %q", c.LogLevel, c.LogDir)
	}
	if c.Model != ModelTauMod || c.Lookahead != 180 || c.FilterTime != 10 {
		t.Errorf("detection %q %g %g", c.Model, c.Lookahead, c.FilterTime)
	}

	ta := sensitivity.TA()
	if c.Table.NumLevels() != ta.NumLevels() {
		t.Errorf("%d levels", c.Table.NumLevels())
	}
	if !near(c.Table.DMOD(3), 0.6*units.NauticalMile) {
		t.Errorf("level 3 DMOD %g not overridden", c.Table.DMOD(3))
	}
	if c.Table.DMOD(4) != ta.DMOD(4) || c.Table.Ceiling(3) != ta.Ceiling(3) {
		t.Errorf("other TA values changed")
	}

	r := c.Resolution
	for name, got := range map[string][2]float64{
		"min_gs":         {r.MinGs, units.MustToInternal(120, "kn")},
		"max_gs":         {r.MaxGs, units.MustToInternal(480, "kn")},
		"max_vs":         {r.MaxVs, units.MustToInternal(4000, "fpm")},
		"vs_granularity": {r.VsGranularity, units.MustToInternal(100, "fpm")},
		"recovery_time":  {r.RecoveryTime, 20},
	} {
		if !near(got[0], got[1]) {
			t.Errorf("%s: got %g, expected %g", name, got[0], got[1])
		}
	}

	m := c.Monitor
	if m.MaxPairs != 64 || m.Workers != 2 || m.SessionTTL != 5*time.Minute {
		t.Errorf("monitor %+v", m)
	}
	if m.Lookahead != 180 || m.FilterTime != 10 {
		t.Errorf("monitor lookahead %g filter %g", m.Lookahead, m.FilterTime)
	}

	_, th := c.Table.ThresholdsForAltitude(30000 * units.Foot)
	if w, ok := c.DetectorFor(th).(detect.TauMod); !ok || w.DTHR != th.DMOD || w.TTHR != th.TAU {
		t.Errorf("detector %s", c.DetectorFor(th))
	}
}

func TestDefaults(t *testing.T) {
	c, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !c.Table.Equal(sensitivity.RA()) {
		t.Errorf("default table is not RA")
	}
	if c.Model != ModelCylinder || c.Lookahead != 180 || c.FilterTime != 0 {
		t.Errorf("detection %q %g %g", c.Model, c.Lookahead, c.FilterTime)
	}
	if _, ok := c.DetectorFor(sensitivity.Thresholds{DMOD: 1, ZTHR: 1}).(detect.Cylinder); !ok {
		t.Errorf("default detector is not a cylinder")
	}
	if c.Monitor.Workers <= 0 || c.Monitor.MaxPairs <= 0 {
		t.Errorf("monitor defaults %+v", c.Monitor)
	}
}

func TestParseErrors(t *testing.T) {
	text := `
log:
  level: loud
table: RA
detection:
  model: warp
  lookahead: 3 parsecs
resolution:
  min_gs: 700 kn
  max_gs: 10 s
  max_vs: -100 fpm
`
	_, err := Parse([]byte(text))
	if !errors.Is(err, util.ErrValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	for _, want := range []string{
		"invalid log level",
		`detection: model "warp"`,
		"detection: lookahead",
		`resolution: max_gs: "s" is not a unit of speed`,
		"max_vs",
		"min_gs 700 kn exceeds max_gs 600 kn",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q doesn't mention %q", err, want)
		}
	}

	for name, text := range map[string]string{
		"yaml":            "table: [RA",
		"unknown table":   "table: XA",
		"custom no data":  "table: custom",
		"bad threshold":   "thresholds: level_1_DMOD 5 nmi",
		"negative":        "thresholds: level_1_DMOD = -5 nmi",
		"zero recovery":   "resolution:\n  recovery_time: 0 s",
		"negative pairs":  "monitor:\n  max_pairs: -1",
		"bad ttl":         "monitor:\n  session_ttl: 5 nmi",
		"bad filter time": "detection:\n  filter_time: fast",
	} {
		if _, err := Parse([]byte(text)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestCustomTable(t *testing.T) {
	text := `
table: custom
thresholds: |
  level_1_DMOD = 3 nmi
  level_1_ZTHR = 1000 ft
  level_1_ALT = 18000 ft
  level_2_DMOD = 5 nmi
  level_2_ZTHR = 1000 ft
`
	c, err := Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tb := c.Table
	if tb.NumLevels() != 2 {
		t.Fatalf("%d levels, expected 2", tb.NumLevels())
	}
	if tb.LevelForAltitude(10000*units.Foot) != 1 || tb.LevelForAltitude(25000*units.Foot) != 2 {
		t.Errorf("level lookup")
	}
	if !near(tb.DMOD(2), 9260) || !near(tb.ZTHR(1), 304.8) {
		t.Errorf("DMOD %g ZTHR %g", tb.DMOD(2), tb.ZTHR(1))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	z, err := util.CompressZstd([]byte(fullConfig))
	if err != nil {
		t.Fatal(err)
	}
	fn := filepath.Join(dir, "airsep.yaml.zst")
	if err := os.WriteFile(fn, z, 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(fn)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Model != ModelTauMod {
		t.Errorf("model %q", c.Model)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("detection:\n  model: warp\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("expected an error naming the file, got %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}
}

func TestNewMonitor(t *testing.T) {
	c, err := Parse([]byte("table: RA\ndetection:\n  model: taumod\n"))
	if err != nil {
		t.Fatal(err)
	}
	m, err := c.NewMonitor(nil)
	if err != nil {
		t.Fatalf("NewMonitor: %v", err)
	}

	// Level 6 (20000-42000 ft): DMOD 1.1 nmi, ZTHR 700 ft.
	alt := 30000 * units.Foot
	own := monitor.Track{ID: "N1", Position: math.Vect3{0, 0, alt}, Velocity: math.Vect3{240, 0, 0}}
	intruder := monitor.Track{ID: "N2", Position: math.Vect3{30000, 0, alt}, Velocity: math.Vect3{-240, 0, 0}}
	adv, err := m.Update(context.Background(), own, []monitor.Track{intruder})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !adv[0].Conflict || adv[0].Resolution == nil {
		t.Errorf("expected a resolved conflict, got %+v", adv[0])
	}
}
