// config/config.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package config loads airsep settings from YAML.
//
// Physical quantities are written as strings with units, e.g.
//
//	detection:
//	  model: taumod
//	  lookahead: 3 min
//	resolution:
//	  max_gs: 480 kn
//	  max_vs: 4000 fpm
//
// A bare number is taken to be in internal units (m, s, m/s).
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/airsep/airsep/detect"
	"github.com/airsep/airsep/log"
	"github.com/airsep/airsep/monitor"
	"github.com/airsep/airsep/params"
	"github.com/airsep/airsep/resolve"
	"github.com/airsep/airsep/sensitivity"
	"github.com/airsep/airsep/units"
	"github.com/airsep/airsep/util"

	"gopkg.in/yaml.v3"
)

const (
	ModelCylinder = "cylinder"
	ModelTauMod   = "taumod"

	TableCustom = "custom"
)

// file mirrors the YAML layout.
type file struct {
	Log struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"log"`
	Table      string `yaml:"table"`
	Thresholds string `yaml:"thresholds"`
	Detection  struct {
		Model      string `yaml:"model"`
		Lookahead  string `yaml:"lookahead"`
		FilterTime string `yaml:"filter_time"`
	} `yaml:"detection"`
	Resolution struct {
		MinGs         string `yaml:"min_gs"`
		MaxGs         string `yaml:"max_gs"`
		MaxVs         string `yaml:"max_vs"`
		VsGranularity string `yaml:"vs_granularity"`
		RecoveryTime  string `yaml:"recovery_time"`
	} `yaml:"resolution"`
	Monitor struct {
		MaxPairs   int    `yaml:"max_pairs"`
		Workers    int    `yaml:"workers"`
		SessionTTL string `yaml:"session_ttl"`
	} `yaml:"monitor"`
}

// Config is the validated configuration, in internal units.
type Config struct {
	LogLevel string
	LogDir   string

	Table *sensitivity.Table
	Model string

	Lookahead  float64
	FilterTime float64

	Resolution resolve.Config
	Monitor    monitor.Settings
}

// Default returns the configuration used for anything a file leaves out:
// the RA table, the cylinder model and a 180 s lookahead.
func Default() *Config {
	ms := monitor.DefaultSettings()
	ms.Workers = runtime.GOMAXPROCS(0)
	return &Config{
		LogLevel:   "info",
		Table:      sensitivity.RA(),
		Model:      ModelCylinder,
		Lookahead:  ms.Lookahead,
		Resolution: resolve.DefaultConfig(),
		Monitor:    ms,
	}
}

// Load reads the configuration at path, which may be zstd compressed.
func Load(path string) (*Config, error) {
	b, err := util.LoadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates YAML configuration. All problems found are
// reported together.
func Parse(b []byte) (*Config, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	c := Default()
	var e util.ErrorLogger

	e.Push("log")
	if f.Log.Level != "" {
		if _, err := log.ParseLevel(f.Log.Level); err != nil {
			e.Error(err)
		}
		c.LogLevel = f.Log.Level
	}
	c.LogDir = f.Log.Dir
	e.Pop()

	c.Table = parseTable(&e, f.Table, f.Thresholds)

	e.Push("detection")
	switch m := strings.ToLower(f.Detection.Model); m {
	case "":
	case ModelCylinder, ModelTauMod:
		c.Model = m
	default:
		e.ErrorString("model %q: expected %q or %q", f.Detection.Model, ModelCylinder, ModelTauMod)
	}
	quantity(&e, "lookahead", f.Detection.Lookahead, "s", &c.Lookahead)
	quantity(&e, "filter_time", f.Detection.FilterTime, "s", &c.FilterTime)
	e.Pop()

	e.Push("resolution")
	r := &c.Resolution
	quantity(&e, "min_gs", f.Resolution.MinGs, "m/s", &r.MinGs)
	quantity(&e, "max_gs", f.Resolution.MaxGs, "m/s", &r.MaxGs)
	quantity(&e, "max_vs", f.Resolution.MaxVs, "m/s", &r.MaxVs)
	quantity(&e, "vs_granularity", f.Resolution.VsGranularity, "m/s", &r.VsGranularity)
	quantity(&e, "recovery_time", f.Resolution.RecoveryTime, "s", &r.RecoveryTime)
	if r.MinGs > r.MaxGs {
		kn := func(v float64) float64 { x, _ := units.FromInternal(v, "kn"); return x }
		e.ErrorString("min_gs %.0f kn exceeds max_gs %.0f kn", kn(r.MinGs), kn(r.MaxGs))
	}
	if r.RecoveryTime == 0 {
		e.ErrorString("recovery_time must be positive")
	}
	e.Pop()

	e.Push("monitor")
	if f.Monitor.MaxPairs < 0 || f.Monitor.Workers < 0 {
		e.ErrorString("max_pairs and workers must not be negative")
	}
	if f.Monitor.MaxPairs > 0 {
		c.Monitor.MaxPairs = f.Monitor.MaxPairs
	}
	if f.Monitor.Workers > 0 {
		c.Monitor.Workers = f.Monitor.Workers
	}
	var ttl float64
	quantity(&e, "session_ttl", f.Monitor.SessionTTL, "s", &ttl)
	c.Monitor.SessionTTL = units.Duration(ttl)
	e.Pop()

	c.Monitor.Lookahead = c.Lookahead
	c.Monitor.FilterTime = c.FilterTime
	c.Monitor.Detector = c.DetectorFor

	if err := e.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// quantity parses s into *v when it is non-empty. Its unit must have
// the same dimension as want; negative values are rejected.
func quantity(e *util.ErrorLogger, name, s, want string, v *float64) {
	if s == "" {
		return
	}
	x, unit, err := units.ParseQuantity(s)
	if err != nil {
		e.ErrorString("%s: %v", name, err)
		return
	}
	if !units.SameDimension(unit, want) {
		e.ErrorString("%s: %q is not a unit of %s", name, unit, units.Dimension(want))
		return
	}
	if x < 0 {
		e.ErrorString("%s: %q must not be negative", name, s)
		return
	}
	*v = x
}

func parseTable(e *util.ErrorLogger, name, thresholds string) *sensitivity.Table {
	e.Push("table")
	defer e.Pop()

	var t *sensitivity.Table
	switch name {
	case "":
		t = sensitivity.RA()
	case TableCustom:
		t = &sensitivity.Table{}
	default:
		var ok bool
		if t, ok = sensitivity.Standard(name); !ok {
			e.ErrorString("%q: expected RA, TA or %s", name, TableCustom)
			return sensitivity.RA()
		}
	}

	if thresholds == "" {
		if t.NumLevels() == 0 {
			e.ErrorString("custom table needs thresholds")
		}
		return t
	}

	overrides, err := params.Parse(thresholds)
	if err != nil {
		e.Error(err)
		return t
	}
	p := t.Parameters()
	p.Merge(overrides)
	if err := t.SetParameters(p); err != nil {
		e.Error(err)
	}
	return t
}

// DetectorFor returns the configured detection model for a sensitivity
// level.
func (c *Config) DetectorFor(th sensitivity.Thresholds) detect.Detector {
	if c.Model == ModelTauMod {
		return detect.TauModFor(th)
	}
	return detect.CylinderFor(th)
}

// Logger opens the configured log.
func (c *Config) Logger() *log.Logger {
	return log.New(c.LogLevel, c.LogDir)
}

func (c *Config) Engine(lg *log.Logger) *resolve.Engine {
	return resolve.NewEngine(c.Table, c.Resolution, lg)
}

func (c *Config) NewMonitor(lg *log.Logger) (*monitor.Monitor, error) {
	return monitor.New(c.Monitor, c.Table, c.Engine(lg), lg)
}
