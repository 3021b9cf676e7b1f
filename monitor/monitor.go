// monitor/monitor.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package monitor drives detection and resolution for an ownship against
// all of its surrounding traffic, one update per surveillance cycle.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/airsep/airsep/detect"
	"github.com/airsep/airsep/log"
	"github.com/airsep/airsep/math"
	"github.com/airsep/airsep/resolve"
	"github.com/airsep/airsep/sensitivity"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDuplicateTrack = errors.New("duplicate track ID")
	ErrBadSettings    = errors.New("invalid monitor settings")
)

// PairID identifies the session of an ownship/intruder pair.
type PairID struct {
	Ownship  string
	Intruder string
}

func (p PairID) String() string {
	return p.Ownship + "/" + p.Intruder
}

// Track is one surveillance report in the local frame and internal units.
type Track struct {
	ID       string
	Position math.Vect3
	Velocity math.Vect3
}

func (t Track) Aircraft() detect.Aircraft {
	return detect.Aircraft{Position: t.Position, Velocity: t.Velocity}
}

// Advisory is the result of one cycle for one pair. The time fields are
// those of the session's Interval; Resolution is set only for conflicts
// and losses of separation when the monitor has an engine.
type Advisory struct {
	Pair             PairID
	Conflict         bool
	LossOfSeparation bool
	TimeIn           float64
	TimeOut          float64
	CriticalTime     float64
	Duration         float64
	Resolution       *resolve.Resolution
}

// DetectorFunc builds the detector for a sensitivity level.
type DetectorFunc func(sensitivity.Thresholds) detect.Detector

type Settings struct {
	Lookahead  float64 // s
	FilterTime float64 // s
	// MaxPairs bounds the number of cached sessions; the least recently
	// updated pairs are dropped first.
	MaxPairs int
	// Workers bounds the number of pairs evaluated concurrently; 0 means
	// GOMAXPROCS.
	Workers int
	// SessionTTL, if positive, drops sessions not updated for that long.
	SessionTTL time.Duration
	// Detector defaults to the cylinder given by DMOD and ZTHR.
	Detector DetectorFunc
}

func DefaultSettings() Settings {
	return Settings{
		Lookahead: 180,
		MaxPairs:  256,
	}
}

// Monitor owns one detect.Session per pair. Update may be called from
// any goroutine; calls are serialized.
type Monitor struct {
	mu       sync.Mutex
	settings Settings
	table    *sensitivity.Table
	engine   *resolve.Engine
	lg       *log.Logger
	sessions *expirable.LRU[PairID, *detect.Session]
}

// New returns a Monitor; engine may be nil, in which case no resolutions
// are computed.
func New(s Settings, table *sensitivity.Table, engine *resolve.Engine, lg *log.Logger) (*Monitor, error) {
	if s.MaxPairs <= 0 {
		return nil, fmt.Errorf("max pairs %d: %w", s.MaxPairs, ErrBadSettings)
	}
	if !(s.Lookahead >= 0) || !(s.FilterTime >= 0) {
		return nil, fmt.Errorf("lookahead %g filter time %g: %w", s.Lookahead, s.FilterTime, ErrBadSettings)
	}
	if table.NumLevels() == 0 {
		return nil, sensitivity.ErrNoLevels
	}
	if s.Workers <= 0 {
		s.Workers = runtime.GOMAXPROCS(0)
	}
	if s.Detector == nil {
		s.Detector = func(th sensitivity.Thresholds) detect.Detector { return detect.CylinderFor(th) }
	}

	return &Monitor{
		settings: s,
		table:    table,
		engine:   engine,
		lg:       lg,
		sessions: expirable.NewLRU[PairID, *detect.Session](s.MaxPairs, nil, s.SessionTTL),
	}, nil
}

func (m *Monitor) session(id PairID) *detect.Session {
	if s, ok := m.sessions.Get(id); ok {
		return s
	}
	s := detect.NewSession(nil)
	m.sessions.Add(id, s)
	return s
}

// Update runs one detection cycle of own against each of traffic and
// returns an Advisory per intruder, in the same order.
func (m *Monitor) Update(ctx context.Context, own Track, traffic []Track) ([]Advisory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()

	seen := make(map[string]bool, len(traffic))
	for _, tr := range traffic {
		if seen[tr.ID] || tr.ID == own.ID {
			return nil, fmt.Errorf("%s: %w", tr.ID, ErrDuplicateTrack)
		}
		seen[tr.ID] = true
	}

	level, th := m.table.ThresholdsForAltitude(own.Position[2])
	det := m.settings.Detector(th)

	// Sessions are looked up before fanning out so that each one is
	// only ever touched by the goroutine evaluating its pair.
	sessions := make([]*detect.Session, len(traffic))
	for i, tr := range traffic {
		sessions[i] = m.session(PairID{Ownship: own.ID, Intruder: tr.ID})
	}

	advisories := make([]Advisory, len(traffic))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(m.settings.Workers)
	for i, tr := range traffic {
		i, tr := i, tr
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			advisories[i] = m.evaluate(sessions[i], det, own, tr)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	observeCycle(time.Since(start), m.sessions.Len())
	m.lg.Debug("monitor cycle", slog.String("ownship", own.ID), slog.Int("level", level),
		slog.Int("traffic", len(traffic)), slog.Duration("elapsed", time.Since(start)))

	return advisories, nil
}

func (m *Monitor) evaluate(s *detect.Session, det detect.Detector, own, intruder Track) Advisory {
	s.SetDetector(det)
	s.SetFilterTime(m.settings.FilterTime)

	g := detect.NewGeometry(own.Aircraft(), intruder.Aircraft())
	adv := Advisory{
		Pair:             PairID{Ownship: own.ID, Intruder: intruder.ID},
		Conflict:         s.Detection(g, m.settings.Lookahead),
		LossOfSeparation: det.LossOfSeparation(g),
		TimeIn:           s.TimeIn(),
		TimeOut:          s.TimeOut(),
		CriticalTime:     s.CriticalTime(),
		Duration:         s.ConflictDuration(),
	}

	iv, _ := s.Interval()
	switch {
	case adv.LossOfSeparation:
		detectionsTotal.WithLabelValues(ResultLoss).Inc()
	case adv.Conflict:
		detectionsTotal.WithLabelValues(ResultConflict).Inc()
	case iv.Conflict:
		detectionsTotal.WithLabelValues(ResultFiltered).Inc()
	default:
		detectionsTotal.WithLabelValues(ResultClear).Inc()
	}

	if m.engine != nil && (adv.Conflict || adv.LossOfSeparation) {
		epsH := resolve.HorizontalCoordination(g.S, g.V())
		epsV := resolve.VerticalCoordination(g.S[2], own.ID, intruder.ID)
		r := m.engine.Resolve(own.Aircraft(), intruder.Aircraft(), m.settings.Lookahead, epsH, epsV)
		adv.Resolution = &r
		resolutionsTotal.WithLabelValues(r.Outcome.String()).Inc()
		if r.Outcome == resolve.None {
			m.lg.Warn("no resolution", slog.String("pair", adv.Pair.String()))
		}
	}
	return adv
}

// Forget drops every session involving the given aircraft, as ownship or
// intruder.
func (m *Monitor) Forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.sessions.Keys() {
		if p.Ownship == id || p.Intruder == id {
			m.sessions.Remove(p)
		}
	}
}

// Len returns the number of cached pair sessions.
func (m *Monitor) Len() int {
	return m.sessions.Len()
}
