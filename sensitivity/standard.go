// sensitivity/standard.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sensitivity

import (
	"sync"

	"github.com/airsep/airsep/units"
)

// TCAS II sensitivity level altitude bounds, in feet. Level 1 corresponds
// to TCAS SL2; the published SL1 (standby) has no thresholds.
var tcasBoundsFt = []float64{1000, 2350, 5000, 10000, 20000, 42000}

type tcasRow struct {
	tau     float64 // s
	dmodNmi float64
	zthrFt  float64
	hmdFt   float64
}

var raRows = []tcasRow{
	{0, 0, 0, 0}, // no RAs below 1000ft
	{15, 0.20, 600, 1215},
	{20, 0.35, 600, 2126},
	{25, 0.55, 600, 3342},
	{30, 0.80, 600, 4861},
	{35, 1.10, 700, 6683},
	{35, 1.10, 800, 6683},
}

// TA HMD is the same as DMOD.
var taRows = []tcasRow{
	{20, 0.30, 850, 0.30 * units.NauticalMile / units.Foot},
	{25, 0.33, 850, 0.33 * units.NauticalMile / units.Foot},
	{30, 0.48, 850, 0.48 * units.NauticalMile / units.Foot},
	{40, 0.75, 850, 0.75 * units.NauticalMile / units.Foot},
	{45, 1.00, 850, 1.00 * units.NauticalMile / units.Foot},
	{48, 1.30, 850, 1.30 * units.NauticalMile / units.Foot},
	{48, 1.30, 1200, 1.30 * units.NauticalMile / units.Foot},
}

func buildTCAS(rows []tcasRow) *Table {
	t := &Table{}
	for _, b := range tcasBoundsFt {
		t.bounds = append(t.bounds, b*units.Foot)
	}
	for _, r := range rows {
		t.levels = append(t.levels, Thresholds{
			TAU:  r.tau,
			TCOA: r.tau,
			DMOD: r.dmodNmi * units.NauticalMile,
			ZTHR: r.zthrFt * units.Foot,
			HMD:  r.hmdFt * units.Foot,
		})
	}
	return t
}

// The standard tables are built once and never handed out directly.
var (
	raTable = sync.OnceValue(func() *Table { return buildTCAS(raRows) })
	taTable = sync.OnceValue(func() *Table { return buildTCAS(taRows) })
)

// RA returns a fresh copy of the TCAS II resolution advisory table.
func RA() *Table {
	return raTable().Clone()
}

// TA returns a fresh copy of the TCAS II traffic advisory table.
func TA() *Table {
	return taTable().Clone()
}

// Standard returns the named standard table ("RA" or "TA").
func Standard(name string) (*Table, bool) {
	switch name {
	case "RA", "ra":
		return RA(), true
	case "TA", "ta":
		return TA(), true
	default:
		return nil, false
	}
}
