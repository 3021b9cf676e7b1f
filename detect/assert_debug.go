// detect/assert_debug.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

//go:build airsepdebug

package detect

// debugChecks makes Session panic on contract violations rather than
// returning sentinel values.
const debugChecks = true
