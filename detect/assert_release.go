// detect/assert_release.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

//go:build !airsepdebug

package detect

const debugChecks = false
