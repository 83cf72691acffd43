// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Clamp limits val to [minimum, maximum]. NaN is passed through.
func Clamp(val, minimum, maximum float32) float32 {
	if val < minimum {
		return minimum
	}
	if val > maximum {
		return maximum
	}
	return val
}

func Lerp(a, b, factor float32) float32 {
	return a + (b-a)*factor
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
