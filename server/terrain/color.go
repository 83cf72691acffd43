// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"fmt"
	"image/color"

	"github.com/SoftbearStudios/island/server/world"
	"github.com/chewxy/math32"
)

// ColorVec is an RGB color with components in [0, 1].
type ColorVec [3]float32

var (
	deepWater    = RGB(0, 0, 181)
	shallowWater = RGB(0, 0, 255)
	surf         = RGB(48, 48, 255)
	beachSand    = RGB(240, 230, 140)

	dunes     = RGB(240, 240, 180)
	grass     = RGB(0, 200, 0)
	darkGrass = RGB(0, 160, 0)
	forest    = RGB(34, 100, 34)

	slate = RGB(112, 128, 144)
	tan   = RGB(222, 184, 135)
	snow  = Gray(255)
)

// Elevation band boundaries.
const (
	shallowLevel   = 0.11
	surfLevel      = 0.14
	beachLevel     = 0.16
	lowlandsLevel  = 0.17
	highlandsLevel = 0.4
	// Highlands are fully blended in this far above highlandsLevel.
	highlandsBlend = 0.1
	// Snow is fully blended in this far above the snowcap height.
	snowcapBlend = 0.05
)

// TerrainColor classifies a sample into a color. Every band boundary is
// continuous: each ramp reaches the neighboring band's color exactly at the edge.
func TerrainColor(elevation, moisture, snowcapHeight float32) ColorVec {
	switch {
	case elevation < shallowLevel:
		return deepWater.Lerp(shallowWater, elevation/shallowLevel)
	case elevation < surfLevel:
		return shallowWater.Lerp(surf, math32.Pow((elevation-shallowLevel)/(surfLevel-shallowLevel), 0.3))
	case elevation < beachLevel:
		return surf.Lerp(beachSand, (elevation-surfLevel)/(beachLevel-surfLevel))
	case elevation < lowlandsLevel:
		return beachSand.Lerp(LowlandsColor(moisture), (elevation-beachLevel)/(lowlandsLevel-beachLevel))
	case elevation < highlandsLevel:
		return LowlandsColor(moisture)
	case elevation < snowcapHeight:
		return HighlandsColor(elevation, moisture)
	default:
		return SnowcapColor(elevation, moisture, snowcapHeight)
	}
}

// LowlandsColor ramps from dunes through grass to forest as moisture rises.
func LowlandsColor(moisture float32) ColorVec {
	switch {
	case moisture < 0.27:
		return dunes
	case moisture < 0.3:
		return dunes.Lerp(grass, (moisture-0.27)/0.03)
	case moisture < 0.4:
		return grass
	case moisture < 0.48:
		return grass.Lerp(darkGrass, (moisture-0.4)/0.08)
	case moisture < 0.6:
		return darkGrass
	case moisture < 0.7:
		return darkGrass.Lerp(forest, (moisture-0.6)/0.1)
	default:
		return forest
	}
}

// HighlandsColor blends rock (slate to tan with moisture) over the lowlands.
func HighlandsColor(elevation, moisture float32) ColorVec {
	rock := slate
	if moisture >= 0.6 {
		rock = slate.Lerp(tan, (moisture-0.6)/0.4)
	}

	factor := world.Clamp((elevation-highlandsLevel)/highlandsBlend, 0, 1)
	return LowlandsColor(moisture).Lerp(rock, factor)
}

// SnowcapColor blends snow over the highlands.
func SnowcapColor(elevation, moisture, snowcapHeight float32) ColorVec {
	factor := world.Clamp((elevation-snowcapHeight)/snowcapBlend, 0, 1)
	return HighlandsColor(elevation, moisture).Lerp(snow, factor)
}

func Gray(v byte) ColorVec {
	return RGB(v, v, v)
}

func RGB(r, g, b byte) ColorVec {
	const factor = 1.0 / 255
	return ColorVec{float32(r) * factor, float32(g) * factor, float32(b) * factor}
}

func FromColor(c color.RGBA) ColorVec {
	return RGB(c.R, c.G, c.B)
}

func (vec ColorVec) String() string {
	return fmt.Sprintf("rgb(%.3f, %.3f, %.3f)", vec[0], vec[1], vec[2])
}

func (vec ColorVec) Mul(v float32) ColorVec {
	vec[0] *= v
	vec[1] *= v
	vec[2] *= v
	return vec
}

func (vec ColorVec) Lerp(other ColorVec, factor float32) ColorVec {
	for i := range vec {
		vec[i] = world.Lerp(vec[i], other[i], factor)
	}
	return vec
}

func (vec ColorVec) Color() color.RGBA {
	return color.RGBA{R: floatToByte(vec[0]), G: floatToByte(vec[1]), B: floatToByte(vec[2]), A: 255}
}

func floatToByte(f float32) byte {
	if f < 0 {
		return 0
	}
	if f > 1.0 {
		return 255
	}
	return byte(f*255 + 0.5)
}
