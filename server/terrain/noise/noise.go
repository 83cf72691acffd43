// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package noise

import (
	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/aquilax/go-perlin"
	"github.com/chewxy/math32"
)

const (
	moistureFrequency = 4.0
	moistureOffset    = 0.5
)

// Generator samples elevation and moisture using perlin noise. It is read only
// after New so it can be shared by any number of goroutines.
type Generator struct {
	params terrain.Parameters

	elevation *perlin.Perlin // a single octave, layered by Elevation
	moisture  *perlin.Perlin

	// 1 / resolution
	invResX float32
	invResY float32
}

// Source is a terrain.Source backed by New.
var Source terrain.Source = terrain.SourceFunc(func(params terrain.Parameters, resolutionX, resolutionY int) terrain.Sampler {
	return New(params, resolutionX, resolutionY)
})

// New creates a Generator for a resolutionX by resolutionY grid.
func New(params terrain.Parameters, resolutionX, resolutionY int) *Generator {
	return &Generator{
		params:    params,
		elevation: perlin.NewPerlin(2, 2, 1, params.Seed),
		moisture:  perlin.NewPerlin(2, 2, 1, params.Seed+1),
		invResX:   1.0 / float32(resolutionX),
		invResY:   1.0 / float32(resolutionY),
	}
}

// normalize maps grid coordinates to [-0.5, 0.5].
func (g *Generator) normalize(x, y int) (float32, float32) {
	return float32(x)*g.invResX - 0.5, float32(y)*g.invResY - 0.5
}

// Elevation implements terrain.Sampler.Elevation.
func (g *Generator) Elevation(x, y int) float32 {
	nx, ny := g.normalize(x, y)
	p := &g.params

	var elevation float32
	for i := 0; i < p.Octaves; i++ {
		scale := math32.Pow(p.FrequencyBase, float32(i))
		elevation += noise3(g.elevation, nx*p.Frequency*scale, ny*p.Frequency*scale) * math32.Pow(p.FrequencyBase, -float32(i))
	}

	// [-1, 1] to [0, 1]
	elevation = (elevation + 1) * 0.5

	// Island falloff, full strength at the corners
	distance := 2 * math32.Sqrt(nx*nx+ny*ny)
	elevation = (elevation + p.HeightBase) * (1 - p.EdgeFactor*math32.Pow(distance, p.EdgeDropoffExponent))

	return clamp(elevation)
}

// Moisture implements terrain.Sampler.Moisture.
func (g *Generator) Moisture(x, y int) float32 {
	nx, ny := g.normalize(x, y)
	moisture := noise3(g.moisture, nx*moistureFrequency+moistureOffset, ny*moistureFrequency+moistureOffset)
	return clamp((moisture + 1) * 0.5)
}

func noise3(p *perlin.Perlin, x, y float32) float32 {
	return float32(p.Noise3D(float64(x), float64(y), 0))
}
