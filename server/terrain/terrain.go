// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

// Sampler samples the continuous terrain fields at grid coordinates.
// Coordinates may lie one or two cells outside the grid (neighbors used for
// normals). All methods must be safe to call concurrently.
type Sampler interface {
	// Elevation returns a height in [0, 1].
	Elevation(x, y int) float32
	// Moisture returns a moisture in [0, 1].
	Moisture(x, y int) float32
}

// Source creates the Sampler for one generation.
type Source interface {
	Sampler(params Parameters, resolutionX, resolutionY int) Sampler
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(params Parameters, resolutionX, resolutionY int) Sampler

func (f SourceFunc) Sampler(params Parameters, resolutionX, resolutionY int) Sampler {
	return f(params, resolutionX, resolutionY)
}
