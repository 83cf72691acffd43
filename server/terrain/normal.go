// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"github.com/SoftbearStudios/island/server/world"
	"github.com/chewxy/math32"
)

// ComputeNormal returns the compressed surface normal at a grid point given
// the elevations of its 4 neighbors.
//
// The tangents step one cell in x and y, so the cross product's z is always 1
// for finite inputs. NaN or infinite inputs propagate into the result.
func ComputeNormal(params *Parameters, left, right, bottom, top float32) world.Vec2f {
	deltaX := world.Vec3f{X: 1, Y: 0, Z: (flatten(params, right) - flatten(params, left)) * params.HeightFactor}
	deltaY := world.Vec3f{X: 0, Y: 1, Z: (flatten(params, top) - flatten(params, bottom)) * params.HeightFactor}

	crossProduct := deltaX.Cross(deltaY)

	// Scale so z is 1 and can be dropped.
	return crossProduct.Div(crossProduct.Z).XY()
}

func flatten(params *Parameters, elevation float32) float32 {
	return math32.Pow(elevation, params.HeightFlatten)
}
