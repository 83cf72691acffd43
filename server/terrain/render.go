// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"image"

	"github.com/SoftbearStudios/island/server/world"
)

var lightDirection = world.Vec3f{X: -1, Y: -1, Z: 1}.Norm()

// Render draws a finished vertex buffer with one pixel per grid cell. Each
// pixel takes the color and normal of its cell's top left corner, lit the way
// the display shader does it.
func Render(vertices []Vertex, resolutionX, resolutionY int, lightFactor float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, resolutionX, resolutionY))
	if resolutionX*resolutionY == 0 {
		return img
	}

	// Early bounds check
	_ = vertices[resolutionX*resolutionY*6-1]

	for j := 0; j < resolutionY; j++ {
		for i := 0; i < resolutionX; i++ {
			v := &vertices[(j*resolutionX+i)*6]
			img.SetRGBA(i, j, FromColor(v.Color).Mul(Shade(v.Normal, lightFactor)).Color())
		}
	}

	return img
}

// Shade returns the brightness of a compressed normal.
func Shade(normal world.Vec2f, lightFactor float32) float32 {
	diffuse := world.Max(0, normal.Decompress().Dot(lightDirection))
	return 1 - lightFactor + lightFactor*diffuse
}
