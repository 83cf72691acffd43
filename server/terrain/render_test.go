// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"image/color"
	"testing"

	"github.com/SoftbearStudios/island/server/world"
)

func TestShade(t *testing.T) {
	// Facing the light is fully lit no matter the light factor.
	facing := lightDirection.Div(lightDirection.Z).XY()
	for _, lightFactor := range []float32{0, 0.5, 1} {
		if s := Shade(facing, lightFactor); !approx(s, 1) {
			t.Errorf("expected full brightness with light factor %g, got %g", lightFactor, s)
		}
	}

	// Facing away is only lit by the ambient part.
	away := world.Vec2f{X: 100, Y: 100}
	if s := Shade(away, 0.7); !approx(s, 0.3) {
		t.Errorf("expected ambient brightness 0.3, got %g", s)
	}
}

func TestRender(t *testing.T) {
	const resX, resY = 3, 2

	vertices := make([]Vertex, resX*resY*6)
	for i := range vertices {
		vertices[i].Color = color.RGBA{R: 200, G: 100, B: 50, A: 255}
	}
	// Top left corner of cell (1, 1).
	vertices[(1*resX+1)*6].Color = color.RGBA{R: 1, G: 2, B: 3, A: 255}

	img := Render(vertices, resX, resY, 0)

	if b := img.Bounds(); b.Dx() != resX || b.Dy() != resY {
		t.Fatalf("expected %dx%d image, got %v", resX, resY, b)
	}

	if c := img.RGBAAt(0, 0); c != (color.RGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("expected unlit color, got %v", c)
	}
	if c := img.RGBAAt(1, 1); c != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("expected cell (1, 1) color, got %v", c)
	}
}
