// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package mesh

import (
	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/SoftbearStudios/island/server/world"
)

// Vertex order within a cell:
//
//	0 top left      3 top left
//	1 bottom left   4 bottom right
//	2 bottom right  5 top right
const (
	topLeft      = 0
	bottomLeft   = 1
	bottomRight  = 2
	topLeft2     = 3
	bottomRight2 = 4
	topRight     = 5
)

// Builder turns blocks of rows into vertices. It holds no mutable state, so
// one Builder may build any number of blocks concurrently.
type Builder struct {
	sampler terrain.Sampler
	params  terrain.Parameters
	layout  Layout
	scale   world.Vec2f
}

func NewBuilder(sampler terrain.Sampler, params terrain.Parameters, layout Layout) *Builder {
	return &Builder{
		sampler: sampler,
		params:  params,
		layout:  layout,
		scale:   layout.Scale(),
	}
}

func (b *Builder) Layout() Layout {
	return b.layout
}

// Corner computes the vertex at grid point (x, y) from scratch.
func (b *Builder) Corner(x, y int) terrain.Vertex {
	s := b.sampler
	return terrain.Vertex{
		Position: world.Vec2f{X: float32(x) * b.scale.X, Y: float32(y) * b.scale.Y},
		Color:    terrain.TerrainColor(s.Elevation(x, y), s.Moisture(x, y), b.params.SnowcapHeight).Color(),
		Normal:   terrain.ComputeNormal(&b.params, s.Elevation(x-1, y), s.Elevation(x+1, y), s.Elevation(x, y+1), s.Elevation(x, y-1)),
	}
}

// Build fills scratch with the vertices of block and copies them into buffer.
// scratch must hold at least Layout.BlockVertices vertices. buffer must have
// been Reset to the same layout.
//
// Corners shared with the cell to the left or the row above are copied, not
// recomputed. The first row of a block always computes its top corners since
// the row above belongs to another block.
func (b *Builder) Build(buffer *Buffer, block int, scratch []terrain.Vertex) {
	rowStart, rowEnd := b.layout.Rows(block)
	if rowStart >= rowEnd {
		return
	}

	resX := b.layout.ResolutionX
	stride := resX * VerticesPerCell
	vertices := scratch[:(rowEnd-rowStart)*stride]

	for y := rowStart; y < rowEnd; y++ {
		for x := 0; x < resX; x++ {
			i := (y-rowStart)*stride + x*VerticesPerCell
			cell := vertices[i : i+VerticesPerCell]

			switch {
			case x > 0:
				cell[topLeft] = vertices[i-VerticesPerCell+topRight]
			case y > rowStart:
				cell[topLeft] = vertices[i-stride+bottomLeft]
			default:
				cell[topLeft] = b.Corner(x, y)
			}

			if x > 0 {
				cell[bottomLeft] = vertices[i-VerticesPerCell+bottomRight]
			} else {
				cell[bottomLeft] = b.Corner(x, y+1)
			}

			cell[bottomRight] = b.Corner(x+1, y+1)

			cell[topLeft2] = cell[topLeft]
			cell[bottomRight2] = cell[bottomRight]

			if y > rowStart {
				cell[topRight] = vertices[i-stride+bottomRight]
			} else {
				cell[topRight] = b.Corner(x+1, y)
			}
		}
	}

	buffer.write(b.layout.Offset(rowStart), vertices)
}
