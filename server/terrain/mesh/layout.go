// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package mesh

import (
	"github.com/SoftbearStudios/island/server/world"
)

// VerticesPerCell is two triangles per grid cell.
const VerticesPerCell = 6

// Layout describes the grid, its size on screen and how it is split into blocks.
type Layout struct {
	ResolutionX int     `json:"resolutionX"`
	ResolutionY int     `json:"resolutionY"`
	Width       float32 `json:"width"`  // display space
	Height      float32 `json:"height"` // display space
	Blocks      int     `json:"blocks"`
}

func DefaultLayout() Layout {
	return Layout{
		ResolutionX: 800,
		ResolutionY: 600,
		Width:       800,
		Height:      600,
		Blocks:      32,
	}
}

// Scale converts grid coordinates to display space.
func (layout Layout) Scale() world.Vec2f {
	return world.Vec2f{
		X: layout.Width / float32(layout.ResolutionX),
		Y: layout.Height / float32(layout.ResolutionY),
	}
}

// VertexCount is the size of a complete vertex buffer.
func (layout Layout) VertexCount() int {
	return layout.ResolutionX * layout.ResolutionY * VerticesPerCell
}

// BlockRows is the number of rows in each block except possibly the last
// non-empty one: ceil(ResolutionY / Blocks).
func (layout Layout) BlockRows() int {
	if layout.Blocks <= 0 {
		return 0
	}
	return (layout.ResolutionY + layout.Blocks - 1) / layout.Blocks
}

// BlockVertices is the scratch space needed to build any one block.
func (layout Layout) BlockVertices() int {
	return layout.ResolutionX * layout.BlockRows() * VerticesPerCell
}

// Rows returns the half open row range [start, end) of block. When Blocks
// doesn't evenly divide ResolutionY trailing blocks may be empty (start == end).
func (layout Layout) Rows(block int) (start, end int) {
	if block < 0 || block >= layout.Blocks {
		panic("block out of range")
	}

	rows := layout.BlockRows()
	start = block * rows
	if start >= layout.ResolutionY {
		return layout.ResolutionY, layout.ResolutionY
	}
	end = world.MinInt(start+rows, layout.ResolutionY)
	return
}

// Offset is the index of the first vertex of row in a complete vertex buffer.
func (layout Layout) Offset(row int) int {
	return row * layout.ResolutionX * VerticesPerCell
}
