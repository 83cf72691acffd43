// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package mesh

import (
	"github.com/SoftbearStudios/island/server/terrain"
)

// Buffer is the output of a generation: a flat triangle list with
// VerticesPerCell vertices per cell in row major order.
//
// While a generation is in progress its blocks write disjoint ranges of the
// Buffer concurrently. Once the generation has completed the Buffer belongs to
// whoever consumes it until the next Reset.
type Buffer struct {
	layout   Layout
	vertices []terrain.Vertex
}

func NewBuffer() *Buffer {
	return new(Buffer)
}

// Reset sizes the buffer for layout. Memory is reused when possible; old
// contents are not cleared since every vertex will be overwritten.
func (buffer *Buffer) Reset(layout Layout) {
	n := layout.VertexCount()
	if cap(buffer.vertices) < n {
		buffer.vertices = make([]terrain.Vertex, n)
	} else {
		buffer.vertices = buffer.vertices[:n]
	}
	buffer.layout = layout
}

func (buffer *Buffer) Layout() Layout {
	return buffer.layout
}

// Vertices is only safe to read after the generation that wrote it completed.
func (buffer *Buffer) Vertices() []terrain.Vertex {
	return buffer.vertices
}

// Len is the number of vertices.
func (buffer *Buffer) Len() int {
	return len(buffer.vertices)
}

// write copies vertices in at offset.
func (buffer *Buffer) write(offset int, vertices []terrain.Vertex) {
	if copy(buffer.vertices[offset:], vertices) != len(vertices) {
		panic("block overruns buffer")
	}
}
