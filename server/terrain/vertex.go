// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"encoding/binary"
	"image/color"
	"math"

	"github.com/SoftbearStudios/island/server/world"
)

// VertexSize is the encoded size of a Vertex in bytes.
const VertexSize = 4*2 + 4 + 4*2

// Vertex is one corner of a terrain triangle.
type Vertex struct {
	Position world.Vec2f // display space
	Color    color.RGBA
	Normal   world.Vec2f // compressed, z is implicitly 1
}

// AppendVertex appends the little endian encoding of v to buf:
// position (2 x float32), color (4 x uint8), normal (2 x float32).
func AppendVertex(buf []byte, v *Vertex) []byte {
	var tmp [VertexSize]byte

	binary.LittleEndian.PutUint32(tmp[0:], math.Float32bits(v.Position.X))
	binary.LittleEndian.PutUint32(tmp[4:], math.Float32bits(v.Position.Y))
	tmp[8] = v.Color.R
	tmp[9] = v.Color.G
	tmp[10] = v.Color.B
	tmp[11] = v.Color.A
	binary.LittleEndian.PutUint32(tmp[12:], math.Float32bits(v.Normal.X))
	binary.LittleEndian.PutUint32(tmp[16:], math.Float32bits(v.Normal.Y))

	return append(buf, tmp[:]...)
}

// DecodeVertex is the inverse of AppendVertex. buf must hold at least VertexSize bytes.
func DecodeVertex(buf []byte) (v Vertex) {
	_ = buf[VertexSize-1] // Early bounds check

	v.Position.X = math.Float32frombits(binary.LittleEndian.Uint32(buf[0:]))
	v.Position.Y = math.Float32frombits(binary.LittleEndian.Uint32(buf[4:]))
	v.Color = color.RGBA{R: buf[8], G: buf[9], B: buf[10], A: buf[11]}
	v.Normal.X = math.Float32frombits(binary.LittleEndian.Uint32(buf[12:]))
	v.Normal.Y = math.Float32frombits(binary.LittleEndian.Uint32(buf[16:]))
	return
}

// EncodeVertices encodes a whole vertex buffer.
func EncodeVertices(vertices []Vertex) []byte {
	buf := make([]byte, 0, len(vertices)*VertexSize)
	for i := range vertices {
		buf = AppendVertex(buf, &vertices[i])
	}
	return buf
}
