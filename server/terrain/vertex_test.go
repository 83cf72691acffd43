// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/SoftbearStudios/island/server/world"
)

func TestAppendVertex_Layout(t *testing.T) {
	v := Vertex{
		Position: world.Vec2f{X: 1, Y: -2},
		Color:    color.RGBA{R: 10, G: 20, B: 30, A: 255},
		Normal:   world.Vec2f{X: 0.5, Y: 0.25},
	}

	expected := []byte{
		0x00, 0x00, 0x80, 0x3f, // 1.0
		0x00, 0x00, 0x00, 0xc0, // -2.0
		10, 20, 30, 255,
		0x00, 0x00, 0x00, 0x3f, // 0.5
		0x00, 0x00, 0x80, 0x3e, // 0.25
	}

	buf := AppendVertex(nil, &v)
	if !bytes.Equal(buf, expected) {
		t.Errorf("expected % x, got % x", expected, buf)
	}

	if decoded := DecodeVertex(buf); decoded != v {
		t.Errorf("expected %+v, got %+v", v, decoded)
	}
}

func TestEncodeVertices(t *testing.T) {
	vertices := make([]Vertex, 6)
	for i := range vertices {
		vertices[i].Position.X = float32(i)
	}

	buf := EncodeVertices(vertices)
	if len(buf) != len(vertices)*VertexSize {
		t.Fatalf("expected %d bytes, got %d", len(vertices)*VertexSize, len(buf))
	}

	for i := range vertices {
		if v := DecodeVertex(buf[i*VertexSize:]); v != vertices[i] {
			t.Errorf("vertex %d: expected %+v, got %+v", i, vertices[i], v)
		}
	}
}
