// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"github.com/chewxy/math32"
	"math/rand"
	"testing"
)

func approx(a, b float32) bool {
	return math32.Abs(a-b) < 0.0001
}

func TestVec3f_Cross(t *testing.T) {
	tests := []struct {
		a, b, cross Vec3f
	}{
		{Vec3f{1, 0, 0}, Vec3f{0, 1, 0}, Vec3f{0, 0, 1}},
		{Vec3f{0, 1, 0}, Vec3f{1, 0, 0}, Vec3f{0, 0, -1}},
		{Vec3f{1, 0, 2}, Vec3f{0, 1, 3}, Vec3f{-2, -3, 1}},
	}

	for _, test := range tests {
		if got := test.a.Cross(test.b); got != test.cross {
			t.Errorf("expected %v.Cross(%v): %v, got %v", test.a, test.b, test.cross, got)
		}
	}
}

func TestVec2f_Decompress(t *testing.T) {
	for i := 0; i < 100; i++ {
		vec := Vec2f{X: rand.Float32()*20 - 10, Y: rand.Float32()*20 - 10}
		n := vec.Decompress()

		if !approx(n.Length(), 1) {
			t.Errorf("expected unit length for %v, got %f", vec, n.Length())
		}

		// Dividing by z recovers the compressed form.
		if back := n.Div(n.Z).XY(); !approx(back.X, vec.X) || !approx(back.Y, vec.Y) {
			t.Errorf("expected %v, got %v", vec, back)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 1) != 0 || Clamp(2, 0, 1) != 1 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("clamp out of range")
	}
	if !math32.IsNaN(Clamp(math32.NaN(), 0, 1)) {
		t.Error("expected NaN to pass through")
	}
}

func BenchmarkVec3f_Norm(b *testing.B) {
	const count = 1024
	vectors := make([]Vec3f, count)
	for i := range vectors {
		vectors[i] = Vec3f{X: rand.Float32()*100 - 50, Y: rand.Float32()*100 - 50, Z: 1}
	}
	b.ResetTimer()

	var acc float32
	for i := 0; i < b.N; i++ {
		acc += vectors[i&(count-1)].Norm().Z
	}
	_ = acc
}
