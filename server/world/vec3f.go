// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"github.com/chewxy/math32"
)

// Vec3f is used for tangents and normals of the height field.
type Vec3f struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func (vec Vec3f) Mul(factor float32) Vec3f {
	vec.X *= factor
	vec.Y *= factor
	vec.Z *= factor
	return vec
}

// Div divides every component. Dividing by zero is not checked.
func (vec Vec3f) Div(divisor float32) Vec3f {
	vec.X /= divisor
	vec.Y /= divisor
	vec.Z /= divisor
	return vec
}

func (vec Vec3f) Dot(otherVec Vec3f) float32 {
	return vec.X*otherVec.X + vec.Y*otherVec.Y + vec.Z*otherVec.Z
}

func (vec Vec3f) Cross(otherVec Vec3f) Vec3f {
	return Vec3f{
		X: vec.Y*otherVec.Z - vec.Z*otherVec.Y,
		Y: vec.Z*otherVec.X - vec.X*otherVec.Z,
		Z: vec.X*otherVec.Y - vec.Y*otherVec.X,
	}
}

func (vec Vec3f) Length() float32 {
	return math32.Sqrt(vec.Dot(vec))
}

func (vec Vec3f) Norm() Vec3f {
	return vec.Div(vec.Length())
}

// XY drops the z component.
func (vec Vec3f) XY() Vec2f {
	return Vec2f{X: vec.X, Y: vec.Y}
}
