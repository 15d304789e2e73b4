package host

import "math"

// Vector is a 3D vector.
type Vector struct {
	X, Y, Z float64
}

func (v Vector) Add(o Vector) Vector    { return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector) Sub(o Vector) Vector    { return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector) Scale(f float64) Vector { return Vector{v.X * f, v.Y * f, v.Z * f} }
func (v Vector) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }
func (v Vector) Length() float64        { return math.Sqrt(v.LengthSquared()) }

// Normalize returns the unit vector, or the zero vector for a zero-length input.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return Vector{}
	}
	return v.Scale(1 / l)
}

// Location is a position with orientation inside a named world.
type Location struct {
	World string
	X     float64
	Y     float64
	Z     float64
	Yaw   float64
	Pitch float64
}

// Vector returns the position part of the location.
func (l Location) Vector() Vector {
	return Vector{l.X, l.Y, l.Z}
}

// Within reports whether o lies inside the box of half-extents (dx, dy, dz) around l in the same world.
func (l Location) Within(o Location, dx, dy, dz float64) bool {
	if l.World != o.World {
		return false
	}
	return math.Abs(l.X-o.X) <= dx && math.Abs(l.Y-o.Y) <= dy && math.Abs(l.Z-o.Z) <= dz
}
