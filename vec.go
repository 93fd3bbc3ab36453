package enginesound

import "math"

// Vec3 is a position or velocity in meters (per second). +X is to the right
// of the listener, +Y up and -Z forward.
type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec3) Scale(a float64) Vec3 { return Vec3{v[0] * a, v[1] * a, v[2] * a} }
func (v Vec3) Dot(o Vec3) float64   { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }
func (v Vec3) Len() float64         { return math.Sqrt(v.Dot(v)) }
