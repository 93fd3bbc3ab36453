package control

import "github.com/vsariola/enginesound"

// Body is a point mass moving in 3D.
type Body struct {
	Position enginesound.Vec3
	Velocity enginesound.Vec3
}

// Integrate advances the body by dt seconds under constant acceleration,
// using semi-implicit Euler: the velocity is updated first and the new
// velocity moves the position.
func (b *Body) Integrate(acceleration enginesound.Vec3, dt float64) {
	b.Velocity = b.Velocity.Add(acceleration.Scale(dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}
