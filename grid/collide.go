// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "math"

// Surface is an opaque collision surface given by a signed distance
// function φ (negative inside the object) and its gradient (outward
// direction, not necessarily unit)
type Surface interface {
	Phi(x []float64) float64
	Grad(n, x []float64)
}

// Plane is the half-space below the plane through P with outward normal N
type Plane struct {
	P []float64 // point on the plane
	N []float64 // outward normal
}

// Phi returns the signed distance scaled by ‖N‖
func (o *Plane) Phi(x []float64) float64 {
	return o.N[0]*(x[0]-o.P[0]) + o.N[1]*(x[1]-o.P[1]) + o.N[2]*(x[2]-o.P[2])
}

// Grad sets n to the outward normal
func (o *Plane) Grad(n, x []float64) {
	n[0], n[1], n[2] = o.N[0], o.N[1], o.N[2]
}

// Sphere is a solid sphere with centre C and radius R
type Sphere struct {
	C []float64
	R float64
}

// Phi returns the signed distance to the sphere surface
func (o *Sphere) Phi(x []float64) float64 {
	dx := x[0] - o.C[0]
	dy := x[1] - o.C[1]
	dz := x[2] - o.C[2]
	return math.Sqrt(dx*dx+dy*dy+dz*dz) - o.R
}

// Grad sets n to the outward direction
func (o *Sphere) Grad(n, x []float64) {
	n[0] = x[0] - o.C[0]
	n[1] = x[1] - o.C[1]
	n[2] = x[2] - o.C[2]
}

// Collide applies the Coulomb-friction collision response to the velocity v
// at position x. For each surface with φ(x) <= 0 and the velocity moving
// into the object, the normal component is removed and the tangential
// component scaled by 1 + μ (n·v)/‖v_tan‖, clamped at zero (full arrest).
// It reports whether v was modified and, if so, leaves the unit normal of
// the last colliding surface in n (len 3)
func Collide(v, x []float64, surfaces []Surface, μ float64, n []float64) (collided bool) {
	var nc [3]float64 // unit normal of the last colliding surface
	defer func() {
		if collided {
			n[0], n[1], n[2] = nc[0], nc[1], nc[2]
		}
	}()
	for _, srf := range surfaces {
		if srf.Phi(x) > 0 {
			continue
		}
		srf.Grad(n, x)
		nn := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		if nn == 0 {
			continue
		}
		n[0] /= nn
		n[1] /= nn
		n[2] /= nn
		ndotv := n[0]*v[0] + n[1]*v[1] + n[2]*v[2]
		if ndotv >= 0 {
			continue // separating
		}
		collided = true
		nc[0], nc[1], nc[2] = n[0], n[1], n[2]

		// tangential part
		vt0 := v[0] - ndotv*n[0]
		vt1 := v[1] - ndotv*n[1]
		vt2 := v[2] - ndotv*n[2]
		vt := math.Sqrt(vt0*vt0 + vt1*vt1 + vt2*vt2)

		// sticking: friction arrests all sliding
		if vt <= -μ*ndotv || vt == 0 {
			v[0], v[1], v[2] = 0, 0, 0
			continue
		}

		// slipping
		scale := 1.0 + μ*ndotv/vt
		v[0] = vt0 * scale
		v[1] = vt1 * scale
		v[2] = vt2 * scale
	}
	return
}
