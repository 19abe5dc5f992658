// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "github.com/nyue/mpmsnow/msolid"

// ImplicitMatrix is the matrix-free symmetric operator of the semi-implicit
// velocity update,
//  A v = M v - Δt δf(Δt v)
// restricted to the tangent subspace of the collided nodes. The operator
// borrows the grid and particle state for the duration of one solve only.
// The per-node subspace projector commutes with the diagonal mass matrix,
// so projecting input and output keeps A symmetric
type ImplicitMatrix struct {
	g *Grid
	d *msolid.ParticleData
}

// MulVec computes res = A x
func (o *ImplicitMatrix) MulVec(res, x []float64) {
	g := o.g

	// project the trial velocities and form the displacement field Δt v
	copy(res, x)
	o.Project(res)
	for i := range g.xpv {
		g.xpv[i] = g.Δt * res[i]
	}

	// force differentials for this displacement
	g.CalcForceDifferentials(o.d, g.xpv, g.dfv)

	// res = M x - Δt δf; empty nodes have zero rows
	g.pernode(func(iw, idx int) {
		m := g.Mass[idx]
		for c := 0; c < 3; c++ {
			res[3*idx+c] = m*res[3*idx+c] - g.Δt*g.dfv[3*idx+c]
		}
	})
	o.Project(res)
}

// Project removes the normal component of x at collided nodes
func (o *ImplicitMatrix) Project(x []float64) {
	g := o.g
	g.pernode(func(iw, idx int) {
		if !g.Collided[idx] {
			return
		}
		n0 := g.Normal[3*idx]
		n1 := g.Normal[3*idx+1]
		n2 := g.Normal[3*idx+2]
		ndotx := n0*x[3*idx] + n1*x[3*idx+1] + n2*x[3*idx+2]
		x[3*idx] -= ndotx * n0
		x[3*idx+1] -= ndotx * n1
		x[3*idx+2] -= ndotx * n2
	})
}
