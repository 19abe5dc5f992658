// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"github.com/cpmech/gosl/la"

	"github.com/nyue/mpmsnow/krylov"
	"github.com/nyue/mpmsnow/msolid"
	"github.com/nyue/mpmsnow/shp"
)

// UpdateGridVelocities advances the nodal velocities by one time increment:
// explicit predictor with gravity and internal forces, collision projection
// with Coulomb friction, then the semi-implicit correction
//  (M - Δt² K) v = M v*
// solved matrix-free by the conjugate residuals solver. The previous nodal
// velocities are kept for the FLIP transfer
func (o *Grid) UpdateGridVelocities(d *msolid.ParticleData, surfaces []Surface, μf float64, grav []float64, sol *krylov.ConjugateResiduals) (inf krylov.Info) {

	la.VecCopy(o.Vprev, 1, o.V)

	// nodal forces
	o.CalcForces(d, o.frc, grav)

	// explicit predictor with collisions; the right-hand side is the
	// predictor momentum
	parfor(o.Nthreads, o.N[2], func(iw, klo, khi int) {
		x := make([]float64, 3)
		n := make([]float64, 3)
		v := make([]float64, 3)
		for k := klo; k < khi; k++ {
			for j := 0; j < o.N[1]; j++ {
				for i := 0; i < o.N[0]; i++ {
					idx := o.Idx(i, j, k)
					o.Collided[idx] = false
					m := o.Mass[idx]
					if m == 0 {
						o.fwd[3*idx], o.fwd[3*idx+1], o.fwd[3*idx+2] = 0, 0, 0
						continue
					}
					for c := 0; c < 3; c++ {
						v[c] = o.V[3*idx+c] + o.Δt*o.frc[3*idx+c]/m
					}
					o.NodeX(x, i, j, k)
					if Collide(v, x, surfaces, μf, n) {
						o.Collided[idx] = true
						o.Normal[3*idx] = n[0]
						o.Normal[3*idx+1] = n[1]
						o.Normal[3*idx+2] = n[2]
					}
					for c := 0; c < 3; c++ {
						o.fwd[3*idx+c] = m * v[c]
					}
				}
			}
		}
	})

	// implicit correction on the tangent subspace of collided nodes
	op := &ImplicitMatrix{g: o, d: d}
	op.Project(o.fwd)
	op.Project(o.V)
	inf = sol.Solve(op, o.fwd, o.V)
	return
}

// UpdateParticleVelocities transfers the grid velocity change back onto the
// particles FLIP style,
//  v_p += Σ w_p(i) (v_i - v_i^prev)
// and re-applies the collision constraint on the particle velocity
func (o *Grid) UpdateParticleVelocities(d *msolid.ParticleData, surfaces []Surface, μf float64) {
	parfor(o.Nthreads, d.Np, func(iw, lo, hi int) {
		var st shp.Stencil
		n := make([]float64, 3)
		for p := lo; p < hi; p++ {
			if d.Dead[p] {
				continue
			}
			st.Set(d.X[p], o.Xmin, o.H, false)
			for i := -1; i < 3; i++ {
				for j := -1; j < 3; j++ {
					for k := -1; k < 3; k++ {
						idx := o.Idx(st.C[0]+i, st.C[1]+j, st.C[2]+k)
						w := st.Wt(i, j, k)
						d.V[p][0] += w * (o.V[3*idx] - o.Vprev[3*idx])
						d.V[p][1] += w * (o.V[3*idx+1] - o.Vprev[3*idx+1])
						d.V[p][2] += w * (o.V[3*idx+2] - o.Vprev[3*idx+2])
					}
				}
			}
			Collide(d.V[p], d.X[p], surfaces, μf, n)
		}
	})
}

// Advect moves the particles through the updated velocity field:
// x_p += Δt v_p
func (o *Grid) Advect(d *msolid.ParticleData) {
	parfor(o.Nthreads, d.Np, func(iw, lo, hi int) {
		for p := lo; p < hi; p++ {
			if d.Dead[p] {
				continue
			}
			d.X[p][0] += o.Δt * d.V[p][0]
			d.X[p][1] += o.Δt * d.V[p][1]
			d.X[p][2] += o.Δt * d.V[p][2]
		}
	})
}

// UpdateDeformationGradients gathers the velocity gradient of the updated
// grid field at each particle,
//  ∇v_p = Σ v_i ∇w_p(i)ᵀ
// and delegates the deformation gradient update (trial update, plastic
// yield, hardening, cache refresh) to the constitutive model. It returns
// the number of particles skipped due to numeric degeneracy
func (o *Grid) UpdateDeformationGradients(d *msolid.ParticleData) (ndeg int) {

	// gather velocity gradients
	o.gather(d, true, func(iw, p int, st *shp.Stencil) {
		var g [3]float64
		dv := d.GradV[p]
		for a := 0; a < 3; a++ {
			dv[a][0], dv[a][1], dv[a][2] = 0, 0, 0
		}
		for i := -1; i < 3; i++ {
			for j := -1; j < 3; j++ {
				for k := -1; k < 3; k++ {
					idx := o.Idx(st.C[0]+i, st.C[1]+j, st.C[2]+k)
					st.Grad(g[:], i, j, k)
					for a := 0; a < 3; a++ {
						va := o.V[3*idx+a]
						dv[a][0] += va * g[0]
						dv[a][1] += va * g[1]
						dv[a][2] += va * g[2]
					}
				}
			}
		}
	})

	// per-particle deformation update, chunked over workers
	res := make([]int, o.Nthreads)
	parfor(o.Nthreads, d.Np, func(iw, lo, hi int) {
		res[iw] = o.mdl.UpdateDeformation(d, o.Δt, lo, hi)
	})
	for _, nd := range res {
		ndeg += nd
	}
	return
}
