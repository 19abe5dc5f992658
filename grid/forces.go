// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"github.com/cpmech/gosl/la"

	"github.com/nyue/mpmsnow/msolid"
	"github.com/nyue/mpmsnow/shp"
	"github.com/nyue/mpmsnow/tsr"
)

// frcScratch holds worker-local buffers for the force loops
type frcScratch struct {
	P   [][]float64 // stress proxy dΨ/dF
	PFt [][]float64 // (dΨ/dF) tr(F) scaled by the particle volume
	g   []float64   // weight gradient
}

func newFrcScratch(nw int) []*frcScratch {
	s := make([]*frcScratch, nw)
	for i := range s {
		s[i] = &frcScratch{P: tsr.Alloc(), PFt: tsr.Alloc(), g: make([]float64, 3)}
	}
	return s
}

// CalcForces computes the nodal forces f (len 3*nn): gravity plus the
// internal elastic forces -Σ V_p (dΨ/dF) tr(F) ∇w
func (o *Grid) CalcForces(d *msolid.ParticleData, f, grav []float64) {

	// gravity
	o.pernode(func(iw, idx int) {
		f[3*idx] = o.Mass[idx] * grav[0]
		f[3*idx+1] = o.Mass[idx] * grav[1]
		f[3*idx+2] = o.Mass[idx] * grav[2]
	})

	// internal forces
	scr := newFrcScratch(o.Nthreads)
	o.splat(d, true, func(iw, p int, st *shp.Stencil) {
		s := scr[iw]
		o.mdl.DPsiDF(s.P, d, p)
		tsr.MulTr(s.PFt, s.P, d.F[p])
		tsr.Scale(s.PFt, d.Vol[p], s.PFt)
		for i := -1; i < 3; i++ {
			for j := -1; j < 3; j++ {
				for k := -1; k < 3; k++ {
					idx := o.Idx(st.C[0]+i, st.C[1]+j, st.C[2]+k)
					st.Grad(s.g, i, j, k)
					for c := 0; c < 3; c++ {
						f[3*idx+c] -= s.PFt[c][0]*s.g[0] + s.PFt[c][1]*s.g[1] + s.PFt[c][2]*s.g[2]
					}
				}
			}
		}
	})
}

// dfScratch holds worker-local buffers for the force-differential loop
type dfScratch struct {
	dX  [][]float64 // Σ δx ∇wᵀ
	dF  [][]float64 // deformation gradient differential
	dP  [][]float64 // stress differential
	PFt [][]float64 // (dP) tr(F) scaled by the particle volume
	g   []float64
}

func newDfScratch(nw int) []*dfScratch {
	s := make([]*dfScratch, nw)
	for i := range s {
		s[i] = &dfScratch{dX: tsr.Alloc(), dF: tsr.Alloc(), dP: tsr.Alloc(), PFt: tsr.Alloc(), g: make([]float64, 3)}
	}
	return s
}

// CalcForceDifferentials computes the change df (len 3*nn) of the internal
// forces when the grid nodes are displaced by dx (len 3*nn):
//  dF_p = Σ δx_i ∇w_p(i)ᵀ F_p,  df_i = -Σ V_p (d²Ψ/dFdF : dF_p) tr(F_p) ∇w_p(i)
// The resulting map dx → df is symmetric (energy Hessian)
func (o *Grid) CalcForceDifferentials(d *msolid.ParticleData, dx, df []float64) {

	la.VecFill(df, 0)

	scr := newDfScratch(o.Nthreads)
	o.splat(d, true, func(iw, p int, st *shp.Stencil) {
		s := scr[iw]

		// deformation gradient differential at this particle
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				s.dX[a][b] = 0
			}
		}
		for i := -1; i < 3; i++ {
			for j := -1; j < 3; j++ {
				for k := -1; k < 3; k++ {
					idx := o.Idx(st.C[0]+i, st.C[1]+j, st.C[2]+k)
					st.Grad(s.g, i, j, k)
					for a := 0; a < 3; a++ {
						δxa := dx[3*idx+a]
						s.dX[a][0] += δxa * s.g[0]
						s.dX[a][1] += δxa * s.g[1]
						s.dX[a][2] += δxa * s.g[2]
					}
				}
			}
		}
		tsr.Mul(s.dF, s.dX, d.F[p])

		// stress differential and scatter
		o.mdl.DPsiDFDifferential(s.dP, s.dF, d, p)
		tsr.MulTr(s.PFt, s.dP, d.F[p])
		tsr.Scale(s.PFt, d.Vol[p], s.PFt)
		for i := -1; i < 3; i++ {
			for j := -1; j < 3; j++ {
				for k := -1; k < 3; k++ {
					idx := o.Idx(st.C[0]+i, st.C[1]+j, st.C[2]+k)
					st.Grad(s.g, i, j, k)
					for c := 0; c < 3; c++ {
						df[3*idx+c] -= s.PFt[c][0]*s.g[0] + s.PFt[c][1]*s.g[1] + s.PFt[c][2]*s.g[2]
					}
				}
			}
		}
	})
}

// CalcEnergy returns the elastic energy stored in the particles,
// Σ V_p Ψ_p. Used by the summary and the finite-difference checks
func (o *Grid) CalcEnergy(d *msolid.ParticleData) (e float64) {
	for p := 0; p < d.Np; p++ {
		if d.Dead[p] {
			continue
		}
		e += d.Vol[p] * o.mdl.EnergyDensity(d, p)
	}
	return
}
