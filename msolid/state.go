// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msolid implements particle state and constitutive models for the
// material point method
package msolid

import (
	"github.com/cpmech/gosl/la"

	"github.com/nyue/mpmsnow/tsr"
)

// ParticleData holds the persistent per-particle state of a simulation,
// stored as attribute arrays indexed by particle id
type ParticleData struct {

	// essential
	Np  int         // number of particles
	X   [][]float64 // positions [np][3]
	V   [][]float64 // velocities [np][3]
	M   []float64   // masses [np]
	Vol []float64   // initial volumes [np]
	Rho []float64   // densities gathered from the grid; only used to seed Vol [np]

	// deformation
	F      [][][]float64 // deformation gradients [np][3][3]
	Fp     [][][]float64 // plastic parts of the deformation gradients [np][3][3]
	R      [][][]float64 // rotation factors of the polar decomposition [np][3][3]
	S      [][][]float64 // symmetric factors of the polar decomposition [np][3][3]
	FinvTr [][][]float64 // cached inverse transpose of F [np][3][3]
	J      []float64     // cached det(F) [np]

	// material (per-particle after hardening)
	Mu  []float64 // Lamé parameter μ [np]
	Lam []float64 // Lamé parameter λ [np]

	// scratch: velocity gradient gathered from the grid each step
	GradV [][][]float64 // [np][3][3]

	// degeneracy bookkeeping
	Dead []bool // excluded particles [np]
	Ndeg []int  // consecutive degenerate steps [np]

	// checkpoint buffers (allocated on first Backup)
	bkp *ParticleData
}

// NewParticleData allocates particle arrays for np particles
func NewParticleData(np int) (o *ParticleData) {
	o = new(ParticleData)
	o.Np = np
	o.X = la.MatAlloc(np, 3)
	o.V = la.MatAlloc(np, 3)
	o.M = make([]float64, np)
	o.Vol = make([]float64, np)
	o.Rho = make([]float64, np)
	o.F = make([][][]float64, np)
	o.Fp = make([][][]float64, np)
	o.R = make([][][]float64, np)
	o.S = make([][][]float64, np)
	o.FinvTr = make([][][]float64, np)
	o.GradV = make([][][]float64, np)
	for p := 0; p < np; p++ {
		o.F[p] = tsr.Alloc()
		o.Fp[p] = tsr.Alloc()
		o.R[p] = tsr.Alloc()
		o.S[p] = tsr.Alloc()
		o.FinvTr[p] = tsr.Alloc()
		o.GradV[p] = tsr.Alloc()
	}
	o.J = make([]float64, np)
	o.Mu = make([]float64, np)
	o.Lam = make([]float64, np)
	o.Dead = make([]bool, np)
	o.Ndeg = make([]int, np)
	return
}

// Set copies the state of another particle set into this one. Both must
// have been allocated with the same number of particles
func (o *ParticleData) Set(other *ParticleData) {
	for p := 0; p < o.Np; p++ {
		copy(o.X[p], other.X[p])
		copy(o.V[p], other.V[p])
		tsr.Assign(o.F[p], other.F[p])
		tsr.Assign(o.Fp[p], other.Fp[p])
		tsr.Assign(o.R[p], other.R[p])
		tsr.Assign(o.S[p], other.S[p])
		tsr.Assign(o.FinvTr[p], other.FinvTr[p])
	}
	copy(o.M, other.M)
	copy(o.Vol, other.Vol)
	copy(o.Rho, other.Rho)
	copy(o.J, other.J)
	copy(o.Mu, other.Mu)
	copy(o.Lam, other.Lam)
	copy(o.Dead, other.Dead)
	copy(o.Ndeg, other.Ndeg)
}

// Backup checkpoints the particle state so a failed step can be rolled back
func (o *ParticleData) Backup() {
	if o.bkp == nil {
		o.bkp = NewParticleData(o.Np)
	}
	o.bkp.Set(o)
}

// Restore rolls the particle state back to the last Backup
func (o *ParticleData) Restore() {
	if o.bkp != nil {
		o.Set(o.bkp)
	}
}

// TotalMass returns the mass of all particles, dead ones excluded
func (o *ParticleData) TotalMass() (m float64) {
	for p := 0; p < o.Np; p++ {
		if o.Dead[p] {
			continue
		}
		m += o.M[p]
	}
	return
}

// KineticEnergy returns Σ m v²/2 over alive particles
func (o *ParticleData) KineticEnergy() (e float64) {
	for p := 0; p < o.Np; p++ {
		if o.Dead[p] {
			continue
		}
		v := o.V[p]
		e += 0.5 * o.M[p] * (v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	}
	return
}
