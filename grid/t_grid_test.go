// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/rnd"

	"github.com/nyue/mpmsnow/msolid"
	"github.com/nyue/mpmsnow/shp"
	"github.com/nyue/mpmsnow/tsr"
)

// newSnow builds a snow model for the grid tests
func newSnow(tst *testing.T, prms fun.Prms) msolid.Model {
	mdl, err := msolid.New("snow")
	if err != nil {
		tst.Fatalf("cannot allocate model:\n%v", err)
	}
	if err := mdl.Init(prms); err != nil {
		tst.Fatalf("cannot initialise model:\n%v", err)
	}
	return mdl
}

// randParticles builds particles scattered in a box with random deformation
// gradients close to the identity (caches refreshed)
func randParticles(tst *testing.T, mdl msolid.Model, np int, mag float64) *msolid.ParticleData {
	d := msolid.NewParticleData(np)
	mdl.InitParticles(d)
	Fi := tsr.Alloc()
	for p := 0; p < np; p++ {
		for c := 0; c < 3; c++ {
			d.X[p][c] = rnd.Float64(0, 0.4)
			d.V[p][c] = rnd.Float64(-0.1, 0.1)
		}
		d.M[p] = rnd.Float64(0.5, 1.5)
		d.Vol[p] = rnd.Float64(0.5e-3, 1.5e-3)
		if mag > 0 {
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					d.F[p][i][j] = rnd.Float64(-mag, mag)
				}
				d.F[p][i][i] += 1.0
			}
			if err := tsr.RightPolar(d.R[p], d.S[p], d.F[p]); err != nil {
				tst.Fatalf("polar failed:\n%v", err)
			}
			det, err := tsr.Inv(Fi, d.F[p])
			if err != nil {
				tst.Fatalf("inversion failed:\n%v", err)
			}
			tsr.Transp(d.FinvTr[p], Fi)
			d.J[p] = det
		}
	}
	return d
}

func Test_grid01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid01. construction, scatter and mass conservation")

	rnd.Init(11)
	mdl := newSnow(tst, nil)
	d := randParticles(tst, mdl, 40, 0)

	g, err := NewGrid(d, 0.01, mdl, 0.1, 0)
	if err != nil {
		tst.Errorf("NewGrid failed:\n%v", err)
		return
	}

	// particle bounding box lies strictly inside the grid with the
	// stencil margin
	for p := 0; p < d.Np; p++ {
		var st shp.Stencil
		st.Set(d.X[p], g.Xmin, g.H, false)
		for c := 0; c < 3; c++ {
			if st.C[c] < 1 || st.C[c]+2 > g.N[c]-1 {
				tst.Errorf("stencil of particle %d leaves the grid: base=%v dims=%v", p, st.C, g.N)
				return
			}
		}
	}

	// mass conservation across the scatter
	mp := d.TotalMass()
	if math.Abs(g.TotalMass()-mp)/mp > 1e-6 {
		tst.Errorf("mass not conserved: grid=%g particles=%g", g.TotalMass(), mp)
		return
	}

	// momentum conservation across the scatter
	mom := []float64{0, 0, 0}
	for p := 0; p < d.Np; p++ {
		for c := 0; c < 3; c++ {
			mom[c] += d.M[p] * d.V[p][c]
		}
	}
	gmom := []float64{0, 0, 0}
	for idx := 0; idx < g.Nn; idx++ {
		for c := 0; c < 3; c++ {
			gmom[c] += g.Mass[idx] * g.V[3*idx+c]
		}
	}
	chk.Vector(tst, "momentum", 1e-10, gmom, mom)

	// degenerate input is rejected
	d.X[0][1] = math.NaN()
	if _, err := NewGrid(d, 0.01, mdl, 0.1, 0); err == nil {
		tst.Errorf("NewGrid must reject non-finite particle positions")
		return
	}
}

func Test_grid02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid02. density gather of a single particle")

	mdl := newSnow(tst, nil)
	d := msolid.NewParticleData(1)
	mdl.InitParticles(d)
	d.X[0][0], d.X[0][1], d.X[0][2] = 0.013, -0.27, 0.4
	d.M[0] = 2.5

	h := 0.1
	g, err := NewGrid(d, 0.01, mdl, h, 1)
	if err != nil {
		tst.Errorf("NewGrid failed:\n%v", err)
		return
	}
	g.ComputeDensities(d)

	// for one particle: ρ = Σ w (w m) / h³ = m Σ w² / h³
	var st shp.Stencil
	st.Set(d.X[0], g.Xmin, g.H, false)
	sum := 0.0
	for i := -1; i < 3; i++ {
		for j := -1; j < 3; j++ {
			for k := -1; k < 3; k++ {
				w := st.Wt(i, j, k)
				sum += w * w
			}
		}
	}
	chk.Scalar(tst, "ρ", 1e-12, d.Rho[0], d.M[0]*sum/(h*h*h))
}

func Test_grid03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid03. forces versus energy finite differences")

	rnd.Init(33)
	mdl := newSnow(tst, []*fun.Prm{
		&fun.Prm{N: "E", V: 100},
		&fun.Prm{N: "nu", V: 0.2},
		&fun.Prm{N: "plast", V: 0},
	})
	d := randParticles(tst, mdl, 4, 0.15)

	Δt := 0.01
	h := 0.1
	g, err := NewGrid(d, Δt, mdl, h, 1)
	if err != nil {
		tst.Errorf("NewGrid failed:\n%v", err)
		return
	}

	// forces without gravity
	f := make([]float64, 3*g.Nn)
	g.CalcForces(d, f, []float64{0, 0, 0})

	// perturb a sample of massive dofs: move one node a distance ±δ along
	// one axis and compare the energy change against the force
	δ := 1e-2 * h
	nchecked := 0
	d2 := msolid.NewParticleData(d.Np)
	energyAt := func(dof int, delta float64) float64 {
		d2.Set(d)
		for i := range g.V {
			g.V[i] = 0
		}
		g.V[dof] = delta / Δt
		g.UpdateDeformationGradients(d2)
		return g.CalcEnergy(d2)
	}
	for idx := 0; idx < g.Nn && nchecked < 9; idx++ {
		if g.Mass[idx] < 1e-3 {
			continue
		}
		for dim := 0; dim < 3; dim++ {
			ea := energyAt(3*idx+dim, δ)
			eb := energyAt(3*idx+dim, -δ)
			fnum := (eb - ea) / (2.0 * δ)
			fana := f[3*idx+dim]
			scale := math.Max(math.Abs(fana), 1e-3)
			if math.Abs(fnum-fana)/scale > 1e-2 {
				tst.Errorf("force at dof (%d,%d) failed: %g != %g", idx, dim, fana, fnum)
				return
			}
			nchecked++
		}
	}
	io.Pf("checked %d dofs\n", nchecked)
	if nchecked == 0 {
		tst.Errorf("no massive dof was checked")
	}
}

func Test_grid04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid04. force differentials versus finite differences")

	rnd.Init(44)
	mdl := newSnow(tst, []*fun.Prm{
		&fun.Prm{N: "E", V: 100},
		&fun.Prm{N: "nu", V: 0.2},
		&fun.Prm{N: "plast", V: 0},
	})
	d := randParticles(tst, mdl, 6, 0.15)

	Δt := 0.01
	h := 0.1
	g, err := NewGrid(d, Δt, mdl, h, 0)
	if err != nil {
		tst.Errorf("NewGrid failed:\n%v", err)
		return
	}

	// baseline forces
	f0 := make([]float64, 3*g.Nn)
	g.CalcForces(d, f0, []float64{0, 0, 0})

	// random small node displacement
	dx := make([]float64, 3*g.Nn)
	for i := range dx {
		dx[i] = rnd.Float64(-1, 1) * 1e-4 * h
	}

	// analytic differential
	df := make([]float64, 3*g.Nn)
	g.CalcForceDifferentials(d, dx, df)

	// actual force change when the nodes move by dx
	d2 := msolid.NewParticleData(d.Np)
	d2.Set(d)
	for i := range g.V {
		g.V[i] = dx[i] / Δt
	}
	g.UpdateDeformationGradients(d2)
	f1 := make([]float64, 3*g.Nn)
	g.CalcForces(d2, f1, []float64{0, 0, 0})

	num, den := 0.0, 0.0
	for i := range f0 {
		delta := f1[i] - f0[i]
		e := df[i] - delta
		num += e * e
		den += delta * delta
	}
	relerr := math.Sqrt(num) / math.Sqrt(den)
	io.Pf("relative error = %g\n", relerr)
	if relerr > 1e-2 {
		tst.Errorf("force differential failed: relative error = %g", relerr)
	}
}

func Test_grid05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid05. Coulomb friction collision response")

	plane := &Plane{P: []float64{0, 0, 0}, N: []float64{0, 1, 0}}
	surfaces := []Surface{plane}
	n := make([]float64, 3)

	// head-on: full stop
	v := []float64{0, -1, 0}
	if !Collide(v, []float64{0, -0.01, 0}, surfaces, 0.5, n) {
		tst.Errorf("head-on impact must collide")
		return
	}
	chk.Vector(tst, "v (head-on)", 1e-15, v, []float64{0, 0, 0})

	// slipping: tangential component reduced by friction
	v = []float64{1, -1, 0}
	Collide(v, []float64{0, -0.01, 0}, surfaces, 0.5, n)
	chk.Vector(tst, "v (slipping)", 1e-15, v, []float64{0.5, 0, 0})
	chk.Vector(tst, "n", 1e-15, n, []float64{0, 1, 0})

	// slow tangential motion is arrested, never reversed
	v = []float64{0.4, -1, 0}
	Collide(v, []float64{0, -0.01, 0}, surfaces, 0.5, n)
	chk.Vector(tst, "v (arrested)", 1e-15, v, []float64{0, 0, 0})

	// separating velocities are untouched
	v = []float64{0.3, 0.2, 0}
	if Collide(v, []float64{0, -0.01, 0}, surfaces, 0.5, n) {
		tst.Errorf("separating velocity must not collide")
		return
	}
	chk.Vector(tst, "v (separating)", 1e-15, v, []float64{0.3, 0.2, 0})

	// outside the surface nothing happens
	v = []float64{0, -1, 0}
	if Collide(v, []float64{0, 0.5, 0}, surfaces, 0.5, n) {
		tst.Errorf("no collision above the plane")
		return
	}

	// sphere gradient points outward
	sph := &Sphere{C: []float64{0, 0, 0}, R: 1}
	chk.Scalar(tst, "φ inside", 1e-15, sph.Phi([]float64{0.5, 0, 0}), -0.5)
	sph.Grad(n, []float64{0.5, 0, 0})
	chk.Vector(tst, "∇φ", 1e-15, n, []float64{0.5, 0, 0})
}
