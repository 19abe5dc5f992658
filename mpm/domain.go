// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mpm orchestrates material point method simulations: one Domain
// advances a particle set through semi-implicit time steps on a background
// grid rebuilt every step
package mpm

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/nyue/mpmsnow/grid"
	"github.com/nyue/mpmsnow/inp"
	"github.com/nyue/mpmsnow/krylov"
	"github.com/nyue/mpmsnow/msolid"
	"github.com/nyue/mpmsnow/out"
)

// MASSTOL is the relative tolerance of the scatter mass-conservation
// assertion (debug runs only)
const MASSTOL = 1e-5

// Domain holds one simulation: the particle set, the constitutive model,
// the collision surfaces and the solver scratch reused across steps
type Domain struct {

	// input
	Sim      *inp.Simulation
	Pcl      *msolid.ParticleData
	Surfaces []grid.Surface

	// state
	Mdl     msolid.Model
	Sol     krylov.ConjugateResiduals
	Sum     out.Summary
	Step    int     // number of completed steps
	Time    float64 // current simulation time
	Verbose bool

	// derived
	grav   []float64
	seeded bool // particle volumes seeded from the first grid
}

// NewDomain allocates a domain, builds the constitutive model named in the
// simulation data and initialises the particle deformation state
func NewDomain(sim *inp.Simulation, pcl *msolid.ParticleData, surfaces []grid.Surface) (o *Domain, err error) {
	if err = sim.Check(); err != nil {
		return
	}
	o = new(Domain)
	o.Sim = sim
	o.Pcl = pcl
	o.Surfaces = surfaces
	o.Mdl, err = msolid.New(sim.Mat.Model)
	if err != nil {
		return nil, err
	}
	if err = o.Mdl.Init(sim.MatPrms()); err != nil {
		return nil, err
	}
	o.Mdl.InitParticles(pcl)
	o.Sol.Term = krylov.SquareMagnitude{MaxIt: sim.Solver.MaxIt, Tol: sim.Solver.Tol}
	o.Sol.Verbose = sim.Solver.Verbose
	o.grav = []float64{0, sim.Phys.GravityY, 0}
	return
}

// StepOnce advances the simulation by one time increment Δt. The step is
// transactional: on failure the particle state is rolled back and the error
// returned; the caller may widen the domain or drop stray particles and
// retry
func (o *Domain) StepOnce() (err error) {

	// checkpoint so a failed step leaves the state unchanged
	d := o.Pcl
	d.Backup()
	defer func() {
		if err != nil {
			d.Restore()
		}
	}()

	// background grid for this step (scatters mass and momentum)
	g, err := grid.NewGrid(d, o.Sim.Time.Dt, o.Mdl, o.Sim.Grid.H, o.Sim.Grid.Nthreads)
	if err != nil {
		return
	}

	// seed missing particle volumes from the rest density field
	if !o.seeded {
		g.ComputeDensities(d)
		for p := 0; p < d.Np; p++ {
			if d.Vol[p] == 0 && d.Rho[p] > 0 {
				d.Vol[p] = d.M[p] / d.Rho[p]
			}
		}
		o.seeded = true
	}

	// debug: scatter must conserve mass
	if o.Sim.Data.Debug {
		mp := d.TotalMass()
		if math.Abs(g.TotalMass()-mp) > MASSTOL*mp {
			chk.Panic("mass is not conserved across the scatter: grid=%g particles=%g", g.TotalMass(), mp)
		}
	}

	// grid velocity update: predictor, collisions, implicit correction
	inf := g.UpdateGridVelocities(d, o.Surfaces, o.Sim.Phys.Friction, o.grav, &o.Sol)
	if !inf.Converged && o.Verbose {
		io.Pfred("step %d: solver stopped at residual %g after %d iterations\n", o.Step+1, inf.Resid, inf.Nit)
	}

	// deformation gradients from the new grid field
	ndeg := g.UpdateDeformationGradients(d)
	if ndeg > 0 && o.Verbose {
		io.Pfred("step %d: %d degenerate particle updates skipped\n", o.Step+1, ndeg)
	}

	// FLIP velocity transfer, particle collisions and advection
	g.UpdateParticleVelocities(d, o.Surfaces, o.Sim.Phys.Friction)
	g.Advect(d)

	// bookkeeping
	o.Step++
	o.Time += o.Sim.Time.Dt
	o.Sum.Add(out.StepStats{
		Step:     o.Step,
		Time:     o.Time,
		Mass:     d.TotalMass(),
		Ekin:     d.KineticEnergy(),
		Eelast:   g.CalcEnergy(d),
		SolNit:   inf.Nit,
		SolResid: inf.Resid,
		Ndeg:     ndeg,
	})
	return
}

// Run advances the simulation until time tf
func (o *Domain) Run(tf float64) (err error) {
	for o.Time < tf-1e-12 {
		if err = o.StepOnce(); err != nil {
			return
		}
		if o.Verbose {
			s := o.Sum.Last()
			io.Pf("step %4d  t=%8.4f  ekin=%12.6e  eelast=%12.6e  nit=%2d\n",
				s.Step, s.Time, s.Ekin, s.Eelast, s.SolNit)
		}
	}
	return
}
