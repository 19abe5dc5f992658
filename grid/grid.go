// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grid implements the background Cartesian grid of the material
// point method: particle/grid transfers, force and force-differential
// assembly, the explicit predictor with collisions, and the matrix-free
// implicit velocity update
package grid

import (
	"math"
	"runtime"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/nyue/mpmsnow/msolid"
	"github.com/nyue/mpmsnow/shp"
)

// PAD is the padding, in cell sizes, added around the particle bounding box
// so the 4x4x4 B-spline stencils of boundary particles stay inside the grid
const PAD = 1.5

// Grid holds the background grid of one simulation step. It is rebuilt from
// the particle extents at every step and discarded afterwards; masses and
// velocities are transient to the step
type Grid struct {

	// geometry
	H    float64   // cell size
	Δt   float64   // time increment of the step being solved
	Xmin []float64 // origin [3]
	Xmax []float64 // far corner [3]
	N    []int     // number of nodes per axis [3]
	Nn   int       // total number of nodes

	// node data
	Mass     []float64 // nodal masses [nn]
	V        []float64 // nodal velocities [3*nn]
	Vprev    []float64 // nodal velocities before the last update [3*nn]
	Collided []bool    // nodes marked by the collision projection [nn]
	Normal   []float64 // unit collision normals at collided nodes [3*nn]

	// configuration
	Nthreads int // number of worker goroutines

	// access
	mdl  msolid.Model          // constitutive model
	part msolid.PartitionList  // colour classes for race-free scatter

	// step scratch
	frc []float64 // nodal forces [3*nn]
	fwd []float64 // predictor momentum (right-hand side) [3*nn]
	dfv []float64 // force differential buffer [3*nn]
	xpv []float64 // projected trial vector buffer [3*nn]
}

// NewGrid allocates a grid sized to the current particle bounding box,
// padded by PAD cells, and scatters particle masses and velocities onto the
// nodes. It fails if there is no alive particle or a particle position is
// not finite
func NewGrid(d *msolid.ParticleData, Δt float64, mdl msolid.Model, h float64, nthreads int) (o *Grid, err error) {

	// bounding box of alive particles
	o = new(Grid)
	o.H = h
	o.Δt = Δt
	o.mdl = mdl
	o.Nthreads = nthreads
	if o.Nthreads < 1 {
		o.Nthreads = runtime.NumCPU()
	}
	o.Xmin = []float64{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	o.Xmax = []float64{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64}
	nalive := 0
	for p := 0; p < d.Np; p++ {
		if d.Dead[p] {
			continue
		}
		for c := 0; c < 3; c++ {
			x := d.X[p][c]
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, chk.Err("grid: particle %d has non-finite position %v", p, d.X[p])
			}
			if x < o.Xmin[c] {
				o.Xmin[c] = x
			}
			if x > o.Xmax[c] {
				o.Xmax[c] = x
			}
		}
		nalive++
	}
	if nalive == 0 {
		return nil, chk.Err("grid: no alive particles to build a grid from")
	}

	// quantize the padded bounding box
	o.N = make([]int, 3)
	for c := 0; c < 3; c++ {
		o.Xmin[c], o.Xmax[c], o.N[c] = fixDim(o.Xmin[c], o.Xmax[c], h)
	}
	o.Nn = o.N[0] * o.N[1] * o.N[2]

	// node arrays
	o.Mass = make([]float64, o.Nn)
	o.V = make([]float64, 3*o.Nn)
	o.Vprev = make([]float64, 3*o.Nn)
	o.Collided = make([]bool, o.Nn)
	o.Normal = make([]float64, 3*o.Nn)
	o.frc = make([]float64, 3*o.Nn)
	o.fwd = make([]float64, 3*o.Nn)
	o.dfv = make([]float64, 3*o.Nn)
	o.xpv = make([]float64, 3*o.Nn)

	// colour classes for race-free scatter
	d.Partition(&o.part, o.Xmin, o.H)

	// scatter masses
	o.splat(d, false, func(iw, p int, st *shp.Stencil) {
		for i := -1; i < 3; i++ {
			for j := -1; j < 3; j++ {
				for k := -1; k < 3; k++ {
					idx := o.Idx(st.C[0]+i, st.C[1]+j, st.C[2]+k)
					o.Mass[idx] += d.M[p] * st.Wt(i, j, k)
				}
			}
		}
	})

	// scatter momentum, then divide by the nodal masses
	o.splat(d, false, func(iw, p int, st *shp.Stencil) {
		for i := -1; i < 3; i++ {
			for j := -1; j < 3; j++ {
				for k := -1; k < 3; k++ {
					idx := o.Idx(st.C[0]+i, st.C[1]+j, st.C[2]+k)
					w := d.M[p] * st.Wt(i, j, k)
					o.V[3*idx] += w * d.V[p][0]
					o.V[3*idx+1] += w * d.V[p][1]
					o.V[3*idx+2] += w * d.V[p][2]
				}
			}
		}
	})
	o.pernode(func(iw, idx int) {
		if o.Mass[idx] > 0 {
			o.V[3*idx] /= o.Mass[idx]
			o.V[3*idx+1] /= o.Mass[idx]
			o.V[3*idx+2] /= o.Mass[idx]
		} else {
			o.V[3*idx], o.V[3*idx+1], o.V[3*idx+2] = 0, 0, 0
		}
	})
	la.VecCopy(o.Vprev, 1, o.V)
	return
}

// fixDim pads one axis of the bounding box by PAD cells and quantizes it to
// a whole number of cells
func fixDim(min, max, h float64) (newmin, newmax float64, n int) {
	newmin = min - PAD*h
	maxPadded := max + PAD*h
	n = int(math.Ceil((maxPadded-newmin)/h)) + 1
	newmax = newmin + float64(n)*h
	return
}

// Idx returns the linear index of node (i,j,k)
func (o *Grid) Idx(i, j, k int) int {
	return i + o.N[0]*(j+o.N[1]*k)
}

// NodeX sets x (len 3) to the position of node (i,j,k)
func (o *Grid) NodeX(x []float64, i, j, k int) {
	x[0] = o.Xmin[0] + o.H*float64(i)
	x[1] = o.Xmin[1] + o.H*float64(j)
	x[2] = o.Xmin[2] + o.H*float64(k)
}

// TotalMass returns the mass accumulated on the grid nodes
func (o *Grid) TotalMass() (m float64) {
	for _, v := range o.Mass {
		m += v
	}
	return
}

// parallel helpers //////////////////////////////////////////////////////////

// parfor splits [0,n) into at most nth chunks and runs f on each chunk in
// its own goroutine; iw is the chunk (worker) index. It blocks until all
// chunks are done
func parfor(nth, n int, f func(iw, lo, hi int)) {
	if n == 0 {
		return
	}
	if nth < 1 {
		nth = 1
	}
	if nth > n {
		nth = n
	}
	chunk := (n + nth - 1) / nth
	var wg sync.WaitGroup
	iw := 0
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(iw, lo, hi int) {
			defer wg.Done()
			f(iw, lo, hi)
		}(iw, lo, hi)
		iw++
	}
	wg.Wait()
}

// splat runs fn over all alive particles, one colour class at a time.
// Cells of one class write to disjoint node stencils, so the class is
// chunked over goroutines cell-wise; the particles of one cell stay on a
// single worker. Stencils are value types on the worker's stack
func (o *Grid) splat(d *msolid.ParticleData, derivs bool, fn func(iw, p int, st *shp.Stencil)) {
	for ic := 0; ic < msolid.NCOLOURS; ic++ {
		cells := o.part[ic]
		parfor(o.Nthreads, len(cells), func(iw, lo, hi int) {
			var st shp.Stencil
			for _, ids := range cells[lo:hi] {
				for _, p := range ids {
					st.Set(d.X[p], o.Xmin, o.H, derivs)
					fn(iw, p, &st)
				}
			}
		})
	}
}

// gather runs fn over all particles fully in parallel; fn must write only
// to per-particle data
func (o *Grid) gather(d *msolid.ParticleData, derivs bool, fn func(iw, p int, st *shp.Stencil)) {
	parfor(o.Nthreads, d.Np, func(iw, lo, hi int) {
		var st shp.Stencil
		for p := lo; p < hi; p++ {
			if d.Dead[p] {
				continue
			}
			st.Set(d.X[p], o.Xmin, o.H, derivs)
			fn(iw, p, &st)
		}
	})
}

// pernode runs fn over all node indices in parallel
func (o *Grid) pernode(fn func(iw, idx int)) {
	parfor(o.Nthreads, o.Nn, func(iw, lo, hi int) {
		for idx := lo; idx < hi; idx++ {
			fn(iw, idx)
		}
	})
}

// ComputeDensities gathers nodal masses back onto the particles as
// densities: ρ_p = Σ w m_i / h³. Used once, at the start of a simulation,
// to seed the particle volumes
func (o *Grid) ComputeDensities(d *msolid.ParticleData) {
	h3 := o.H * o.H * o.H
	o.gather(d, false, func(iw, p int, st *shp.Stencil) {
		ρ := 0.0
		for i := -1; i < 3; i++ {
			for j := -1; j < 3; j++ {
				for k := -1; k < 3; k++ {
					idx := o.Idx(st.C[0]+i, st.C[1]+j, st.C[2]+k)
					ρ += st.Wt(i, j, k) * o.Mass[idx] / h3
				}
			}
		}
		d.Rho[p] = ρ
	})
}
