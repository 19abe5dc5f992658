// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// TINY guards divisions by vanishing curvature or residual products
const TINY = 1.0e-30

// Info reports the outcome of a solve
type Info struct {
	Nit       int     // number of iterations performed
	Resid     float64 // final residual norm ‖b - A x‖
	Converged bool    // residual satisfied the termination tolerance
}

// ConjugateResiduals solves A x = b for a symmetric (possibly indefinite)
// procedural matrix A by the conjugate residuals iteration. The residuals
// are A-orthogonal, the mapped search directions mutually orthogonal, and
// the residual norms non-increasing. If the iteration stalls or exceeds
// the termination budget, the iterate with the smallest residual so far is
// returned (the caller decides whether to accept it)
type ConjugateResiduals struct {

	// configuration
	Term    Termination // termination criterion
	Verbose bool        // print residual per iteration
	History bool        // record residuals and search directions (testing)

	// history (filled when History is on)
	Residuals  [][]float64 // residual per iteration [nit+1][n]
	SearchDirs [][]float64 // search direction per iteration [nit+1][n]

	// scratch
	r, p, ar, ap, xbest []float64
}

// Solve runs the iteration, overwriting x (the initial guess) with the
// solution. x and b must be consistent with the constraint subspace of A;
// the solver projects every residual and mapped vector
func (o *ConjugateResiduals) Solve(A ProceduralMatrix, b, x []float64) (inf Info) {

	// allocate / resize scratch
	n := len(b)
	if len(o.r) != n {
		o.r = make([]float64, n)
		o.p = make([]float64, n)
		o.ar = make([]float64, n)
		o.ap = make([]float64, n)
		o.xbest = make([]float64, n)
	}
	if o.Term == nil {
		o.Term = SquareMagnitude{MaxIt: 30, Tol: 1e-7}
	}
	if o.History {
		o.Residuals = o.Residuals[:0]
		o.SearchDirs = o.SearchDirs[:0]
	}

	// r = P(b - A x);  p = r
	A.MulVec(o.r, x)
	for i := 0; i < n; i++ {
		o.r[i] = b[i] - o.r[i]
	}
	A.Project(o.r)
	copy(o.p, o.r)

	// Ar = P(A r);  Ap = Ar
	A.MulVec(o.ar, o.r)
	A.Project(o.ar)
	copy(o.ap, o.ar)

	rr := la.VecDot(o.r, o.r)
	rAr := la.VecDot(o.r, o.ar)
	best := rr
	copy(o.xbest, x)
	o.record()

	it := 0
	for !o.Term.Done(it, rr) {

		// α = (r·Ar) / (Ap·Ap)
		apap := la.VecDot(o.ap, o.ap)
		if math.Abs(apap) < TINY || math.Abs(rAr) < TINY {
			break // stalled: curvature exhausted
		}
		α := rAr / apap

		// x += α p;  r -= α Ap
		la.VecAdd(x, α, o.p)
		la.VecAdd(o.r, -α, o.ap)
		A.Project(o.r)

		// Ar = P(A r)
		A.MulVec(o.ar, o.r)
		A.Project(o.ar)

		// β = (r+·Ar+) / (r·Ar)
		rArNew := la.VecDot(o.r, o.ar)
		β := rArNew / rAr
		rAr = rArNew

		// p = r + β p;  Ap = Ar + β Ap
		for i := 0; i < n; i++ {
			o.p[i] = o.r[i] + β*o.p[i]
			o.ap[i] = o.ar[i] + β*o.ap[i]
		}

		rr = la.VecDot(o.r, o.r)
		if rr < best {
			best = rr
			copy(o.xbest, x)
		}
		it++
		o.record()
		if o.Verbose {
			io.Pf("  cr: it=%3d  ‖r‖=%g\n", it, math.Sqrt(rr))
		}
	}

	// keep the best iterate if the last one regressed
	if rr > best {
		copy(x, o.xbest)
		rr = best
	}

	inf.Nit = it
	inf.Resid = math.Sqrt(rr)
	inf.Converged = o.Term.Converged(rr)
	return
}

// record stores the current residual and search direction
func (o *ConjugateResiduals) record() {
	if !o.History {
		return
	}
	rc := make([]float64, len(o.r))
	pc := make([]float64, len(o.p))
	copy(rc, o.r)
	copy(pc, o.p)
	o.Residuals = append(o.Residuals, rc)
	o.SearchDirs = append(o.SearchDirs, pc)
}
