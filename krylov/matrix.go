// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package krylov implements matrix-free Krylov solvers for the symmetric
// (possibly indefinite) systems arising from semi-implicit MPM steps
package krylov

// ProceduralMatrix is a matrix-free symmetric linear operator with an
// optional subspace projection. Project restricts a vector to the
// constraint subspace; implementations without constraints leave the
// vector untouched
type ProceduralMatrix interface {
	MulVec(res, x []float64)
	Project(x []float64)
}

// Termination decides when an iterative solve should stop
type Termination interface {

	// Done returns true to stop at iteration it with squared residual
	// norm rr; Converged reports whether rr satisfies the tolerance
	Done(it int, rr float64) bool
	Converged(rr float64) bool
}

// SquareMagnitude terminates when the squared residual norm drops to
// Tol² or MaxIt iterations are exceeded
type SquareMagnitude struct {
	MaxIt int     // maximum number of iterations
	Tol   float64 // tolerance on ‖r‖
}

// Done returns true to stop at iteration it with squared residual norm rr
func (o SquareMagnitude) Done(it int, rr float64) bool {
	return it >= o.MaxIt || o.Converged(rr)
}

// Converged reports whether rr satisfies the tolerance
func (o SquareMagnitude) Converged(rr float64) bool {
	return rr <= o.Tol*o.Tol
}
