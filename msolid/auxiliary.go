// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

// CalcLames computes the Lamé parameters μ and λ from Young's modulus E
// and Poisson's ratio ν
func CalcLames(E, ν float64) (μ, λ float64) {
	μ = E / (2.0 * (1.0 + ν))
	λ = E * ν / ((1.0 + ν) * (1.0 - 2.0*ν))
	return
}

// Skew builds the skew-symmetric tensor with parameters w = (w01, w02, w12):
//  A = [    0   w[0]  w[1] ]
//      [ -w[0]    0   w[2] ]
//      [ -w[1] -w[2]    0  ]
func Skew(A [][]float64, w []float64) {
	A[0][0], A[1][1], A[2][2] = 0, 0, 0
	A[0][1], A[1][0] = w[0], -w[0]
	A[0][2], A[2][0] = w[1], -w[1]
	A[1][2], A[2][1] = w[2], -w[2]
}
