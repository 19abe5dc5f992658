// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements the cubic B-spline shape functions used for
// particle/grid transfers in the material point method
package shp

import "math"

// N returns the cubic B-spline value at x
//  N(x) = 1/2|x|³ - x² + 2/3       for |x| < 1
//       = -|x|³/6 + x² - 2|x| + 4/3  for 1 <= |x| < 2
//       = 0                          otherwise
func N(x float64) float64 {
	ax := math.Abs(x)
	if ax < 1 {
		return 0.5*ax*ax*ax - ax*ax + 2.0/3.0
	}
	if ax < 2 {
		return -ax*ax*ax/6.0 + ax*ax - 2.0*ax + 4.0/3.0
	}
	return 0
}

// DN returns the derivative of the cubic B-spline at x. The sign is
// propagated from x
func DN(x float64) float64 {
	if x < 0 {
		return -DN(-x)
	}
	if x < 1 {
		return x * (1.5*x - 2.0)
	}
	if x < 2 {
		x -= 2.0
		return -0.5 * x * x
	}
	return 0
}

// Stencil holds the 4x4x4 influence stencil of one particle: the base cell
// and the separable per-axis weights for node offsets -1..2. It is a value
// type meant to live on a worker's stack; index slot k+1 stores offset k
type Stencil struct {
	C  [3]int        // base cell: floor((x-xmin)/h) per axis
	W  [3][4]float64 // per-axis weights
	DW [3][4]float64 // per-axis derivative weights (the 1/h factor included)
}

// Set computes the base cell and weights of a particle at x on a grid with
// origin xmin and spacing h. Derivative weights are only filled when derivs
// is true
func (o *Stencil) Set(x, xmin []float64, h float64, derivs bool) {
	for d := 0; d < 3; d++ {
		pos := (x[d] - xmin[d]) / h
		c := int(math.Floor(pos))
		o.C[d] = c
		r := pos - float64(c)
		o.W[d][0] = N(r + 1)
		o.W[d][1] = N(r)
		o.W[d][2] = N(r - 1)
		o.W[d][3] = N(r - 2)
		if derivs {
			o.DW[d][0] = DN(r+1) / h
			o.DW[d][1] = DN(r) / h
			o.DW[d][2] = DN(r-1) / h
			o.DW[d][3] = DN(r-2) / h
		}
	}
}

// Wt returns the product weight for node offsets (i,j,k), each in -1..2
func (o *Stencil) Wt(i, j, k int) float64 {
	return o.W[0][i+1] * o.W[1][j+1] * o.W[2][k+1]
}

// Grad sets g (len 3) to the weight gradient for node offsets (i,j,k)
func (o *Stencil) Grad(g []float64, i, j, k int) {
	g[0] = o.DW[0][i+1] * o.W[1][j+1] * o.W[2][k+1]
	g[1] = o.W[0][i+1] * o.DW[1][j+1] * o.W[2][k+1]
	g[2] = o.W[0][i+1] * o.W[1][j+1] * o.DW[2][k+1]
}
