// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import "math"

// NCOLOURS is the number of colour classes used for race-free scatter.
// Cells are coloured by their index modulo 4 on each axis: two distinct
// occupied cells of one colour sit at least 4 cells apart along at least
// one axis, so their 4x4x4 B-spline stencils write to disjoint grid nodes
const NCOLOURS = 64

// PartitionList groups particles by their base cell and groups the occupied
// cells into colour classes. Cells of one class may be scattered in
// parallel (their stencils are disjoint); the particles of one cell are
// always handled by a single worker; classes are processed one after
// another
type PartitionList [NCOLOURS][][]int

// Partition rebuilds the colour classes for a grid with origin xmin and
// spacing h. Dead particles are left out. Particles keep ascending order
// inside their cell, making the scatter deterministic
func (o *ParticleData) Partition(pl *PartitionList, xmin []float64, h float64) {
	for ic := 0; ic < NCOLOURS; ic++ {
		pl[ic] = pl[ic][:0]
	}
	cells := make(map[[3]int]int) // cell -> position in its colour class
	for p := 0; p < o.Np; p++ {
		if o.Dead[p] {
			continue
		}
		var c [3]int
		c[0] = int(math.Floor((o.X[p][0] - xmin[0]) / h))
		c[1] = int(math.Floor((o.X[p][1] - xmin[1]) / h))
		c[2] = int(math.Floor((o.X[p][2] - xmin[2]) / h))
		ic := (c[0] & 3) | (c[1]&3)<<2 | (c[2]&3)<<4
		ib, ok := cells[c]
		if !ok {
			ib = len(pl[ic])
			pl[ic] = append(pl[ic], nil)
			cells[c] = ib
		}
		pl[ic][ib] = append(pl[ic][ib], p)
	}
}
