// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import "github.com/nyue/mpmsnow/msolid"

// GenBlock generates an n×n×n block of equally spaced particles filling the
// cube with corner x0 and side length side. Masses are set from the given
// density; velocities from v0
func GenBlock(x0 []float64, side float64, n int, density float64, v0 []float64) *msolid.ParticleData {
	np := n * n * n
	d := msolid.NewParticleData(np)
	spacing := side / float64(n)
	mass := density * side * side * side / float64(np)
	p := 0
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				d.X[p][0] = x0[0] + (float64(i)+0.5)*spacing
				d.X[p][1] = x0[1] + (float64(j)+0.5)*spacing
				d.X[p][2] = x0[2] + (float64(k)+0.5)*spacing
				copy(d.V[p], v0)
				d.M[p] = mass
				p++
			}
		}
	}
	return d
}

// GenOne generates a single particle at x with velocity v, mass m and
// initial volume vol
func GenOne(x, v []float64, m, vol float64) *msolid.ParticleData {
	d := msolid.NewParticleData(1)
	copy(d.X[0], x)
	copy(d.V[0], v)
	d.M[0] = m
	d.Vol[0] = vol
	return d
}
