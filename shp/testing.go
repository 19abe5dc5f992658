// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/io"
)

// CheckPartitionOfUnity checks that the stencil weights of a particle at x
// sum to one and the derivative weights sum to zero
func CheckPartitionOfUnity(tst *testing.T, x, xmin []float64, h, tol float64, verbose bool) {
	var st Stencil
	st.Set(x, xmin, h, true)
	g := make([]float64, 3)
	sumW := 0.0
	sumG := []float64{0, 0, 0}
	for i := -1; i < 3; i++ {
		for j := -1; j < 3; j++ {
			for k := -1; k < 3; k++ {
				sumW += st.Wt(i, j, k)
				st.Grad(g, i, j, k)
				sumG[0] += g[0]
				sumG[1] += g[1]
				sumG[2] += g[2]
			}
		}
	}
	if verbose {
		io.Pf("x=%v  Σw=%v  Σdw=%v\n", x, sumW, sumG)
	}
	if math.Abs(sumW-1.0) > tol {
		tst.Errorf("weights at x=%v do not sum to 1: Σw = %g", x, sumW)
		return
	}
	for d := 0; d < 3; d++ {
		if math.Abs(sumG[d]) > tol {
			tst.Errorf("derivative weights at x=%v do not sum to 0: Σdw[%d] = %g", x, d, sumG[d])
			return
		}
	}
}
