// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsr

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// SIGTOL is the smallest singular value treated as nonzero when building
// the left factor of the SVD
const SIGTOL = 1.0e-12

// Svd computes the singular value decomposition F = U * diag(s) * tr(V) of a
// 3x3 tensor by solving the symmetric eigenproblem of tr(F)*F with Jacobi
// rotations. Singular values are returned in descending order. U and V are
// proper rotations whenever det(F) > 0
func Svd(U [][]float64, s []float64, V [][]float64, F [][]float64) (err error) {

	// B := tr(F)*F (symmetric positive semi-definite)
	B := Alloc()
	TrMul(B, F, F)

	// eigenvalues and eigenvectors of B
	Q := Alloc()
	λ := make([]float64, 3)
	err = la.Jacobi(Q, λ, B)
	if err != nil {
		return chk.Err("Svd: Jacobi eigen solution failed:\n%v", err)
	}

	// sort descending
	ord := []int{0, 1, 2}
	for i := 0; i < 2; i++ {
		for j := i + 1; j < 3; j++ {
			if λ[ord[j]] > λ[ord[i]] {
				ord[i], ord[j] = ord[j], ord[i]
			}
		}
	}

	// singular values and right factor
	for k := 0; k < 3; k++ {
		l := λ[ord[k]]
		if l < 0 {
			l = 0
		}
		s[k] = math.Sqrt(l)
		for i := 0; i < 3; i++ {
			V[i][k] = Q[i][ord[k]]
		}
	}

	// keep V a proper rotation
	if Det(V) < 0 {
		for i := 0; i < 3; i++ {
			V[i][2] = -V[i][2]
		}
	}

	// left factor: U[:,k] = F*V[:,k] / s[k]
	nok := 0
	for k := 0; k < 3; k++ {
		if s[k] > SIGTOL {
			for i := 0; i < 3; i++ {
				U[i][k] = (F[i][0]*V[0][k] + F[i][1]*V[1][k] + F[i][2]*V[2][k]) / s[k]
			}
			nok++
		}
	}

	// complete degenerate columns by orthogonality
	if nok == 2 {
		U[0][2] = U[1][0]*U[2][1] - U[2][0]*U[1][1]
		U[1][2] = U[2][0]*U[0][1] - U[0][0]*U[2][1]
		U[2][2] = U[0][0]*U[1][1] - U[1][0]*U[0][1]
	}
	if nok < 2 {
		return chk.Err("Svd: tensor is rank deficient (s = %v)", s)
	}
	return
}

// RightPolar computes the right polar decomposition F = R*S with R an
// orthonormal rotation and S symmetric positive definite
func RightPolar(R, S, F [][]float64) (err error) {
	U := Alloc()
	V := Alloc()
	σ := make([]float64, 3)
	err = Svd(U, σ, V, F)
	if err != nil {
		return
	}

	// R := U*tr(V)
	MulTr(R, U, V)

	// S := V*diag(σ)*tr(V)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			S[i][j] = σ[0]*V[i][0]*V[j][0] + σ[1]*V[i][1]*V[j][1] + σ[2]*V[i][2]*V[j][2]
		}
	}
	return
}
