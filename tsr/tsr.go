// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tsr implements operations on the full (non-symmetric) 3x3 tensors
// of large deformation mechanics; e.g. deformation gradients
package tsr

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// constants
const MINDET = 1.0e-14 // minimum determinant allowed for tensor inversion

// Alloc allocates a new 3x3 tensor
func Alloc() [][]float64 {
	return la.MatAlloc(3, 3)
}

// Ident sets A := I
func Ident(A [][]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			A[i][j] = 0
		}
		A[i][i] = 1
	}
}

// Assign copies tensors: A := B
func Assign(A, B [][]float64) {
	la.MatCopy(A, 1, B)
}

// Add computes: A := α*B + β*C
func Add(A [][]float64, α float64, B [][]float64, β float64, C [][]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			A[i][j] = α*B[i][j] + β*C[i][j]
		}
	}
}

// Scale computes: A := α*B
func Scale(A [][]float64, α float64, B [][]float64) {
	la.MatCopy(A, α, B)
}

// Mul computes the product C := A*B. C must not alias A or B
func Mul(C, A, B [][]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			C[i][j] = A[i][0]*B[0][j] + A[i][1]*B[1][j] + A[i][2]*B[2][j]
		}
	}
}

// MulTr computes C := A*tr(B). C must not alias A or B
func MulTr(C, A, B [][]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			C[i][j] = A[i][0]*B[j][0] + A[i][1]*B[j][1] + A[i][2]*B[j][2]
		}
	}
}

// TrMul computes C := tr(A)*B. C must not alias A or B
func TrMul(C, A, B [][]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			C[i][j] = A[0][i]*B[0][j] + A[1][i]*B[1][j] + A[2][i]*B[2][j]
		}
	}
}

// Transp computes A := tr(B). A must not alias B
func Transp(A, B [][]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			A[i][j] = B[j][i]
		}
	}
}

// Dot computes the double dot product A:B = Σ A[i][j]*B[i][j]
func Dot(A, B [][]float64) (res float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			res += A[i][j] * B[i][j]
		}
	}
	return
}

// Tr returns the trace of A
func Tr(A [][]float64) float64 {
	return A[0][0] + A[1][1] + A[2][2]
}

// Det returns the determinant of A
func Det(A [][]float64) float64 {
	return A[0][0]*(A[1][1]*A[2][2]-A[1][2]*A[2][1]) -
		A[0][1]*(A[1][0]*A[2][2]-A[1][2]*A[2][0]) +
		A[0][2]*(A[1][0]*A[2][1]-A[1][1]*A[2][0])
}

// Inv computes Ai := inverse(A) and returns the determinant of A
func Inv(Ai, A [][]float64) (det float64, err error) {
	return la.MatInv(Ai, A, MINDET)
}

// IsFinite tells whether all components of A are finite
func IsFinite(A [][]float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(A[i][j]) || math.IsInf(A[i][j], 0) {
				return false
			}
		}
	}
	return true
}
