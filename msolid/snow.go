// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"

	"github.com/nyue/mpmsnow/tsr"
)

// Snow implements the fixed-corotated elasto-plastic snow model of
// Stomakhin et al. (2013):
//  Ψ = μ‖F - R‖² + λ/2 (J - 1)²
//  P = dΨ/dF = 2μ(F - R) + λ(J - 1) J F^-T
// with singular values of the elastic deformation gradient clamped to
// [1-θc, 1+θs] and Lamé parameters hardened by exp(ξ(1 - det F^P))
type Snow struct {

	// parameters
	E       float64 // Young's modulus
	ν       float64 // Poisson's ratio
	ξ       float64 // hardening coefficient
	θc      float64 // critical compression
	θs      float64 // critical stretch
	Plast   bool    // plasticity enabled
	NdegMax int     // consecutive degenerate steps before a particle is marked dead

	// derived
	μ0 float64 // initial Lamé μ
	λ0 float64 // initial Lamé λ
}

// add model to factory
func init() {
	allocators["snow"] = func() Model { return new(Snow) }
}

// Init initialises model
func (o *Snow) Init(prms fun.Prms) (err error) {

	// defaults
	o.E = 1.4e5
	o.ν = 0.2
	o.ξ = 10.0
	o.θc = 2.5e-2
	o.θs = 7.5e-3
	o.Plast = true
	o.NdegMax = 5

	// parameters
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
		case "nu":
			o.ν = p.V
		case "hard":
			o.ξ = p.V
		case "thc":
			o.θc = p.V
		case "ths":
			o.θs = p.V
		case "plast":
			o.Plast = p.V > 0
		case "ndegmax":
			o.NdegMax = int(p.V)
		case "rho":
		default:
			return chk.Err("snow: parameter named %q is incorrect", p.N)
		}
	}

	// derived
	o.μ0, o.λ0 = CalcLames(o.E, o.ν)
	return
}

// GetPrms gets (an example) of parameters
func (o Snow) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "E", V: 1.4e5},
		&fun.Prm{N: "nu", V: 0.2},
		&fun.Prm{N: "hard", V: 10},
		&fun.Prm{N: "thc", V: 2.5e-2},
		&fun.Prm{N: "ths", V: 7.5e-3},
		&fun.Prm{N: "plast", V: 1},
	}
}

// InitParticles sets the deformation state of all particles to the
// undeformed configuration
func (o *Snow) InitParticles(d *ParticleData) {
	for p := 0; p < d.Np; p++ {
		tsr.Ident(d.F[p])
		tsr.Ident(d.Fp[p])
		tsr.Ident(d.R[p])
		tsr.Ident(d.S[p])
		tsr.Ident(d.FinvTr[p])
		d.J[p] = 1
		d.Mu[p] = o.μ0
		d.Lam[p] = o.λ0
		d.Dead[p] = false
		d.Ndeg[p] = 0
	}
}

// EnergyDensity returns Ψ at particle p
func (o *Snow) EnergyDensity(d *ParticleData, p int) float64 {
	F, R := d.F[p], d.R[p]
	frob := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dev := F[i][j] - R[i][j]
			frob += dev * dev
		}
	}
	Jm1 := d.J[p] - 1.0
	return d.Mu[p]*frob + 0.5*d.Lam[p]*Jm1*Jm1
}

// DPsiDF computes the stress proxy P = dΨ/dF at particle p
func (o *Snow) DPsiDF(res [][]float64, d *ParticleData, p int) {
	F, R, Fit := d.F[p], d.R[p], d.FinvTr[p]
	μ, λ, J := d.Mu[p], d.Lam[p], d.J[p]
	coef := λ * (J - 1.0) * J
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			res[i][j] = 2.0*μ*(F[i][j]-R[i][j]) + coef*Fit[i][j]
		}
	}
}

// DPsiDFDifferential computes the change in dΨ/dF at particle p caused by a
// small change dF of the deformation gradient
func (o *Snow) DPsiDFDifferential(res, dF [][]float64, d *ParticleData, p int) {
	Fit := d.FinvTr[p]
	μ, λ, J := d.Mu[p], d.Lam[p], d.J[p]

	// dJ = J * (F^-T : dF)
	dJ := J * tsr.Dot(Fit, dF)

	// d(F^-T) = -F^-T * tr(dF) * F^-T
	tmp := tsr.Alloc()
	dFit := tsr.Alloc()
	tsr.MulTr(tmp, Fit, dF)
	tsr.Mul(dFit, tmp, Fit)
	tsr.Scale(dFit, -1, dFit)

	// dR from the rotation differential
	dR := tsr.Alloc()
	o.rdifferential(dR, dF, d.R[p], d.S[p])

	// res = 2μ(dF - dR) + λ[ dJ·J·F^-T + (J-1)(dJ·F^-T + J·dF^-T) ]
	a := λ * dJ * J
	b := λ * (J - 1.0)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			res[i][j] = 2.0*μ*(dF[i][j]-dR[i][j]) + a*Fit[i][j] + b*(dJ*Fit[i][j]+J*dFit[i][j])
		}
	}
}

// rdifferential computes the differential dR of the rotation factor for a
// given differential dF, by solving the 3x3 system G w = m built from the
// symmetric factor S, where tr(R)*dR = skew(w) and
// m = offdiag(tr(R)*dF - tr(dF)*R). Nearly singular G (repeated singular
// values collapsing the system) is regularised by a small diagonal shift
func (o *Snow) rdifferential(dR, dF, R, S [][]float64) {

	// m = tr(R)*dF - tr(dF)*R
	m1 := tsr.Alloc()
	m2 := tsr.Alloc()
	tsr.TrMul(m1, R, dF)
	tsr.TrMul(m2, dF, R)
	rhs := []float64{
		m1[0][1] - m2[0][1],
		m1[0][2] - m2[0][2],
		m1[1][2] - m2[1][2],
	}

	// G from S
	G := tsr.Alloc()
	G[0][0] = S[0][0] + S[1][1]
	G[1][1] = S[0][0] + S[2][2]
	G[2][2] = S[1][1] + S[2][2]
	G[0][1], G[1][0] = S[1][2], S[1][2]
	G[0][2], G[2][0] = -S[0][2], -S[0][2]
	G[1][2], G[2][1] = S[0][1], S[0][1]

	// solve G w = rhs, regularising if necessary
	Gi := tsr.Alloc()
	_, err := tsr.Inv(Gi, G)
	if err != nil {
		ε := 1e-9 * (1.0 + math.Abs(tsr.Tr(S)))
		for i := 0; i < 3; i++ {
			G[i][i] += ε
		}
		_, err = tsr.Inv(Gi, G)
		if err != nil {
			// rotation differential is undefined; zero contribution
			tsr.Scale(dR, 0, dR)
			return
		}
	}
	w := make([]float64, 3)
	la.MatVecMul(w, 1, Gi, rhs)

	// dR = R * skew(w)
	W := tsr.Alloc()
	Skew(W, w)
	tsr.Mul(dR, R, W)
}

// UpdateDeformation updates the deformation gradients of particles
// lo <= p < hi from the velocity gradients gathered in d.GradV: trial
// update, plastic yield by singular value clamping, hardening, and refresh
// of the cached polar factors, inverse transpose and determinant.
// Degenerate particles are skipped for this step and marked dead after
// NdegMax consecutive failures
func (o *Snow) UpdateDeformation(d *ParticleData, Δt float64, lo, hi int) (ndeg int) {

	// scratch (worker-local)
	A := tsr.Alloc()
	Ftr := tsr.Alloc()
	Fe := tsr.Alloc()
	Rn := tsr.Alloc()
	Sn := tsr.Alloc()
	U := tsr.Alloc()
	V := tsr.Alloc()
	Q := tsr.Alloc()
	Fi := tsr.Alloc()
	σ := make([]float64, 3)
	σc := make([]float64, 3)

	for p := lo; p < hi; p++ {
		if d.Dead[p] {
			continue
		}

		// trial elastic deformation gradient: Ftr = (I + Δt ∇v) F
		dv := d.GradV[p]
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				A[i][j] = Δt * dv[i][j]
			}
			A[i][i] += 1.0
		}
		tsr.Mul(Ftr, A, d.F[p])

		if !tsr.IsFinite(Ftr) || tsr.Det(Ftr) <= 0 {
			ndeg += o.degenerate(d, p)
			continue
		}

		if o.Plast {

			// plastic yield: clamp singular values
			err := tsr.Svd(U, σ, V, Ftr)
			if err != nil {
				ndeg += o.degenerate(d, p)
				continue
			}
			for k := 0; k < 3; k++ {
				σc[k] = σ[k]
				if σc[k] < 1.0-o.θc {
					σc[k] = 1.0 - o.θc
				}
				if σc[k] > 1.0+o.θs {
					σc[k] = 1.0 + o.θs
				}
			}

			// elastic part: Fe = U diag(σc) tr(V)
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					A[i][j] = U[i][j] * σc[j]
				}
			}
			tsr.MulTr(Fe, A, V)

			// polar factors from the clamped SVD:
			// R = U tr(V), S = V diag(σc) tr(V)
			tsr.MulTr(Rn, U, V)
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					Sn[i][j] = σc[0]*V[i][0]*V[j][0] +
						σc[1]*V[i][1]*V[j][1] +
						σc[2]*V[i][2]*V[j][2]
				}
			}

		} else {

			tsr.Assign(Fe, Ftr)
			err := tsr.RightPolar(Rn, Sn, Fe)
			if err != nil {
				ndeg += o.degenerate(d, p)
				continue
			}
		}

		// cached inverse transpose and determinant
		det, err := tsr.Inv(Fi, Fe)
		if err != nil {
			ndeg += o.degenerate(d, p)
			continue
		}

		// commit
		tsr.Assign(d.F[p], Fe)
		tsr.Assign(d.R[p], Rn)
		tsr.Assign(d.S[p], Sn)
		tsr.Transp(d.FinvTr[p], Fi)
		d.J[p] = det
		if o.Plast {

			// plastic flow preserving Ftr = F^E F^P:
			// Fp <- V diag(σ/σc) tr(V) Fp
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					Q[i][j] = (σ[0]/σc[0])*V[i][0]*V[j][0] +
						(σ[1]/σc[1])*V[i][1]*V[j][1] +
						(σ[2]/σc[2])*V[i][2]*V[j][2]
				}
			}
			tsr.Mul(A, Q, d.Fp[p])
			tsr.Assign(d.Fp[p], A)

			// hardening
			hf := math.Exp(o.ξ * (1.0 - tsr.Det(d.Fp[p])))
			d.Mu[p] = o.μ0 * hf
			d.Lam[p] = o.λ0 * hf
		}
		d.Ndeg[p] = 0
	}
	return
}

// degenerate registers a degenerate update at particle p and reports 1
func (o *Snow) degenerate(d *ParticleData, p int) int {
	d.Ndeg[p]++
	if d.Ndeg[p] >= o.NdegMax {
		d.Dead[p] = true
	}
	return 1
}
