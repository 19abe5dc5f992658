// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model defines the capability set of constitutive models driving the
// material point method: initialisation, deformation update with yield,
// energy density, stress, and the stress differential used to assemble
// the implicit operator
type Model interface {

	// Init initialises the model with parameters
	Init(prms fun.Prms) error

	// GetPrms gets (an example) of parameters
	GetPrms() fun.Prms

	// InitParticles initialises the deformation state of all particles
	InitParticles(d *ParticleData)

	// UpdateDeformation updates the deformation gradients of particles
	// lo <= p < hi from the velocity gradients in d.GradV, applying
	// plastic yield and hardening. It returns the number of particles
	// whose update was skipped due to numeric degeneracy
	UpdateDeformation(d *ParticleData, Δt float64, lo, hi int) (ndeg int)

	// EnergyDensity returns Ψ at particle p
	EnergyDensity(d *ParticleData, p int) float64

	// DPsiDF computes the stress proxy P = dΨ/dF at particle p
	DPsiDF(res [][]float64, d *ParticleData, p int)

	// DPsiDFDifferential computes the change in dΨ/dF at particle p for a
	// small change dF of the deformation gradient
	DPsiDFDifferential(res, dF [][]float64, d *ParticleData, p int)
}

// allocators holds all available models
var allocators = make(map[string]func() Model)

// New returns a new model of the given name
func New(name string) (Model, error) {
	if alloc, ok := allocators[name]; ok {
		return alloc(), nil
	}
	return nil, chk.Err("msolid: cannot find model named %q", name)
}
