// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. defaults")

	sim := NewSimulation()
	chk.Scalar(tst, "h", 1e-15, sim.Grid.H, 0.1)
	chk.Scalar(tst, "dt", 1e-15, sim.Time.Dt, 0.01)
	chk.Scalar(tst, "density", 1e-15, sim.Mat.Density, 400)
	chk.Scalar(tst, "gravity", 1e-15, sim.Phys.GravityY, -9.8)
	chk.Scalar(tst, "friction", 1e-15, sim.Phys.Friction, 0.5)
	chk.Scalar(tst, "thc", 1e-15, sim.Mat.ThC, 2.5e-2)
	chk.Scalar(tst, "ths", 1e-15, sim.Mat.ThS, 7.5e-3)
	chk.Scalar(tst, "hard", 1e-15, sim.Mat.Hard, 10)
	chk.Scalar(tst, "E", 1e-15, sim.Mat.E, 1.4e5)
	chk.Scalar(tst, "nu", 1e-15, sim.Mat.Nu, 0.2)
	chk.Scalar(tst, "tol", 1e-22, sim.Solver.Tol, 1e-7)
	chk.IntAssert(sim.Solver.MaxIt, 30)
	if !sim.Mat.Plast {
		tst.Errorf("plasticity must be enabled by default")
		return
	}
	if err := sim.Check(); err != nil {
		tst.Errorf("default simulation must be consistent:\n%v", err)
	}
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. reading .sim (JSON) and .yaml files")

	for _, fname := range []string{"data/block.sim", "data/block.yaml"} {
		sim, err := ReadSim(fname)
		if err != nil {
			tst.Errorf("ReadSim(%q) failed:\n%v", fname, err)
			return
		}
		io.Pf("%s: %+v\n", fname, sim.Data)
		chk.StrAssert(sim.Data.Desc, "snow block drop")
		chk.Scalar(tst, "h", 1e-15, sim.Grid.H, 0.05)
		chk.IntAssert(sim.Grid.Nthreads, 4)
		chk.Scalar(tst, "dt", 1e-15, sim.Time.Dt, 0.005)
		chk.Scalar(tst, "tf", 1e-15, sim.Time.Tf, 2.0)
		chk.StrAssert(sim.Mat.Model, "snow")
	}

	// missing file
	if _, err := ReadSim("data/__noexist__.sim"); err == nil {
		tst.Errorf("ReadSim must fail on a missing file")
		return
	}
}

func Test_sim03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim03. consistency checks and material parameters")

	sim := NewSimulation()
	sim.Grid.H = 0
	if err := sim.Check(); err == nil {
		tst.Errorf("Check must reject h = 0")
		return
	}

	sim.SetDefaults()
	prms := sim.MatPrms()
	found := make(map[string]float64)
	for _, p := range prms {
		found[p.N] = p.V
	}
	chk.Scalar(tst, "E", 1e-15, found["E"], 1.4e5)
	chk.Scalar(tst, "plast", 1e-15, found["plast"], 1)
	chk.Scalar(tst, "ndegmax", 1e-15, found["ndegmax"], 5)
}
