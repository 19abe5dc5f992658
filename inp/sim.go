// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or YAML file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc   string `json:"desc" yaml:"desc"`     // description of simulation
	DirOut string `json:"dirout" yaml:"dirout"` // directory for output; e.g. /tmp/mpmsnow
	Debug  bool   `json:"debug" yaml:"debug"`   // activate invariant assertions
}

// GridData holds background grid data
type GridData struct {
	H        float64 `json:"h" yaml:"h"`               // cell size
	Nthreads int     `json:"nthreads" yaml:"nthreads"` // worker goroutines; 0 => number of CPUs
}

// MatData holds snow material data
type MatData struct {
	Model   string  `json:"model" yaml:"model"`     // constitutive model name; e.g. "snow"
	E       float64 `json:"E" yaml:"E"`             // Young's modulus
	Nu      float64 `json:"nu" yaml:"nu"`           // Poisson's ratio
	Hard    float64 `json:"hard" yaml:"hard"`       // hardening coefficient ξ
	ThC     float64 `json:"thc" yaml:"thc"`         // critical compression θc
	ThS     float64 `json:"ths" yaml:"ths"`         // critical stretch θs
	Plast   bool    `json:"plast" yaml:"plast"`     // plasticity enabled
	Density float64 `json:"density" yaml:"density"` // initial density
	NdegMax int     `json:"ndegmax" yaml:"ndegmax"` // degenerate steps before a particle dies
}

// SolverData holds data for the implicit velocity solver
type SolverData struct {
	Tol     float64 `json:"tol" yaml:"tol"`         // residual tolerance
	MaxIt   int     `json:"maxit" yaml:"maxit"`     // maximum number of iterations
	Verbose bool    `json:"verbose" yaml:"verbose"` // print residual per iteration
}

// PhysData holds ambient physical data
type PhysData struct {
	GravityY float64 `json:"gravity" yaml:"gravity"`   // gravity along y
	Friction float64 `json:"friction" yaml:"friction"` // Coulomb friction coefficient
}

// TimeControl holds data defining the simulation time stepping
type TimeControl struct {
	Dt float64 `json:"dt" yaml:"dt"` // time increment
	Tf float64 `json:"tf" yaml:"tf"` // final time
}

// Simulation holds all simulation data
type Simulation struct {
	Data   Data        `json:"data" yaml:"data"`
	Grid   GridData    `json:"grid" yaml:"grid"`
	Mat    MatData     `json:"mat" yaml:"mat"`
	Solver SolverData  `json:"solver" yaml:"solver"`
	Phys   PhysData    `json:"phys" yaml:"phys"`
	Time   TimeControl `json:"time" yaml:"time"`
}

// SetDefaults sets all tunables to their reference values
func (o *Simulation) SetDefaults() {
	o.Grid.H = 0.1
	o.Grid.Nthreads = 0
	o.Mat.Model = "snow"
	o.Mat.E = 1.4e5
	o.Mat.Nu = 0.2
	o.Mat.Hard = 10
	o.Mat.ThC = 2.5e-2
	o.Mat.ThS = 7.5e-3
	o.Mat.Plast = true
	o.Mat.Density = 400
	o.Mat.NdegMax = 5
	o.Solver.Tol = 1e-7
	o.Solver.MaxIt = 30
	o.Phys.GravityY = -9.8
	o.Phys.Friction = 0.5
	o.Time.Dt = 0.01
	o.Time.Tf = 1.0
}

// NewSimulation returns simulation data with default tunables
func NewSimulation() (o *Simulation) {
	o = new(Simulation)
	o.SetDefaults()
	return
}

// ReadSim reads simulation data from a .sim file (JSON) or a .yaml/.yml
// file, on top of the defaults
func ReadSim(fnamepath string) (o *Simulation, err error) {
	b, err := os.ReadFile(fnamepath)
	if err != nil {
		return nil, chk.Err("inp: cannot read simulation file %q:\n%v", fnamepath, err)
	}
	o = NewSimulation()
	switch filepath.Ext(fnamepath) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, o)
	default:
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("inp: cannot parse simulation file %q:\n%v", fnamepath, err)
	}
	if err = o.Check(); err != nil {
		return nil, err
	}
	return
}

// Check verifies the consistency of the input data
func (o *Simulation) Check() error {
	if o.Grid.H <= 0 {
		return chk.Err("inp: grid cell size must be positive: h = %g", o.Grid.H)
	}
	if o.Time.Dt <= 0 {
		return chk.Err("inp: time increment must be positive: dt = %g", o.Time.Dt)
	}
	if o.Mat.Density <= 0 {
		return chk.Err("inp: initial density must be positive: density = %g", o.Mat.Density)
	}
	if o.Solver.MaxIt < 1 {
		return chk.Err("inp: solver needs at least one iteration: maxit = %d", o.Solver.MaxIt)
	}
	return nil
}

// MatPrms assembles the parameter set handed to the constitutive model
func (o *Simulation) MatPrms() fun.Prms {
	plast := 0.0
	if o.Mat.Plast {
		plast = 1.0
	}
	return []*fun.Prm{
		&fun.Prm{N: "E", V: o.Mat.E},
		&fun.Prm{N: "nu", V: o.Mat.Nu},
		&fun.Prm{N: "hard", V: o.Mat.Hard},
		&fun.Prm{N: "thc", V: o.Mat.ThC},
		&fun.Prm{N: "ths", V: o.Mat.ThS},
		&fun.Prm{N: "plast", V: plast},
		&fun.Prm{N: "ndegmax", V: float64(o.Mat.NdegMax)},
	}
}
