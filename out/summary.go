// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the per-step summary of a simulation and its
// export to CSV
package out

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/gocarina/gocsv"
)

// StepStats holds the observable outcome of one simulation step
type StepStats struct {
	Step     int     `csv:"step"`     // step index
	Time     float64 `csv:"time"`     // simulation time after the step
	Mass     float64 `csv:"mass"`     // total particle mass
	Ekin     float64 `csv:"ekin"`     // kinetic energy of the particles
	Eelast   float64 `csv:"eelast"`   // elastic energy stored in the particles
	SolNit   int     `csv:"solnit"`   // solver iterations
	SolResid float64 `csv:"solresid"` // final solver residual
	Ndeg     int     `csv:"ndeg"`     // particles skipped as degenerate
}

// Summary collects step statistics over a simulation
type Summary struct {
	Stats []StepStats
}

// Add appends the statistics of one step
func (o *Summary) Add(s StepStats) {
	o.Stats = append(o.Stats, s)
}

// Last returns the statistics of the most recent step
func (o *Summary) Last() StepStats {
	if len(o.Stats) == 0 {
		return StepStats{}
	}
	return o.Stats[len(o.Stats)-1]
}

// SaveCSV writes all collected statistics to a CSV file
func (o *Summary) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return chk.Err("out: cannot create summary file %q:\n%v", path, err)
	}
	defer f.Close()
	if err := gocsv.Marshal(o.Stats, f); err != nil {
		return chk.Err("out: cannot write summary file %q:\n%v", path, err)
	}
	return nil
}

// ReadCSV reads statistics back from a CSV file
func ReadCSV(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("out: cannot open summary file %q:\n%v", path, err)
	}
	defer f.Close()
	o := new(Summary)
	if err := gocsv.Unmarshal(f, &o.Stats); err != nil {
		return nil, chk.Err("out: cannot parse summary file %q:\n%v", path, err)
	}
	return o, nil
}
