// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryRoundTrip(t *testing.T) {
	sum := new(Summary)
	sum.Add(StepStats{Step: 1, Time: 0.01, Mass: 3.2, Ekin: 0.5, Eelast: 0.01, SolNit: 7, SolResid: 1e-8})
	sum.Add(StepStats{Step: 2, Time: 0.02, Mass: 3.2, Ekin: 0.4, Eelast: 0.02, SolNit: 5, SolResid: 2e-8, Ndeg: 1})

	path := filepath.Join(t.TempDir(), "summary.csv")
	require.NoError(t, sum.SaveCSV(path))

	back, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, back.Stats, 2)
	assert.Equal(t, sum.Stats[0], back.Stats[0])
	assert.Equal(t, sum.Stats[1], back.Stats[1])
	assert.Equal(t, 2, back.Last().Step)
}

func TestSummaryEmpty(t *testing.T) {
	sum := new(Summary)
	assert.Equal(t, StepStats{}, sum.Last())
}
