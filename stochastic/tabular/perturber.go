// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

// Package tabular varies the parameter matrices of a model. Every cell is
// drawn from the distribution implied by its mean and standard deviation;
// a correlation policy decides which cells share a base draw.
package tabular

import (
	"math"

	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/0xsoniclabs/mcvary/stochastic/format"
	"github.com/0xsoniclabs/mcvary/stochastic/rng"
	"github.com/0xsoniclabs/mcvary/stochastic/statistics/distribution"
	"github.com/cockroachdb/errors"
)

// Options configures the variation of one parameter file.
type Options struct {
	Kind           distribution.Kind
	Policy         Policy
	BlocksPerGroup int // distinct base vectors of a block-correlated file
	RowsPerBlock   int // data rows per block, zero for the default
	Bounds         distribution.Bounds
	SumToOne       bool // rescale every varied row to sum up to one
}

// Perturber varies one pair of mean and deviation matrices.
type Perturber struct {
	stream *rng.Stream
	means  *Matrix
	sds    *Matrix
	opts   Options
	blocks [][]float64 // pre-drawn base vectors of a block-correlated file
}

// Result is the outcome of one variation.
type Result struct {
	matrix  *Matrix
	Rows    [][]float64 // varied values per row, nil for non-data rows
	Samples []float64   // varied values of all data rows in reading order
}

// NewPerturber checks the matrices and options and, for block correlation,
// draws the base vectors of all blocks of a group.
func NewPerturber(stream *rng.Stream, means, sds *Matrix, opts Options) (*Perturber, error) {
	if err := CheckShape(means, sds); err != nil {
		return nil, err
	}
	if opts.Policy.Correlated() && !opts.Kind.Correlatable() {
		return nil, stochastic.Configurationf("distribution %v cannot be %v-correlated", opts.Kind, opts.Policy)
	}
	if err := opts.Bounds.Check(); err != nil {
		return nil, errors.Mark(err, stochastic.ErrConfiguration)
	}
	if opts.RowsPerBlock == 0 {
		opts.RowsPerBlock = stochastic.DefaultRowsPerBlock
	}
	if opts.RowsPerBlock < 0 {
		return nil, stochastic.Configurationf("invalid rows per block %d", opts.RowsPerBlock)
	}
	p := &Perturber{stream: stream, means: means, sds: sds, opts: opts}
	if opts.Policy == BlockCorrelated {
		if opts.BlocksPerGroup < 1 {
			return nil, stochastic.Configurationf("invalid blocks per group %d", opts.BlocksPerGroup)
		}
		columns := means.Columns()
		p.blocks = make([][]float64, opts.BlocksPerGroup)
		for i := range p.blocks {
			p.blocks[i] = p.draw(columns)
		}
	}
	return p, nil
}

// draw takes n base values, uniform for kinds mapped through their quantile
// function and standard normal otherwise.
func (p *Perturber) draw(n int) []float64 {
	if p.opts.Kind.UsesQuantile() {
		return p.stream.UniformN(n)
	}
	return p.stream.StandardNormalN(n)
}

// BlockIndex returns the block of the n-th data row.
func (p *Perturber) BlockIndex(n int) int {
	return n / p.opts.RowsPerBlock
}

// Vary draws the varied matrix in one forward pass over the rows.
func (p *Perturber) Vary() (*Result, error) {
	res := &Result{
		matrix: p.means,
		Rows:   make([][]float64, len(p.means.Rows)),
	}
	n := 0
	for i, row := range p.means.Rows {
		if !row.Data {
			continue
		}
		values, err := p.varyRow(n, row.Values, p.sds.Rows[i].Values)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "line %d", i+1), stochastic.ErrLayout)
		}
		res.Rows[i] = values
		res.Samples = append(res.Samples, values...)
		n++
	}
	return res, nil
}

func (p *Perturber) varyRow(n int, means, sds []float64) ([]float64, error) {
	var (
		values = make([]float64, len(means))
		base   []float64
		err    error
	)
	switch p.opts.Policy {
	case RowCorrelated:
		shared := p.draw(1)[0]
		base = make([]float64, len(means))
		for j := range base {
			base[j] = shared
		}
	case BlockCorrelated:
		base = p.blocks[p.BlockIndex(n)%p.opts.BlocksPerGroup]
	}
	for j := range means {
		if base == nil {
			values[j], err = distribution.Sample(p.opts.Kind, p.stream, means[j], sds[j])
		} else {
			values[j], err = distribution.Transform(p.opts.Kind, base[j], means[j], sds[j])
		}
		if err != nil {
			return nil, err
		}
		values[j] = p.opts.Bounds.Clamp(values[j])
	}
	if p.opts.SumToOne {
		if err := normalize(values); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// normalize rescales values in place so that they sum up to one.
func normalize(values []float64) error {
	// Kahan's summation keeps the error of long rows of small values low.
	sum, c := 0.0, 0.0
	for _, v := range values {
		y := v - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return stochastic.Layoutf("cannot rescale row summing up to %v", sum)
	}
	for i := range values {
		values[i] /= sum
	}
	return nil
}

// Lines renders the varied matrix. Data rows are written with the given
// layout after their label; all other rows are kept as read.
func (r *Result) Lines(layout format.Line) []string {
	lines := make([]string, len(r.matrix.Rows))
	for i, row := range r.matrix.Rows {
		if !row.Data {
			lines[i] = row.Line
			continue
		}
		lines[i] = layout.Render(row.Label, r.Rows[i])
	}
	return lines
}
