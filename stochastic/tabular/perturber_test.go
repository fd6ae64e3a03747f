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

package tabular

import (
	"fmt"
	"math"
	"testing"

	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/0xsoniclabs/mcvary/stochastic/format"
	"github.com/0xsoniclabs/mcvary/stochastic/rng"
	"github.com/0xsoniclabs/mcvary/stochastic/statistics/distribution"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// matrices builds a labelled mean and deviation matrix of rows x cols data
// rows preceded by a header line.
func matrices(t *testing.T, rows, cols int, mean, sd func(r, c int) float64) (*Matrix, *Matrix) {
	t.Helper()
	build := func(f func(r, c int) float64) *Matrix {
		lines := []string{"  header"}
		for r := range rows {
			line := fmt.Sprintf("%d", r+1)
			for c := range cols {
				line += fmt.Sprintf(" %v", f(r, c))
			}
			lines = append(lines, line)
		}
		m, err := ParseMatrix(lines, true)
		require.NoError(t, err)
		return m
	}
	return build(mean), build(sd)
}

func vary(t *testing.T, seed uint64, means, sds *Matrix, opts Options) *Result {
	t.Helper()
	p, err := NewPerturber(rng.New(seed, 0), means, sds, opts)
	require.NoError(t, err)
	res, err := p.Vary()
	require.NoError(t, err)
	return res
}

// quantiles maps every varied value back to its quantile under its own
// distribution.
func quantiles(t *testing.T, kind distribution.Kind, res *Result, means, sds *Matrix) [][]float64 {
	t.Helper()
	var qs [][]float64
	for i, row := range means.Rows {
		if !row.Data {
			continue
		}
		q := make([]float64, len(row.Values))
		for j := range q {
			var err error
			q[j], err = distribution.CDF(kind, res.Rows[i][j], row.Values[j], sds.Rows[i].Values[j])
			require.NoError(t, err)
		}
		qs = append(qs, q)
	}
	return qs
}

// TestPerturber_ScenarioA checks a single independent normal cell against the
// first standard normal draw of the stream.
func TestPerturber_ScenarioA(t *testing.T) {
	means, sds := matrices(t, 1, 1, func(int, int) float64 { return 10 }, func(int, int) float64 { return 2 })
	res := vary(t, 99, means, sds, Options{Kind: distribution.Normal, Bounds: distribution.Unbounded()})
	z := rng.New(99, 0).StandardNormal()
	assert.Equal(t, 10+2*z, res.Rows[1][0])
	assert.Equal(t, []float64{10 + 2*z}, res.Samples)
}

// TestPerturber_ScenarioD checks that with two blocks per group of six rows,
// rows 0-5 share one base vector, rows 6-11 a second, and rows 12-17 the
// first again.
func TestPerturber_ScenarioD(t *testing.T) {
	mean := func(r, c int) float64 { return float64(10*r + c) }
	sd := func(r, c int) float64 { return 0.5 + float64(r+c)/10 }
	means, sds := matrices(t, 24, 3, mean, sd)
	opts := Options{Kind: distribution.Normal, Policy: BlockCorrelated, BlocksPerGroup: 2, RowsPerBlock: 6, Bounds: distribution.Unbounded()}
	res := vary(t, 5, means, sds, opts)

	base := make([][]float64, 0, 24)
	for i, row := range means.Rows {
		if !row.Data {
			continue
		}
		z := make([]float64, 3)
		for j := range z {
			z[j] = (res.Rows[i][j] - row.Values[j]) / sds.Rows[i].Values[j]
		}
		base = append(base, z)
	}
	for n := range 24 {
		first := (n / 6 % 2) * 6
		for j := range 3 {
			assert.InDelta(t, base[first][j], base[n][j], 1e-9, "row %d column %d", n, j)
		}
	}
	assert.NotEqual(t, base[0][0], base[6][0])

	// the base vectors are drawn at construction in group order
	s := rng.New(5, 0)
	want := [][]float64{s.StandardNormalN(3), s.StandardNormalN(3)}
	for j := range 3 {
		assert.InDelta(t, want[0][j], base[0][j], 1e-9)
		assert.InDelta(t, want[1][j], base[6][j], 1e-9)
	}
}

func TestPerturber_RowCorrelationSharesQuantile(t *testing.T) {
	for _, kind := range []distribution.Kind{distribution.Normal, distribution.LogNormal, distribution.Beta} {
		t.Run(kind.String(), func(t *testing.T) {
			mean := func(r, c int) float64 { return 0.2 + 0.1*float64(c) + 0.01*float64(r) }
			sd := func(r, c int) float64 { return 0.02 + 0.01*float64(c) }
			means, sds := matrices(t, 10, 4, mean, sd)
			res := vary(t, 3, means, sds, Options{Kind: kind, Policy: RowCorrelated, Bounds: distribution.Unbounded()})
			qs := quantiles(t, kind, res, means, sds)
			for r, q := range qs {
				for j := range q {
					assert.InDelta(t, q[0], q[j], 1e-6, "row %d column %d", r, j)
				}
			}
			assert.NotEqual(t, qs[0][0], qs[1][0])
		})
	}
}

func TestPerturber_BlockCorrelationSharesQuantile(t *testing.T) {
	for _, kind := range []distribution.Kind{distribution.LogNormal, distribution.Beta} {
		t.Run(kind.String(), func(t *testing.T) {
			mean := func(r, c int) float64 { return 0.3 + 0.05*float64(r%3) }
			sd := func(r, c int) float64 { return 0.05 + 0.01*float64(c) }
			means, sds := matrices(t, 12, 2, mean, sd)
			opts := Options{Kind: kind, Policy: BlockCorrelated, BlocksPerGroup: 2, RowsPerBlock: 3, Bounds: distribution.Unbounded()}
			res := vary(t, 11, means, sds, opts)
			qs := quantiles(t, kind, res, means, sds)
			for n := range qs {
				for j := range qs[n] {
					assert.InDelta(t, qs[n/3%2*3][j], qs[n][j], 1e-6, "row %d column %d", n, j)
				}
			}
			assert.NotEqual(t, qs[0][0], qs[3][0])
		})
	}
}

func TestPerturber_Degenerate(t *testing.T) {
	for _, policy := range []Policy{Independent, RowCorrelated, BlockCorrelated} {
		for _, kind := range []distribution.Kind{distribution.Normal, distribution.LogNormal, distribution.Beta} {
			t.Run(fmt.Sprintf("%v/%v", policy, kind), func(t *testing.T) {
				means, sds := matrices(t, 7, 3, func(r, c int) float64 { return 0.1 * float64(r+c+1) / 3 }, func(r, c int) float64 {
					return -float64(c % 2)
				})
				opts := Options{Kind: kind, Policy: policy, BlocksPerGroup: 2, Bounds: distribution.Unbounded()}
				res := vary(t, 2, means, sds, opts)
				for i, row := range means.Rows {
					for j, m := range row.Values {
						assert.Equal(t, m, res.Rows[i][j])
					}
				}
			})
		}
	}
}

func TestPerturber_Bounds(t *testing.T) {
	means, sds := matrices(t, 20, 5, func(int, int) float64 { return 1 }, func(int, int) float64 { return 3 })
	bounds := distribution.Bounds{Lower: 0, Upper: 2}
	for _, policy := range []Policy{Independent, RowCorrelated, BlockCorrelated} {
		res := vary(t, 4, means, sds, Options{Kind: distribution.Normal, Policy: policy, BlocksPerGroup: 2, Bounds: bounds})
		for _, v := range res.Samples {
			assert.True(t, v >= 0 && v <= 2, "%v: sample %v out of bounds", policy, v)
		}
	}
}

func TestPerturber_SumToOne(t *testing.T) {
	means, sds := matrices(t, 8, 6, func(r, c int) float64 { return 0.1 + 0.05*float64(c) }, func(int, int) float64 { return 0.02 })
	opts := Options{Kind: distribution.Beta, SumToOne: true, Bounds: distribution.Unbounded()}
	res := vary(t, 6, means, sds, opts)
	for _, values := range res.Rows {
		if values == nil {
			continue
		}
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-12)
	}
}

func TestPerturber_SumToOneOfZeroRowFails(t *testing.T) {
	means, sds := matrices(t, 1, 3, func(int, int) float64 { return 0 }, func(int, int) float64 { return 0 })
	p, err := NewPerturber(rng.New(1, 1), means, sds, Options{SumToOne: true, Bounds: distribution.Unbounded()})
	require.NoError(t, err)
	_, err = p.Vary()
	assert.True(t, errors.Is(err, stochastic.ErrLayout), "got %v", err)
}

func TestPerturber_Reproducible(t *testing.T) {
	means, sds := matrices(t, 13, 4, func(r, c int) float64 { return float64(r + c) }, func(int, int) float64 { return 0.5 })
	layout := format.Line{LeadingSpaces: 2, MidSpaces: 2, Number: format.MustParseNumber("10.5f")}
	for _, policy := range []Policy{Independent, RowCorrelated, BlockCorrelated} {
		opts := Options{Kind: distribution.Normal, Policy: policy, BlocksPerGroup: 2, Bounds: distribution.Unbounded()}
		a := vary(t, 21, means, sds, opts).Lines(layout)
		b := vary(t, 21, means, sds, opts).Lines(layout)
		assert.Equal(t, a, b)

		p, err := NewPerturber(rng.New(21, 1), means, sds, opts)
		require.NoError(t, err)
		res, err := p.Vary()
		require.NoError(t, err)
		assert.NotEqual(t, a, res.Lines(layout))
	}
}

func TestPerturber_Lines(t *testing.T) {
	means, err := ParseMatrix([]string{"# ages", "1 0.5 0.25", "", "2 1 2"}, true)
	require.NoError(t, err)
	sds, err := ParseMatrix([]string{"# ages", "1 0 0", "", "2 0 0"}, true)
	require.NoError(t, err)
	layout := format.Line{LeadingSpaces: 1, MidSpaces: 2, Number: format.MustParseNumber("6.3f")}
	res := vary(t, 1, means, sds, Options{Bounds: distribution.Unbounded()})
	assert.Equal(t, []string{
		"# ages",
		" 1  0.500   0.250 ",
		"",
		" 2  1.000   2.000 ",
	}, res.Lines(layout))
	assert.Equal(t, []float64{0.5, 0.25, 1, 2}, res.Samples)
}

func TestPerturber_InvalidOptions(t *testing.T) {
	means, sds := matrices(t, 2, 2, func(int, int) float64 { return 1 }, func(int, int) float64 { return 0.1 })
	tests := []struct {
		name string
		opts Options
	}{
		{"gamma by row", Options{Kind: distribution.Gamma, Policy: RowCorrelated, Bounds: distribution.Unbounded()}},
		{"gamma by block", Options{Kind: distribution.Gamma, Policy: BlockCorrelated, BlocksPerGroup: 2, Bounds: distribution.Unbounded()}},
		{"no blocks per group", Options{Policy: BlockCorrelated, Bounds: distribution.Unbounded()}},
		{"negative rows per block", Options{Policy: BlockCorrelated, BlocksPerGroup: 1, RowsPerBlock: -1, Bounds: distribution.Unbounded()}},
		{"empty bounds", Options{Bounds: distribution.Bounds{Lower: 1, Upper: 0}}},
		{"nan bound", Options{Bounds: distribution.Bounds{Lower: math.NaN(), Upper: 0}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewPerturber(rng.New(1, 1), means, sds, test.opts)
			assert.True(t, errors.Is(err, stochastic.ErrConfiguration), "got %v", err)
		})
	}
}

func TestPerturber_GammaIndependent(t *testing.T) {
	means, sds := matrices(t, 50, 4, func(int, int) float64 { return 2 }, func(int, int) float64 { return 3 })
	res := vary(t, 8, means, sds, Options{Kind: distribution.Gamma, Bounds: distribution.Unbounded()})
	for _, v := range res.Samples {
		assert.True(t, v > 0)
	}
}

func TestPerturber_BlockIndex(t *testing.T) {
	means, sds := matrices(t, 1, 1, func(int, int) float64 { return 1 }, func(int, int) float64 { return 1 })
	p, err := NewPerturber(rng.New(1, 1), means, sds, Options{Policy: BlockCorrelated, BlocksPerGroup: 2, Bounds: distribution.Unbounded()})
	require.NoError(t, err)
	assert.Equal(t, 0, p.BlockIndex(5))
	assert.Equal(t, 1, p.BlockIndex(6))
	assert.Equal(t, 3, p.BlockIndex(23))
}
