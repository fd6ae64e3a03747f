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
	"strings"
	"testing"

	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix_IsDataRow(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"1  0.5 0.25", true},
		{"   12 3.0", true},
		{"0.25 0.75", true},
		{"age 1 2", false},
		{"", false},
		{"     ", false},
		{"-1 2 3", false},
		{"# 1 2", false},
		{".5 1", false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, IsDataRow(test.line), "line %q", test.line)
	}
}

func TestMatrix_ParseWithLabel(t *testing.T) {
	lines := []string{
		"header line",
		"1   0.10  0.20  0.30",
		"",
		"2   1e-3  4  5.5",
	}
	m, err := ParseMatrix(lines, true)
	require.NoError(t, err)
	require.Len(t, m.Rows, 4)

	assert.False(t, m.Rows[0].Data)
	assert.Equal(t, "header line", m.Rows[0].Line)
	assert.True(t, m.Rows[1].Data)
	assert.Equal(t, "1", m.Rows[1].Label)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, m.Rows[1].Values)
	assert.False(t, m.Rows[2].Data)
	assert.Equal(t, []float64{0.001, 4, 5.5}, m.Rows[3].Values)

	assert.Equal(t, 2, m.DataRows())
	assert.Equal(t, 3, m.Columns())
}

func TestMatrix_ParseWithoutLabel(t *testing.T) {
	m, err := ParseMatrix([]string{"1 2 3"}, false)
	require.NoError(t, err)
	assert.Equal(t, "", m.Rows[0].Label)
	assert.Equal(t, []float64{1, 2, 3}, m.Rows[0].Values)
}

func TestMatrix_ParseRejectsMalformedNumbers(t *testing.T) {
	_, err := ParseMatrix([]string{"text", "1 0.5 abc"}, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, stochastic.ErrLayout))
	assert.Contains(t, err.Error(), "line 2")
}

func TestMatrix_ReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("a\r\nb\n\nc\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "", "c"}, lines)

	m, err := ReadMatrix(strings.NewReader("x\n1 2\n"), true)
	require.NoError(t, err)
	assert.Equal(t, 1, m.DataRows())
}

func TestMatrix_CheckShape(t *testing.T) {
	parse := func(lines ...string) *Matrix {
		m, err := ParseMatrix(lines, true)
		require.NoError(t, err)
		return m
	}
	means := parse("h", "1 1 2", "2 3 4")
	tests := []struct {
		name string
		sds  *Matrix
		ok   bool
	}{
		{"same shape", parse("other header", "1 0.1 0.2", "2 0.3 0.4"), true},
		{"fewer lines", parse("h", "1 0.1 0.2"), false},
		{"data row moved", parse("1 0.1 0.2", "h", "2 0.3 0.4"), false},
		{"fewer columns", parse("h", "1 0.1", "2 0.3 0.4"), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := CheckShape(means, test.sds)
			if test.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, stochastic.ErrLayout), "got %v", err)
		})
	}
}
