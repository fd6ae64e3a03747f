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

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_ParseNumber(t *testing.T) {
	tests := []struct {
		spec string
		want Number
	}{
		{"8.4f", Number{Width: 8, Precision: 4, Verb: 'f'}},
		{"<12.6e", Number{Width: 12, Precision: 6, Verb: 'e'}},
		{".5g", Number{Precision: 5, Verb: 'g'}},
		{"%-10.3f", Number{Width: 10, Precision: 3, Verb: 'f'}},
		{"9", Number{Width: 9, Precision: -1, Verb: 'g'}},
		{" 7.2F ", Number{Width: 7, Precision: 2, Verb: 'F'}},
	}
	for _, test := range tests {
		got, err := ParseNumber(test.spec)
		require.NoError(t, err, test.spec)
		assert.Equal(t, test.want, got, test.spec)
	}

	for _, spec := range []string{"abc", "8.4d", "%s", "8..4f"} {
		_, err := ParseNumber(spec)
		assert.Error(t, err, spec)
	}
	assert.Panics(t, func() { MustParseNumber("x") })
}

func TestFormat_NumberFormat(t *testing.T) {
	assert.Equal(t, "1.5000  ", MustParseNumber("8.4f").Format(1.5))
	assert.Equal(t, "2.123457", MustParseNumber("8.6f").Format(2.1234567))
	assert.Equal(t, "1.500000e-03", MustParseNumber(".6e").Format(0.0015))
	assert.Equal(t, "0.25 ", MustParseNumber("5").Format(0.25))
	assert.Equal(t, "123456.789", MustParseNumber("4.3f").Format(123456.789))
	assert.Equal(t, "%-8.4f", MustParseNumber("8.4f").String())
	assert.Equal(t, "%-5g", MustParseNumber("5").String())
}

func TestFormat_LineRender(t *testing.T) {
	l := Line{LeadingSpaces: 2, MidSpaces: 1, Number: MustParseNumber("6.3f")}
	assert.Equal(t, "  35 0.100  2.000 ", l.Render("35", []float64{0.1, 2}))
	assert.Equal(t, "  0.100  2.000 ", l.Render("", []float64{0.1, 2}))
	assert.Equal(t, "  35", l.Render("35", nil))

	compact := Line{Number: MustParseNumber(".2f")}
	assert.Equal(t, "1.001.50", compact.Render("", []float64{1, 1.5}))
}
