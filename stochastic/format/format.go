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

// Package format renders varied values back into the fixed column layout
// expected by the simulation model.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// numberSpec accepts format specifications such as "8.4f",
// "<12.6e" or ".5g" as well as go verbs like "%-10.3f".
var numberSpec = regexp.MustCompile(`^%?[<-]?(\d+)?(?:\.(\d+))?([eEfFgG])?$`)

// Number formats a float left-aligned in a field of fixed width.
type Number struct {
	Width     int  // minimal field width, zero for none
	Precision int  // digits after the point, -1 for the default
	Verb      byte // one of e, E, f, F, g, G
}

// ParseNumber parses a numeric field specification. A missing type selects
// 'g'.
func ParseNumber(spec string) (Number, error) {
	m := numberSpec.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return Number{}, errors.Newf("invalid number format %q", spec)
	}
	n := Number{Precision: -1, Verb: 'g'}
	if m[1] != "" {
		n.Width, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		n.Precision, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		n.Verb = m[3][0]
	}
	return n, nil
}

// MustParseNumber is ParseNumber for specifications known to be valid.
func MustParseNumber(spec string) Number {
	n, err := ParseNumber(spec)
	if err != nil {
		panic(err)
	}
	return n
}

// Format renders v left-aligned in the field.
func (n Number) Format(v float64) string {
	if n.Precision < 0 {
		return fmt.Sprintf("%-*"+string(n.Verb), n.Width, v)
	}
	return fmt.Sprintf("%-*.*"+string(n.Verb), n.Width, n.Precision, v)
}

// String returns the equivalent go verb.
func (n Number) String() string {
	if n.Precision < 0 {
		return fmt.Sprintf("%%-%d%c", n.Width, n.Verb)
	}
	return fmt.Sprintf("%%-%d.%d%c", n.Width, n.Precision, n.Verb)
}

// Line describes the layout of a data row: indentation, number format of the
// fields and the spaces between two fields.
type Line struct {
	LeadingSpaces int
	MidSpaces     int
	Number        Number
}

// Render writes an optional label followed by the values.
func (l Line) Render(label string, values []float64) string {
	var b strings.Builder
	sep := strings.Repeat(" ", l.MidSpaces)
	b.WriteString(strings.Repeat(" ", l.LeadingSpaces))
	if label != "" {
		b.WriteString(label)
		if len(values) > 0 {
			b.WriteString(sep)
		}
	}
	for i, v := range values {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(l.Number.Format(v))
	}
	return b.String()
}
