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

package effects

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/0xsoniclabs/mcvary/stochastic/statistics/distribution"
)

// MeanPlaceholder as first parameter turns a component into a relative
// variation of the value found on the input line.
const MeanPlaceholder = "MEAN"

var groupTag = regexp.MustCompile(`^(?:g|group)\s*=\s*(.+)$`)

// Component is one summand of an effect.
type Component struct {
	Kind          distribution.Kind
	P1, P2        float64 // native parameters, see distribution.SampleNative
	MeanDependent bool    // P2 scales a standard normal draw relative to the line value
	Bounds        distribution.Bounds
	Group         string // correlation group, empty if none
}

// ParseComponent parses a component line of the form
//
//	[group=NAME,] [Kind,] p1, p2[, lower[, upper]]
//
// A missing kind means Normal. A first parameter MEAN creates a mean
// dependent component whose second parameter is the relative scale.
func ParseComponent(line string) (Component, error) {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	c := Component{Bounds: distribution.Unbounded()}
	if m := groupTag.FindStringSubmatch(parts[0]); m != nil {
		c.Group = strings.TrimSpace(m[1])
		parts = parts[1:]
	}
	if len(parts) == 0 {
		return c, stochastic.Configurationf("component %q has no parameters", line)
	}

	params := parts
	if !isNumber(parts[0]) && !isMean(parts[0]) {
		kind, err := distribution.ParseKind(parts[0])
		if err != nil {
			return c, stochastic.Configurationf("component %q: %v", line, err)
		}
		c.Kind = kind
		params = parts[1:]
	}
	if len(params) < distribution.NumParams {
		return c, stochastic.Configurationf("component %q needs %d parameters", line, distribution.NumParams)
	}

	var err error
	if isMean(params[0]) {
		if c.Kind != distribution.Normal {
			return c, stochastic.Configurationf("component %q: %v is only valid for Normal components", line, MeanPlaceholder)
		}
		c.MeanDependent = true
	} else if c.P1, err = strconv.ParseFloat(params[0], 64); err != nil {
		return c, stochastic.Configurationf("component %q: parameter %q is not a number", line, params[0])
	}
	if c.P2, err = strconv.ParseFloat(params[1], 64); err != nil {
		return c, stochastic.Configurationf("component %q: parameter %q is not a number", line, params[1])
	}
	if err := distribution.CheckNative(c.Kind, c.P1, c.P2); err != nil {
		return c, stochastic.Configurationf("component %q: %v", line, err)
	}

	bounds := params[distribution.NumParams:]
	if len(bounds) > 2 {
		return c, stochastic.Configurationf("component %q has too many fields", line)
	}
	if len(bounds) > 0 {
		c.Bounds.Lower = parseBound(bounds[0], math.Inf(-1))
	}
	if len(bounds) > 1 {
		c.Bounds.Upper = parseBound(bounds[1], math.Inf(1))
	}
	if err := c.Bounds.Check(); err != nil {
		return c, stochastic.Configurationf("component %q: %v", line, err)
	}
	return c, nil
}

// parseBound reads a clamp bound. Anything that is not a number, such as an
// empty field or "none", leaves that side unbounded.
func parseBound(s string, unbounded float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return unbounded
	}
	return v
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isMean(s string) bool {
	return strings.EqualFold(s, MeanPlaceholder)
}
