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

package gamma

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

func degenerate(shape, scale float64) bool {
	return shape <= 0 || scale <= 0
}

// Sample draws from a Gamma distribution with the given shape and scale.
// Non-positive parameters return the shape unchanged.
func Sample(src rand.Source, shape, scale float64) float64 {
	if degenerate(shape, scale) {
		return shape
	}
	return distuv.Gamma{Alpha: shape, Beta: 1 / scale, Src: src}.Rand()
}

// Quantile evaluates the inverse CDF at q.
func Quantile(q, shape, scale float64) float64 {
	if degenerate(shape, scale) {
		return shape
	}
	return mathext.GammaIncRegInv(shape, q) * scale
}

// CDF evaluates the cumulative distribution function at x.
func CDF(x, shape, scale float64) float64 {
	if degenerate(shape, scale) {
		if x < shape {
			return 0
		}
		return 1
	}
	if x <= 0 {
		return 0
	}
	return mathext.GammaIncReg(shape, x/scale)
}
