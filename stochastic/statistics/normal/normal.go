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

package normal

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sample draws from N(mean, sd). A non-positive standard deviation returns
// the mean without consuming the source.
func Sample(src rand.Source, mean, sd float64) float64 {
	if sd <= 0 {
		return mean
	}
	return distuv.Normal{Mu: mean, Sigma: sd, Src: src}.Rand()
}

// FromStandard shifts and scales a standard normal error term z.
func FromStandard(z, mean, sd float64) float64 {
	if sd <= 0 {
		return mean
	}
	return mean + sd*z
}

// Quantile evaluates the inverse CDF of N(mean, sd) at q.
func Quantile(q, mean, sd float64) float64 {
	if sd <= 0 {
		return mean
	}
	return distuv.Normal{Mu: mean, Sigma: sd}.Quantile(q)
}

// CDF evaluates the cumulative distribution function of N(mean, sd) at x.
func CDF(x, mean, sd float64) float64 {
	if sd <= 0 {
		if x < mean {
			return 0
		}
		return 1
	}
	return distuv.Normal{Mu: mean, Sigma: sd}.CDF(x)
}
