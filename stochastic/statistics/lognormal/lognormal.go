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

package lognormal

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Params converts the mean and standard deviation of a log-normal variable
// into the location and scale of the underlying normal distribution.
func Params(mean, sd float64) (mu float64, sigma float64) {
	f := 1 + (sd/mean)*(sd/mean)
	return math.Log(mean / math.Sqrt(f)), math.Sqrt(math.Log(f))
}

// degenerate reports whether (mean, sd) carries no variation. Non-positive
// means have no log-normal counterpart and are passed through as well.
func degenerate(mean, sd float64) bool {
	return sd <= 0 || mean <= 0
}

// Sample draws a log-normal variable with the given mean and standard deviation.
func Sample(src rand.Source, mean, sd float64) float64 {
	if degenerate(mean, sd) {
		return mean
	}
	mu, sigma := Params(mean, sd)
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}.Rand()
}

// Quantile evaluates exp(mu + sigma*Phi^-1(q)).
func Quantile(q, mean, sd float64) float64 {
	if degenerate(mean, sd) {
		return mean
	}
	mu, sigma := Params(mean, sd)
	return math.Exp(mu + sigma*distuv.UnitNormal.Quantile(q))
}

// CDF evaluates the cumulative distribution function at x.
func CDF(x, mean, sd float64) float64 {
	if degenerate(mean, sd) {
		if x < mean {
			return 0
		}
		return 1
	}
	if x <= 0 {
		return 0
	}
	mu, sigma := Params(mean, sd)
	return distuv.UnitNormal.CDF((math.Log(x) - mu) / sigma)
}

// SampleLog draws exp(X) for X ~ N(mu, sigma), the variable being given by
// the parameters of its logarithm. A non-positive sigma returns exp(mu).
func SampleLog(src rand.Source, mu, sigma float64) float64 {
	if sigma <= 0 {
		return math.Exp(mu)
	}
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}.Rand()
}

// QuantileLog evaluates exp(mu + sigma*Phi^-1(q)).
func QuantileLog(q, mu, sigma float64) float64 {
	if sigma <= 0 {
		return math.Exp(mu)
	}
	return math.Exp(mu + sigma*distuv.UnitNormal.Quantile(q))
}

// CDFLog evaluates the cumulative distribution function at x for the
// parameters of the logarithm.
func CDFLog(x, mu, sigma float64) float64 {
	if x <= 0 {
		return 0
	}
	if sigma <= 0 {
		if x < math.Exp(mu) {
			return 0
		}
		return 1
	}
	return distuv.UnitNormal.CDF((math.Log(x) - mu) / sigma)
}
