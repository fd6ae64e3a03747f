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

// Package beta samples Beta variables given by their mean and standard
// deviation or by their shape parameters. A negative mean selects the
// mirrored variable on [-1,0]: the variable is computed for the absolute mean
// and negated afterwards.
package beta

import (
	"math"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidParameters is returned if a mean and standard deviation have no
// Beta distribution, i.e. sd^2 >= m(1-m) or |mean| >= 1, or if a shape
// parameter is not positive.
var ErrInvalidParameters = errors.New("no beta distribution for the given parameters")

// Params computes the shape parameters for mean m in (0,1) and standard deviation s.
func Params(m, s float64) (alpha float64, beta float64) {
	alpha = ((1-m)/(s*s) - 1/m) * m * m
	beta = alpha * (1/m - 1)
	return alpha, beta
}

func degenerate(mean, sd float64) bool {
	return sd <= 0 || mean == 0
}

func checkedParams(mean, sd float64) (float64, float64, error) {
	alpha, beta := Params(math.Abs(mean), sd)
	if !(alpha > 0 && beta > 0) {
		return 0, 0, errors.Wrapf(ErrInvalidParameters, "mean %v, sd %v", mean, sd)
	}
	return alpha, beta, nil
}

func sign(mean, v float64) float64 {
	if mean < 0 {
		return -v
	}
	return v
}

// Sample draws a Beta variable with the given mean and standard deviation.
func Sample(src rand.Source, mean, sd float64) (float64, error) {
	if degenerate(mean, sd) {
		return mean, nil
	}
	alpha, beta, err := checkedParams(mean, sd)
	if err != nil {
		return 0, err
	}
	return sign(mean, distuv.Beta{Alpha: alpha, Beta: beta, Src: src}.Rand()), nil
}

// Quantile evaluates the inverse regularized incomplete beta function at q.
func Quantile(q, mean, sd float64) (float64, error) {
	if degenerate(mean, sd) {
		return mean, nil
	}
	alpha, beta, err := checkedParams(mean, sd)
	if err != nil {
		return 0, err
	}
	return sign(mean, mathext.InvRegIncBeta(alpha, beta, q)), nil
}

// CDF returns the probability of the unsigned variable being at most |x|,
// which makes it the inverse of Quantile for negative means as well.
func CDF(x, mean, sd float64) (float64, error) {
	if degenerate(mean, sd) {
		if math.Abs(x) < math.Abs(mean) {
			return 0, nil
		}
		return 1, nil
	}
	alpha, beta, err := checkedParams(mean, sd)
	if err != nil {
		return 0, err
	}
	v := math.Abs(x)
	switch {
	case v <= 0:
		return 0, nil
	case v >= 1:
		return 1, nil
	}
	return mathext.RegIncBeta(alpha, beta, v), nil
}

// CheckShapes reports an error unless both shape parameters are positive.
func CheckShapes(alpha, beta float64) error {
	if !(alpha > 0 && beta > 0) {
		return errors.Wrapf(ErrInvalidParameters, "alpha %v, beta %v", alpha, beta)
	}
	return nil
}

// SampleShapes draws from Beta(alpha, beta).
func SampleShapes(src rand.Source, alpha, beta float64) (float64, error) {
	if err := CheckShapes(alpha, beta); err != nil {
		return 0, err
	}
	return distuv.Beta{Alpha: alpha, Beta: beta, Src: src}.Rand(), nil
}

// QuantileShapes evaluates the inverse CDF of Beta(alpha, beta) at q.
func QuantileShapes(q, alpha, beta float64) (float64, error) {
	if err := CheckShapes(alpha, beta); err != nil {
		return 0, err
	}
	return mathext.InvRegIncBeta(alpha, beta, q), nil
}

// CDFShapes evaluates the cumulative distribution function of
// Beta(alpha, beta) at x.
func CDFShapes(x, alpha, beta float64) (float64, error) {
	if err := CheckShapes(alpha, beta); err != nil {
		return 0, err
	}
	switch {
	case x <= 0:
		return 0, nil
	case x >= 1:
		return 1, nil
	}
	return mathext.RegIncBeta(alpha, beta, x), nil
}
