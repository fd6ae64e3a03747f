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

// Package distribution dispatches sampling, quantile evaluation and clamping
// over the supported distribution kinds. Every kind takes two parameters:
// mean and standard deviation for Normal, LogNormal and Beta, shape and scale
// for Gamma. The *Native variants take LogNormal and Beta by the parameters
// of the logarithm and the two shapes instead.
package distribution

import (
	"fmt"
	"math"
	"strings"

	"github.com/0xsoniclabs/mcvary/stochastic/statistics/beta"
	"github.com/0xsoniclabs/mcvary/stochastic/statistics/gamma"
	"github.com/0xsoniclabs/mcvary/stochastic/statistics/lognormal"
	"github.com/0xsoniclabs/mcvary/stochastic/statistics/normal"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

// Kind identifies a distribution.
type Kind int

const (
	Normal Kind = iota
	LogNormal
	Beta
	Gamma
)

// NumParams is the number of native parameters of every kind.
const NumParams = 2

var kindNames = [...]string{
	Normal:    "Normal",
	LogNormal: "LogNormal",
	Beta:      "Beta",
	Gamma:     "Gamma",
}

// ErrUnknownKind is returned for distribution names that cannot be parsed.
var ErrUnknownKind = errors.New("invalid distribution")

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a (case-insensitive) distribution name to its kind. The
// empty name selects Normal.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "norm", "normal":
		return Normal, nil
	case "lognormal", "lognorm":
		return LogNormal, nil
	case "beta", "b":
		return Beta, nil
	case "gamma":
		return Gamma, nil
	}
	return 0, errors.Wrapf(ErrUnknownKind, "%q; valid distributions include Normal, LogNormal, Beta and Gamma", name)
}

// UsesQuantile reports whether correlated sampling of the kind maps a shared
// uniform draw through the quantile function. Normal shares a standard normal
// draw instead.
func (k Kind) UsesQuantile() bool {
	return k == LogNormal || k == Beta
}

// Correlatable reports whether the kind can take part in row or block
// correlation of tabular parameters.
func (k Kind) Correlatable() bool {
	return k == Normal || k.UsesQuantile()
}

// Sample draws one variate of kind k with parameters p1 and p2 from src.
func Sample(k Kind, src rand.Source, p1, p2 float64) (float64, error) {
	switch k {
	case Normal:
		return normal.Sample(src, p1, p2), nil
	case LogNormal:
		return lognormal.Sample(src, p1, p2), nil
	case Beta:
		return beta.Sample(src, p1, p2)
	case Gamma:
		return gamma.Sample(src, p1, p2), nil
	}
	return 0, errors.Newf("cannot sample distribution %v", k)
}

// Quantile evaluates the inverse CDF of kind k at q in [0,1].
func Quantile(k Kind, q, p1, p2 float64) (float64, error) {
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, errors.Newf("quantile %v outside [0,1]", q)
	}
	switch k {
	case Normal:
		return normal.Quantile(q, p1, p2), nil
	case LogNormal:
		return lognormal.Quantile(q, p1, p2), nil
	case Beta:
		return beta.Quantile(q, p1, p2)
	case Gamma:
		return gamma.Quantile(q, p1, p2), nil
	}
	return 0, errors.Newf("no quantile function for distribution %v", k)
}

// CDF evaluates the cumulative distribution function of kind k at x.
func CDF(k Kind, x, p1, p2 float64) (float64, error) {
	switch k {
	case Normal:
		return normal.CDF(x, p1, p2), nil
	case LogNormal:
		return lognormal.CDF(x, p1, p2), nil
	case Beta:
		return beta.CDF(x, p1, p2)
	case Gamma:
		return gamma.CDF(x, p1, p2), nil
	}
	return 0, errors.Newf("no CDF for distribution %v", k)
}

// SampleNative draws one variate of kind k from its native parameters: mean
// and standard deviation for Normal, location and scale of the logarithm for
// LogNormal, the two shapes for Beta and shape and scale for Gamma.
func SampleNative(k Kind, src rand.Source, p1, p2 float64) (float64, error) {
	switch k {
	case LogNormal:
		return lognormal.SampleLog(src, p1, p2), nil
	case Beta:
		return beta.SampleShapes(src, p1, p2)
	}
	return Sample(k, src, p1, p2)
}

// QuantileNative evaluates the inverse CDF of kind k at q for native
// parameters.
func QuantileNative(k Kind, q, p1, p2 float64) (float64, error) {
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, errors.Newf("quantile %v outside [0,1]", q)
	}
	switch k {
	case LogNormal:
		return lognormal.QuantileLog(q, p1, p2), nil
	case Beta:
		return beta.QuantileShapes(q, p1, p2)
	}
	return Quantile(k, q, p1, p2)
}

// CDFNative evaluates the cumulative distribution function of kind k at x
// for native parameters.
func CDFNative(k Kind, x, p1, p2 float64) (float64, error) {
	switch k {
	case LogNormal:
		return lognormal.CDFLog(x, p1, p2), nil
	case Beta:
		return beta.CDFShapes(x, p1, p2)
	}
	return CDF(k, x, p1, p2)
}

// CheckNative reports whether p1 and p2 are valid native parameters of k.
func CheckNative(k Kind, p1, p2 float64) error {
	switch {
	case k == Beta:
		return beta.CheckShapes(p1, p2)
	case k == LogNormal && p2 < 0:
		return errors.Newf("negative log scale %v", p2)
	}
	return nil
}

// Transform maps the base draw of a correlation unit onto kind k. The base is
// a standard normal draw for Normal and a uniform draw for kinds that use
// their quantile function.
func Transform(k Kind, base, p1, p2 float64) (float64, error) {
	switch {
	case k == Normal:
		return normal.FromStandard(base, p1, p2), nil
	case k.UsesQuantile():
		return Quantile(k, base, p1, p2)
	}
	return 0, errors.Newf("distribution %v cannot be correlated", k)
}

// Bounds is a closed interval values are clamped to.
type Bounds struct {
	Lower float64
	Upper float64
}

// Unbounded returns the interval (-Inf, +Inf).
func Unbounded() Bounds {
	return Bounds{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// Clamp limits v to the interval.
func (b Bounds) Clamp(v float64) float64 {
	if v > b.Upper {
		return b.Upper
	}
	if v < b.Lower {
		return b.Lower
	}
	return v
}

// Check returns an error if the interval is empty.
func (b Bounds) Check() error {
	if math.IsNaN(b.Lower) || math.IsNaN(b.Upper) || b.Lower > b.Upper {
		return errors.Newf("invalid bounds [%v, %v]", b.Lower, b.Upper)
	}
	return nil
}
