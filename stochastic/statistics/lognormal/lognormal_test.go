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
	"sort"
	"testing"

	"github.com/0xsoniclabs/mcvary/stochastic/rng"
	"gonum.org/v1/gonum/stat"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// TestLogNormal_Params checks that the reparameterisation reproduces the
// requested mean and standard deviation.
func TestLogNormal_Params(t *testing.T) {
	tests := [][2]float64{{1, 0.1}, {10, 2}, {0.02, 0.05}, {350, 17}}
	for _, test := range tests {
		mean, sd := test[0], test[1]
		mu, sigma := Params(mean, sd)
		gotMean := math.Exp(mu + sigma*sigma/2)
		gotVar := (math.Exp(sigma*sigma) - 1) * math.Exp(2*mu+sigma*sigma)
		if !almostEqual(gotMean, mean, 1e-12) {
			t.Fatalf("mean %v: reparameterised mean is %v", mean, gotMean)
		}
		if !almostEqual(math.Sqrt(gotVar), sd, 1e-9) {
			t.Fatalf("mean %v: reparameterised sd is %v, want %v", mean, math.Sqrt(gotVar), sd)
		}
	}
}

func TestLogNormal_Degenerate(t *testing.T) {
	s := rng.New(3, 0)
	for _, test := range [][2]float64{{2, 0}, {2, -1}, {0, 1}, {-1, 1}} {
		if got := Sample(s, test[0], test[1]); got != test[0] {
			t.Fatalf("Sample(%v, %v): want %v, got %v", test[0], test[1], test[0], got)
		}
		if got := Quantile(0.3, test[0], test[1]); got != test[0] {
			t.Fatalf("Quantile(%v, %v): want %v, got %v", test[0], test[1], test[0], got)
		}
	}
}

func TestLogNormal_QuantileCDFInverse(t *testing.T) {
	for i := 1; i < 100; i++ {
		q := float64(i) / 100
		x := Quantile(q, 4, 1.5)
		if x <= 0 {
			t.Fatalf("quantile %v is not positive: %v", q, x)
		}
		if got := CDF(x, 4, 1.5); math.Abs(got-q) > 1e-9 {
			t.Fatalf("CDF(Quantile(%v)) = %v", q, got)
		}
	}
	mu, _ := Params(4, 1.5)
	if median := Quantile(0.5, 4, 1.5); !almostEqual(median, math.Exp(mu), 1e-12) {
		t.Fatalf("median: want %v, got %v", math.Exp(mu), median)
	}
}

// TestLogNormal_SampleMoments checks sample moments against the requested mean and sd.
func TestLogNormal_SampleMoments(t *testing.T) {
	s := rng.New(77, 1)
	n := 200000
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = Sample(s, 5, 1)
		if xs[i] <= 0 {
			t.Fatalf("log-normal sample is not positive: %v", xs[i])
		}
	}
	mean, sd := stat.MeanStdDev(xs, nil)
	if math.Abs(mean-5) > 0.02 {
		t.Fatalf("sample mean %v too far from 5", mean)
	}
	if math.Abs(sd-1) > 0.02 {
		t.Fatalf("sample sd %v too far from 1", sd)
	}
}

func TestLogNormal_LogParameters(t *testing.T) {
	s := rng.New(12, 0)
	n := 20001
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = SampleLog(s, 0, 0.5)
	}
	sort.Float64s(xs)
	if median := xs[n/2]; math.Abs(median-1) > 0.03 {
		t.Fatalf("median %v too far from 1", median)
	}
	if got := QuantileLog(0.5, 0, 0.5); !almostEqual(got, 1, 1e-12) {
		t.Fatalf("QuantileLog(0.5, 0, 0.5): want 1, got %v", got)
	}
	for i := 1; i < 100; i++ {
		q := float64(i) / 100
		if got := CDFLog(QuantileLog(q, 1.2, 0.3), 1.2, 0.3); math.Abs(got-q) > 1e-9 {
			t.Fatalf("CDFLog(QuantileLog(%v)) = %v", q, got)
		}
	}
	if got := SampleLog(s, 2, 0); got != math.Exp(2) {
		t.Fatalf("SampleLog(2, 0): want %v, got %v", math.Exp(2), got)
	}
}
