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
	"strconv"
	"strings"

	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/0xsoniclabs/mcvary/stochastic/format"
	"github.com/0xsoniclabs/mcvary/stochastic/rng"
	"github.com/0xsoniclabs/mcvary/stochastic/statistics/distribution"
	"github.com/cockroachdb/errors"
)

// Composer draws the values of a set of effects.
type Composer struct {
	set      *Set
	registry *Registry
}

// NewComposer creates a composer for the given effects.
func NewComposer(set *Set) *Composer {
	return &Composer{set: set, registry: NewRegistry()}
}

// Value is the composed value of one effect.
type Value struct {
	Key           string
	Value         float64
	MeanDependent bool
}

// Values holds the composed effects in declaration order.
type Values []Value

// Compose draws one value per effect. Every component is sampled and clamped
// on its own, then the components of an effect are summed up. Grouped
// components map one uniform draw, taken from the snapshot of their group,
// through their quantile function.
func (c *Composer) Compose(stream *rng.Stream) (Values, error) {
	c.registry.Reset()
	values := make(Values, 0, len(c.set.Specs))
	for _, spec := range c.set.Specs {
		sum := 0.0
		for i, component := range spec.Components {
			v, err := c.sample(stream, component)
			if err != nil {
				return nil, errors.Mark(errors.Wrapf(err, "effect %q component %d", spec.Key, i+1), stochastic.ErrConfiguration)
			}
			sum += v
		}
		values = append(values, Value{Key: spec.Key, Value: sum, MeanDependent: spec.MeanDependent()})
	}
	return values, nil
}

func (c *Composer) sample(stream *rng.Stream, component Component) (float64, error) {
	var (
		v   float64
		err error
	)
	if component.Group == "" {
		v, err = distribution.SampleNative(component.Kind, stream, component.P1, component.P2)
	} else {
		v, err = c.sampleGrouped(stream, component)
	}
	if err != nil {
		return 0, err
	}
	return component.Bounds.Clamp(v), nil
}

// sampleGrouped draws the shared uniform of the component's group. The first
// member of a group draws from the stream as is; later members replay the
// group snapshot and leave the stream where it was.
func (c *Composer) sampleGrouped(stream *rng.Stream, component Component) (float64, error) {
	snapshot, first := c.registry.Lookup(component.Group, stream)
	var q float64
	if first {
		q = stream.Uniform()
	} else {
		current := stream.Snapshot()
		if err := stream.Restore(snapshot); err != nil {
			return 0, err
		}
		q = stream.Uniform()
		if err := stream.Restore(current); err != nil {
			return 0, err
		}
	}
	return distribution.QuantileNative(component.Kind, q, component.P1, component.P2)
}

// Numbers returns the bare values for recording.
func (vs Values) Numbers() []float64 {
	res := make([]float64, len(vs))
	for i, v := range vs {
		res[i] = v.Value
	}
	return res
}

// Apply substitutes the effects into the lines of an input file. The first
// token of a line containing an effect key is replaced by the effect value,
// or for mean dependent effects by the token's value varied by the effect.
// A line containing more than one key is an error.
func (vs Values) Apply(lines []string, number format.Number) ([]string, error) {
	res := make([]string, len(lines))
	for i, line := range lines {
		var match *Value
		for j := range vs {
			if !strings.Contains(line, vs[j].Key) {
				continue
			}
			if match != nil {
				return nil, stochastic.Configurationf("line %d %q matches effects %q and %q", i+1, line, match.Key, vs[j].Key)
			}
			match = &vs[j]
		}
		if match == nil {
			res[i] = line
			continue
		}
		replaced, err := replaceLeading(line, *match, number)
		if err != nil {
			return nil, stochastic.Layoutf("line %d: %v", i+1, err)
		}
		res[i] = replaced
	}
	return res, nil
}

// replaceLeading swaps the first token of line for the effect value and
// keeps indentation and the remainder of the line.
func replaceLeading(line string, v Value, number format.Number) (string, error) {
	start := len(line) - len(strings.TrimLeft(line, " \t"))
	end := strings.IndexAny(line[start:], " \t")
	if end < 0 {
		end = len(line)
	} else {
		end += start
	}
	token := line[start:end]
	mean, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return "", errors.Newf("leading token %q of effect %q is not a number", token, v.Key)
	}
	value := v.Value
	if v.MeanDependent {
		value = mean + mean*v.Value
	}
	return line[:start] + number.Format(value) + line[end:], nil
}
