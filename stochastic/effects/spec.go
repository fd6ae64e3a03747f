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

// Package effects composes the scalar effects substituted into the input
// files of a model. An effect is the sum of one or more sampled components;
// components of the same correlation group share their quantile.
package effects

import (
	"io"
	"strconv"
	"strings"

	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/0xsoniclabs/mcvary/stochastic/tabular"
)

// commentMark starts a comment reaching to the end of the line.
const commentMark = "#"

// Spec describes one effect.
type Spec struct {
	Key        string
	Components []Component
}

// MeanDependent reports whether the effect varies the value found on the
// matching line instead of replacing it.
func (s *Spec) MeanDependent() bool {
	return len(s.Components) == 1 && s.Components[0].MeanDependent
}

// Set is an ordered collection of effects with pairwise non-overlapping
// keys.
type Set struct {
	Specs []*Spec
}

// Keys returns the effect keys in declaration order.
func (s *Set) Keys() []string {
	keys := make([]string, len(s.Specs))
	for i, spec := range s.Specs {
		keys[i] = spec.Key
	}
	return keys
}

// Groups returns the correlation groups in order of first use.
func (s *Set) Groups() []string {
	var groups []string
	seen := map[string]bool{}
	for _, spec := range s.Specs {
		for _, c := range spec.Components {
			if c.Group != "" && !seen[c.Group] {
				seen[c.Group] = true
				groups = append(groups, c.Group)
			}
		}
	}
	return groups
}

// Parse reads an effect specification. Every effect starts with a header
// line "key,count" followed by count component lines.
func Parse(r io.Reader) (*Set, error) {
	raw, err := tabular.ReadLines(r)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range raw {
		line, _, _ = strings.Cut(line, commentMark)
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	set := &Set{}
	for i := 0; i < len(lines); {
		key, count, err := parseHeader(lines[i])
		if err != nil {
			return nil, err
		}
		i++
		if i+count > len(lines) {
			return nil, stochastic.Configurationf("effect %q declares %d components but only %d lines follow", key, count, len(lines)-i)
		}
		spec := &Spec{Key: key, Components: make([]Component, 0, count)}
		for _, line := range lines[i : i+count] {
			c, err := ParseComponent(line)
			if err != nil {
				return nil, stochastic.Configurationf("effect %q: %v", key, err)
			}
			spec.Components = append(spec.Components, c)
		}
		i += count
		if err := checkMeanDependent(spec); err != nil {
			return nil, err
		}
		set.Specs = append(set.Specs, spec)
	}
	if err := checkKeys(set.Specs); err != nil {
		return nil, err
	}
	return set, nil
}

func parseHeader(line string) (string, int, error) {
	key, rest, found := strings.Cut(line, ",")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", 0, stochastic.Configurationf("invalid effect header %q, expected key,count", line)
	}
	count, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || count < 1 {
		return "", 0, stochastic.Configurationf("invalid component count in effect header %q", line)
	}
	return key, count, nil
}

// checkMeanDependent rejects a mean dependent component that is not the only
// component of its effect.
func checkMeanDependent(spec *Spec) error {
	if len(spec.Components) == 1 {
		return nil
	}
	for _, c := range spec.Components {
		if c.MeanDependent {
			return stochastic.Configurationf("effect %q: the %v placeholder is only valid for effects with a single component", spec.Key, MeanPlaceholder)
		}
	}
	return nil
}

// checkKeys makes sure every input line can match at most one key by
// rejecting duplicate keys and keys contained in other keys.
func checkKeys(specs []*Spec) error {
	for i, a := range specs {
		for j, b := range specs {
			if i == j {
				continue
			}
			if a.Key == b.Key {
				return stochastic.Configurationf("duplicate effect key %q", a.Key)
			}
			if strings.Contains(b.Key, a.Key) {
				return stochastic.Configurationf("effect key %q is part of effect key %q", a.Key, b.Key)
			}
		}
	}
	return nil
}
