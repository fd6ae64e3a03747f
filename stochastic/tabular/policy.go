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

package tabular

import (
	"fmt"
	"strings"

	"github.com/0xsoniclabs/mcvary/stochastic"
)

// Policy decides how many base draws a matrix takes and which cells share
// them.
type Policy int

const (
	Independent     Policy = iota // a fresh direct sample per cell
	RowCorrelated                 // one base draw per data row
	BlockCorrelated               // one base vector per block of the group
)

var policyNames = [...]string{
	Independent:     "independent",
	RowCorrelated:   "row",
	BlockCorrelated: "block",
}

func (p Policy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return fmt.Sprintf("Policy(%d)", int(p))
	}
	return policyNames[p]
}

// ParsePolicy maps the correlation setting of a parameter file to a policy.
// An empty setting means Independent.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "independent", "individual":
		return Independent, nil
	case "row":
		return RowCorrelated, nil
	case "block":
		return BlockCorrelated, nil
	}
	return 0, stochastic.Configurationf("invalid correlation %q; valid correlations are none, row and block", name)
}

// Correlated reports whether cells share base draws under the policy.
func (p Policy) Correlated() bool {
	return p == RowCorrelated || p == BlockCorrelated
}
