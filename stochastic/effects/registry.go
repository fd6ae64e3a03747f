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
	"github.com/0xsoniclabs/mcvary/stochastic/rng"
)

// Registry keeps the stream snapshot of every correlation group seen during
// one composition.
type Registry struct {
	snapshots map[string]rng.Snapshot
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{snapshots: make(map[string]rng.Snapshot)}
}

// Lookup returns the snapshot of a group, taking it from the stream if the
// group is seen for the first time. The boolean is true for a first sight.
func (r *Registry) Lookup(group string, stream *rng.Stream) (rng.Snapshot, bool) {
	if snapshot, found := r.snapshots[group]; found {
		return snapshot, false
	}
	snapshot := stream.Snapshot()
	r.snapshots[group] = snapshot
	return snapshot, true
}

// Len returns the number of known groups.
func (r *Registry) Len() int {
	return len(r.snapshots)
}

// Reset forgets all groups.
func (r *Registry) Reset() {
	clear(r.snapshots)
}
