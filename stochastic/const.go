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

package stochastic

// File naming of the Monte Carlo run. A tabular parameter file <stem> is read
// from <stem>.dat and <stem>_sd.dat and written to <stem>_mc.dat; a scalar
// input file <stem> is read from <stem>.inp and written to <stem>_mc.inp.
const (
	DatExt       = ".dat"
	InpExt       = ".inp"
	SdSuffix     = "_sd"
	VariedSuffix = "_mc"
)

// Defaults of the run configuration.
const (
	DefaultRowsPerBlock   = 6           // data rows per block of block-correlated files
	DefaultBlocksPerGroup = 2           // blocks sharing no base draw before the pattern repeats
	DefaultEffectFormat   = "8.6f"      // field of a substituted effect value
	RecordFormat          = "%-16.7f"   // field of a recorded effect value
	RecordLabelFormat     = "%-16s"     // field of a recorded effect key
	RecordSeparator       = "  "        // separator between two recorded fields
	EffectsRecordName     = "inp.txt"   // effect record within the record directory
	DatRecordDir          = "dat_files" // tabular records within the record directory
	IterationLabel        = "line #"    // header of the iteration column of the effect record
)
