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

package config

import (
	"github.com/urfave/cli/v2"
)

// Iteration flags.
var (
	RandomSeedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "random seed of the run; drawn from the operating system if not set",
	}
	IterationFlag = cli.Uint64Flag{
		Name:    "iteration",
		Aliases: []string{"i"},
		Usage:   "index of the Monte Carlo iteration",
	}
	ZeroRunFlag = cli.BoolFlag{
		Name:    "zero-run",
		Aliases: []string{"z"},
		Usage:   "pass all inputs through without variation and record the effect labels",
	}
	SaveFlag = cli.BoolFlag{
		Name:    "save",
		Aliases: []string{"s"},
		Usage:   "append the sampled values to the records",
	}
	ArchiveFlag = cli.BoolFlag{
		Name:  "archive",
		Usage: "keep a compressed copy of every varied parameter file in the record directory",
	}
	RecordDbFlag = cli.PathFlag{
		Name:  "record-db",
		Usage: "SQLite database the sampled values are inserted into when saving",
	}
)

// Layout flags, overriding the environment.
var (
	ModfileDirFlag = cli.PathFlag{
		Name:  "modfile-dir",
		Usage: "directory of the parameter and input files of the model (env MCVARY_MODFILE_DIR)",
	}
	InputsDirFlag = cli.PathFlag{
		Name:  "inputs-dir",
		Usage: "directory of the run configuration and effect specification (env MCVARY_INPUTS_DIR)",
	}
	RecordDirFlag = cli.PathFlag{
		Name:  "record-dir",
		Usage: "directory of the records (env MCVARY_RECORD_DIR)",
	}
	RunConfigFlag = cli.PathFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "run configuration; defaults to input_data.json in the inputs directory",
	}
	EffectsFileFlag = cli.PathFlag{
		Name:    "effects",
		Aliases: []string{"e"},
		Usage:   "effect specification; defaults to inp_variation.txt in the inputs directory",
	}
)

// Init flags.
var (
	DatFilesFlag = cli.StringSliceFlag{
		Name:  "dat",
		Usage: "stems of the parameter files to vary",
	}
	InpFilesFlag = cli.StringSliceFlag{
		Name:  "inp",
		Usage: "stems of the input files to substitute effects into",
	}
	ForceFlag = cli.BoolFlag{
		Name:  "force",
		Usage: "overwrite an existing run configuration",
	}
)
