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

// Package montecarlo implements the commands of mcvary.
package montecarlo

import (
	"github.com/0xsoniclabs/mcvary/config"
	"github.com/0xsoniclabs/mcvary/logger"
	"github.com/0xsoniclabs/mcvary/stochastic/iteration"
	"github.com/urfave/cli/v2"
)

// VaryCommand data structure for the vary app.
var VaryCommand = cli.Command{
	Action: varyAction,
	Name:   "vary",
	Usage:  "vary the parameter and input files for one iteration",
	Flags: []cli.Flag{
		&logger.LogLevelFlag,
		&config.RandomSeedFlag,
		&config.IterationFlag,
		&config.ZeroRunFlag,
		&config.SaveFlag,
		&config.ArchiveFlag,
		&config.RecordDbFlag,
		&config.ModfileDirFlag,
		&config.InputsDirFlag,
		&config.RecordDirFlag,
		&config.RunConfigFlag,
		&config.EffectsFileFlag,
	},
	Description: `
The vary command reads the run configuration and writes <stem>_mc.dat for every
parameter file and <stem>_mc.inp for every input file it lists. With --save
the sampled values are appended to the records of the run.`,
}

// varyAction performs one iteration.
func varyAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Vary")
	run, err := config.LoadRunConfig(cfg.RunConfig)
	if err != nil {
		return err
	}
	log.Infof("Model %v, iteration %d of %d", run.Model, cfg.Iteration, run.DefaultIterations)
	_, err = iteration.Run(cfg, run, log)
	return err
}
