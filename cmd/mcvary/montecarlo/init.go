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

package montecarlo

import (
	"os"

	"github.com/0xsoniclabs/mcvary/config"
	"github.com/0xsoniclabs/mcvary/logger"
	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// InitCommand data structure for the init app.
var InitCommand = cli.Command{
	Action: initAction,
	Name:   "init",
	Usage:  "write a default run configuration",
	Flags: []cli.Flag{
		&logger.LogLevelFlag,
		&config.InputsDirFlag,
		&config.RunConfigFlag,
		&config.DatFilesFlag,
		&config.InpFilesFlag,
		&config.ForceFlag,
	},
	Description: `
The init command writes a run configuration varying the given parameter files
independently with normal distributions. Existing configurations are only
replaced with --force.`,
}

func initAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Init")
	if len(cfg.DatFiles) == 0 && len(cfg.InpFiles) == 0 {
		return stochastic.Configurationf("nothing to vary; use --%v or --%v", config.DatFilesFlag.Name, config.InpFilesFlag.Name)
	}
	_, err = os.Stat(cfg.RunConfig)
	switch {
	case err == nil && !cfg.Force:
		return stochastic.Configurationf("%v already exists; use --%v to replace it", cfg.RunConfig, config.ForceFlag.Name)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return stochastic.WrapInput(err, "cannot inspect run configuration")
	}
	run := config.NewRunConfig(cfg.DatFiles, cfg.InpFiles)
	if err := run.Validate(); err != nil {
		return err
	}
	log.Noticef("Write run configuration %v", cfg.RunConfig)
	return run.Save(cfg.RunConfig)
}
