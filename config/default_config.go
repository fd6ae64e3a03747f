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
	"github.com/0xsoniclabs/mcvary/logger"
	"github.com/urfave/cli/v2"
)

// createConfigFromFlags returns Config instance with user specified values or the default ones
func createConfigFromFlags(ctx *cli.Context) *Config {
	cfg := &Config{
		AppName: ctx.App.HelpName,

		LogLevel:   getFlagValue(ctx, logger.LogLevelFlag).(string),
		RandomSeed: getFlagValue(ctx, RandomSeedFlag).(uint64),
		Seeded:     ctx.IsSet(RandomSeedFlag.Name),
		Iteration:  getFlagValue(ctx, IterationFlag).(uint64),
		ZeroRun:    getFlagValue(ctx, ZeroRunFlag).(bool),
		Save:       getFlagValue(ctx, SaveFlag).(bool),
		Archive:    getFlagValue(ctx, ArchiveFlag).(bool),
		RecordDb:   getFlagValue(ctx, RecordDbFlag).(string),

		Layout: Layout{
			ModfileDir: getFlagValue(ctx, ModfileDirFlag).(string),
			InputsDir:  getFlagValue(ctx, InputsDirFlag).(string),
			RecordDir:  getFlagValue(ctx, RecordDirFlag).(string),
		},
		RunConfig:   getFlagValue(ctx, RunConfigFlag).(string),
		EffectsFile: getFlagValue(ctx, EffectsFileFlag).(string),

		DatFiles: getFlagValue(ctx, DatFilesFlag).([]string),
		InpFiles: getFlagValue(ctx, InpFilesFlag).([]string),
		Force:    getFlagValue(ctx, ForceFlag).(bool),
	}
	if ctx.Command != nil {
		cfg.CommandName = ctx.Command.Name
	}
	return cfg
}

// getFlagValue returns value specified by user if flag is present in cli context, otherwise return default flag value
func getFlagValue(ctx *cli.Context, flag interface{}) interface{} {
	var cmdFlags []cli.Flag
	if ctx.Command != nil {
		cmdFlags = ctx.Command.Flags
	}
	for _, cmdFlag := range cmdFlags {
		switch f := flag.(type) {
		case cli.IntFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Int(f.Name)
			}

		case cli.Uint64Flag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Uint64(f.Name)
			}

		case cli.StringFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.String(f.Name)
			}

		case cli.PathFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Path(f.Name)
			}

		case cli.BoolFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Bool(f.Name)
			}
		case cli.StringSliceFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.StringSlice(f.Name)
			}
		}
	}

	// If flag not found, return the default value of the flag
	switch f := flag.(type) {
	case cli.IntFlag:
		return f.Value
	case cli.Uint64Flag:
		return f.Value
	case cli.StringFlag:
		return f.Value
	case cli.PathFlag:
		return f.Value
	case cli.BoolFlag:
		return f.Value
	case cli.StringSliceFlag:
		if f.Value == nil {
			return []string{}
		}
		return f.Value.Value()
	}

	return nil
}
