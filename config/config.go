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

// Package config collects the settings of an mcvary invocation from the
// environment, the command line and the run configuration document.
package config

import (
	"path/filepath"

	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// Default file names within the inputs directory.
const (
	RunConfigName = "input_data.json"
	EffectsName   = "inp_variation.txt"
)

// Layout locates the files of a run. Its defaults follow the directory
// structure of the model and may be changed through the environment.
type Layout struct {
	ModfileDir string `env:"MCVARY_MODFILE_DIR" envDefault:"modfile"`
	InputsDir  string `env:"MCVARY_INPUTS_DIR" envDefault:"MC/inputs"`
	RecordDir  string `env:"MCVARY_RECORD_DIR" envDefault:"MC/input_variation"`
}

// LoadLayout reads the layout from the environment.
func LoadLayout() (Layout, error) {
	var layout Layout
	if err := env.Parse(&layout); err != nil {
		return layout, errors.Mark(errors.Wrap(err, "parse env"), stochastic.ErrConfiguration)
	}
	return layout, nil
}

// Config summarizes the settings of one invocation.
type Config struct {
	AppName     string
	CommandName string

	LogLevel   string
	RandomSeed uint64
	Seeded     bool // false if the seed is to be drawn from the operating system
	Iteration  uint64
	ZeroRun    bool
	Save       bool
	Archive    bool
	RecordDb   string

	Layout
	RunConfig   string // path of the run configuration
	EffectsFile string // path of the effect specification

	DatFiles []string
	InpFiles []string
	Force    bool
}

// NewConfig creates the configuration of the running command. Flags take
// precedence over the environment.
func NewConfig(ctx *cli.Context) (*Config, error) {
	layout, err := LoadLayout()
	if err != nil {
		return nil, err
	}
	cfg := createConfigFromFlags(ctx)
	if cfg.ModfileDir == "" {
		cfg.ModfileDir = layout.ModfileDir
	}
	if cfg.InputsDir == "" {
		cfg.InputsDir = layout.InputsDir
	}
	if cfg.RecordDir == "" {
		cfg.RecordDir = layout.RecordDir
	}
	if cfg.RunConfig == "" {
		cfg.RunConfig = filepath.Join(cfg.InputsDir, RunConfigName)
	}
	if cfg.EffectsFile == "" {
		cfg.EffectsFile = filepath.Join(cfg.InputsDir, EffectsName)
	}
	if cfg.Archive && !cfg.Save {
		return nil, stochastic.Configurationf("--%v requires --%v", ArchiveFlag.Name, SaveFlag.Name)
	}
	return cfg, nil
}

// DatPath returns the path of the parameter file of a stem with the given
// suffix, e.g. "", SdSuffix or VariedSuffix.
func (cfg *Config) DatPath(stem, suffix string) string {
	return filepath.Join(cfg.ModfileDir, stem+suffix+stochastic.DatExt)
}

// InpPath returns the path of the input file of a stem with the given
// suffix.
func (cfg *Config) InpPath(stem, suffix string) string {
	return filepath.Join(cfg.ModfileDir, stem+suffix+stochastic.InpExt)
}
