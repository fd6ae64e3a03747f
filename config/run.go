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
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/0xsoniclabs/mcvary/stochastic/format"
	"github.com/0xsoniclabs/mcvary/stochastic/statistics/distribution"
	"github.com/0xsoniclabs/mcvary/stochastic/tabular"
	"github.com/0xsoniclabs/mcvary/utils"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Defaults of newly created run configurations.
const (
	DefaultIterations    = 1000
	DefaultModel         = "CHDMOD90"
	DefaultLeadingSpaces = 2
	DefaultMidSpaces     = 2
	DefaultNumFormat     = "8.4f"
)

// RunConfig lists the files varied in every iteration. It is stored as
// JSON; YAML is accepted as well.
type RunConfig struct {
	DefaultIterations int       `yaml:"default_iterations" json:"default_iterations"`
	Model             string    `yaml:"model" json:"model"`
	DatFiles          []DatFile `yaml:"dat_files" json:"dat_files"`
	InpFiles          []string  `yaml:"inp_files" json:"inp_files"`
}

// DatFile configures the variation of one parameter file.
type DatFile struct {
	Filename       string    `yaml:"filename" json:"filename"`
	Correlation    string    `yaml:"correlation" json:"correlation"`
	BlocksPerGroup int       `yaml:"blocksPerGroup" json:"blocksPerGroup,omitempty"`
	RowsPerBlock   int       `yaml:"rowsPerBlock" json:"rowsPerBlock,omitempty"`
	HasLabel       *bool     `yaml:"hasLabel" json:"hasLabel,omitempty"`
	Distribution   string    `yaml:"distribution" json:"distribution"`
	Format         DatFormat `yaml:"format" json:"format"`
	SumToOne       bool      `yaml:"sumToOne" json:"sumToOne"`
	LowerBound     *float64  `yaml:"lowerBound" json:"lowerBound"`
	UpperBound     *float64  `yaml:"upperBound" json:"upperBound"`
}

// DatFormat is the column layout of the data rows of a parameter file.
type DatFormat struct {
	LeadingSpaces int    `yaml:"leading_spaces" json:"leading_spaces"`
	MidSpaces     int    `yaml:"mid_spaces" json:"mid_spaces"`
	NumFormat     string `yaml:"num_format" json:"num_format"`
}

// LoadRunConfig reads and validates the run configuration at path.
func LoadRunConfig(path string) (*RunConfig, error) {
	rc, err := utils.ReadFile(path, DecodeRunConfig)
	if errors.Is(err, os.ErrNotExist) {
		return nil, stochastic.WrapInput(err, "could not find run configuration")
	}
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// DecodeRunConfig decodes and validates a run configuration.
func DecodeRunConfig(r io.Reader) (*RunConfig, error) {
	rc := &RunConfig{}
	if err := yaml.NewDecoder(r).Decode(rc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Mark(errors.Wrap(err, "invalid run configuration"), stochastic.ErrConfiguration)
	}
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return rc, nil
}

// Validate checks every file entry of the configuration.
func (rc *RunConfig) Validate() error {
	seen := map[string]bool{}
	for _, d := range rc.DatFiles {
		if err := checkStem(d.Filename); err != nil {
			return err
		}
		if seen[d.Filename] {
			return stochastic.Configurationf("parameter file %q listed twice", d.Filename)
		}
		seen[d.Filename] = true
		if _, err := d.Options(); err != nil {
			return err
		}
		if _, err := d.Layout(); err != nil {
			return err
		}
	}
	seen = map[string]bool{}
	for _, stem := range rc.InpFiles {
		if err := checkStem(stem); err != nil {
			return err
		}
		if seen[stem] {
			return stochastic.Configurationf("input file %q listed twice", stem)
		}
		seen[stem] = true
	}
	return nil
}

func checkStem(stem string) error {
	if strings.TrimSpace(stem) == "" {
		return stochastic.Configurationf("empty file name in run configuration")
	}
	if filepath.Base(stem) != stem {
		return stochastic.Configurationf("file name %q must not contain a directory", stem)
	}
	return nil
}

// Options converts the entry into the options of a tabular perturber.
func (d DatFile) Options() (tabular.Options, error) {
	kind, err := distribution.ParseKind(d.Distribution)
	if err != nil {
		return tabular.Options{}, errors.Mark(errors.Wrapf(err, "parameter file %q", d.Filename), stochastic.ErrConfiguration)
	}
	policy, err := tabular.ParsePolicy(d.Correlation)
	if err != nil {
		return tabular.Options{}, errors.Wrapf(err, "parameter file %q", d.Filename)
	}
	opts := tabular.Options{
		Kind:           kind,
		Policy:         policy,
		BlocksPerGroup: d.BlocksPerGroup,
		RowsPerBlock:   d.RowsPerBlock,
		Bounds:         distribution.Unbounded(),
		SumToOne:       d.SumToOne,
	}
	if policy == tabular.BlockCorrelated && opts.BlocksPerGroup == 0 {
		opts.BlocksPerGroup = stochastic.DefaultBlocksPerGroup
	}
	if d.LowerBound != nil {
		opts.Bounds.Lower = *d.LowerBound
	}
	if d.UpperBound != nil {
		opts.Bounds.Upper = *d.UpperBound
	}
	if err := opts.Bounds.Check(); err != nil {
		return tabular.Options{}, errors.Mark(errors.Wrapf(err, "parameter file %q", d.Filename), stochastic.ErrConfiguration)
	}
	if opts.Policy.Correlated() && !opts.Kind.Correlatable() {
		return tabular.Options{}, stochastic.Configurationf("parameter file %q: distribution %v cannot be %v-correlated", d.Filename, opts.Kind, opts.Policy)
	}
	return opts, nil
}

// Layout returns the line layout of the varied data rows.
func (d DatFile) Layout() (format.Line, error) {
	spec := d.Format.NumFormat
	if spec == "" {
		spec = DefaultNumFormat
	}
	number, err := format.ParseNumber(spec)
	if err != nil {
		return format.Line{}, errors.Mark(errors.Wrapf(err, "parameter file %q", d.Filename), stochastic.ErrConfiguration)
	}
	if d.Format.LeadingSpaces < 0 || d.Format.MidSpaces < 0 {
		return format.Line{}, stochastic.Configurationf("parameter file %q: negative spacing", d.Filename)
	}
	return format.Line{
		LeadingSpaces: d.Format.LeadingSpaces,
		MidSpaces:     d.Format.MidSpaces,
		Number:        number,
	}, nil
}

// Labelled reports whether data rows start with a label; the default is
// true.
func (d DatFile) Labelled() bool {
	return d.HasLabel == nil || *d.HasLabel
}

// NewRunConfig creates a configuration varying the given files with the
// default settings: independent normal variation, unbounded.
func NewRunConfig(datFiles, inpFiles []string) *RunConfig {
	rc := &RunConfig{
		DefaultIterations: DefaultIterations,
		Model:             DefaultModel,
		DatFiles:          make([]DatFile, 0, len(datFiles)),
		InpFiles:          append([]string{}, inpFiles...),
	}
	for _, stem := range datFiles {
		rc.DatFiles = append(rc.DatFiles, DatFile{
			Filename:     stem,
			Correlation:  "none",
			Distribution: distribution.Normal.String(),
			Format: DatFormat{
				LeadingSpaces: DefaultLeadingSpaces,
				MidSpaces:     DefaultMidSpaces,
				NumFormat:     DefaultNumFormat,
			},
		})
	}
	return rc
}

// Save writes the configuration as indented JSON.
func (rc *RunConfig) Save(path string) error {
	return utils.WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rc)
	})
}
