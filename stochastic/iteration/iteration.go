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

// Package iteration runs one Monte Carlo iteration: it varies every
// configured parameter file, substitutes the composed effects into the
// input files and appends the records. Nothing is written before all
// outputs are computed, and records only follow complete outputs.
package iteration

import (
	"io"
	"os"
	"time"

	"github.com/0xsoniclabs/mcvary/config"
	"github.com/0xsoniclabs/mcvary/logger"
	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/0xsoniclabs/mcvary/stochastic/effects"
	"github.com/0xsoniclabs/mcvary/stochastic/format"
	"github.com/0xsoniclabs/mcvary/stochastic/recorder"
	"github.com/0xsoniclabs/mcvary/stochastic/rng"
	"github.com/0xsoniclabs/mcvary/stochastic/tabular"
	"github.com/0xsoniclabs/mcvary/utils"
	"github.com/cockroachdb/errors"
)

// output is a varied file waiting to be written.
type output struct {
	path  string
	lines []string
}

// Summary describes a completed iteration.
type Summary struct {
	Outputs []string // written files
	Samples int      // sampled tabular values
	Effects int      // composed effects
}

// Iteration holds the state of one iteration.
type Iteration struct {
	cfg      *config.Config
	run      *config.RunConfig
	stream   *rng.Stream
	log      logger.Logger
	recorder *recorder.Recorder
	outputs  []output
	summary  Summary
}

// New prepares an iteration. Without a seed the stream is drawn from the
// operating system and the iteration cannot be reproduced.
func New(cfg *config.Config, run *config.RunConfig, log logger.Logger) (*Iteration, error) {
	var stream *rng.Stream
	if cfg.Seeded {
		stream = rng.New(cfg.RandomSeed, cfg.Iteration)
	} else {
		var err error
		if stream, err = rng.NewUnseeded(); err != nil {
			return nil, err
		}
		log.Warning("No random seed given, the iteration cannot be reproduced")
	}
	it := &Iteration{cfg: cfg, run: run, stream: stream, log: log}
	if cfg.Save {
		recordDb := cfg.RecordDb
		if cfg.ZeroRun {
			recordDb = ""
		}
		it.recorder = recorder.New(cfg.RecordDir, cfg.Iteration, recordDb, log)
	}
	return it, nil
}

// Run performs the iteration described by cfg and run.
func Run(cfg *config.Config, run *config.RunConfig, log logger.Logger) (*Summary, error) {
	it, err := New(cfg, run, log)
	if err != nil {
		return nil, err
	}
	return it.Run()
}

// Run computes all outputs, writes them and appends the records.
func (it *Iteration) Run() (*Summary, error) {
	start := time.Now()
	if it.cfg.ZeroRun {
		it.log.Notice("Zero run, passing inputs through without variation")
	}
	for _, dat := range it.run.DatFiles {
		if err := it.varyDat(dat); err != nil {
			return nil, err
		}
	}
	if len(it.run.InpFiles) > 0 {
		if err := it.varyInp(); err != nil {
			return nil, err
		}
	}
	if err := it.write(); err != nil {
		return nil, err
	}
	if it.recorder != nil {
		if err := it.recorder.Flush(); err != nil {
			return nil, errors.Wrap(err, "cannot append records")
		}
	}
	hours, minutes, seconds := logger.ParseTime(time.Since(start))
	it.log.Noticef("Iteration %d complete; wrote %d files in %vh %vm %vs", it.cfg.Iteration, len(it.summary.Outputs), hours, minutes, seconds)
	return &it.summary, nil
}

func (it *Iteration) varyDat(dat config.DatFile) error {
	opts, err := dat.Options()
	if err != nil {
		return err
	}
	layout, err := dat.Layout()
	if err != nil {
		return err
	}
	meanPath := it.cfg.DatPath(dat.Filename, "")
	means, err := readMatrix(meanPath, dat.Labelled())
	if err != nil {
		return err
	}
	target := it.cfg.DatPath(dat.Filename, stochastic.VariedSuffix)
	if it.cfg.ZeroRun {
		it.emit(target, baseline(means))
		return nil
	}

	sds, err := readMatrix(it.cfg.DatPath(dat.Filename, stochastic.SdSuffix), dat.Labelled())
	if err != nil {
		return err
	}
	p, err := tabular.NewPerturber(it.stream, means, sds, opts)
	if err != nil {
		return errors.Wrapf(err, "cannot vary %v", meanPath)
	}
	res, err := p.Vary()
	if err != nil {
		return errors.Wrapf(err, "cannot vary %v", meanPath)
	}
	varied := res.Lines(layout)
	it.emit(target, varied)
	it.summary.Samples += len(res.Samples)
	it.log.Debugf("Varied %d values in %d rows of %v, %v distribution, %v correlation", len(res.Samples), means.DataRows(), dat.Filename, opts.Kind, opts.Policy)

	if it.recorder != nil {
		it.recorder.Tabular(dat.Filename, res.Rows)
		if it.cfg.Archive {
			it.recorder.Archive(dat.Filename, varied)
		}
	}
	return nil
}

func (it *Iteration) varyInp() error {
	set, err := utils.ReadFile(it.cfg.EffectsFile, effects.Parse)
	if errors.Is(err, os.ErrNotExist) {
		return stochastic.WrapInput(err, "could not find effect specification")
	}
	if err != nil {
		return err
	}
	it.log.Infof("Read %d effects from %v", len(set.Specs), it.cfg.EffectsFile)

	var values effects.Values
	if !it.cfg.ZeroRun {
		if values, err = effects.NewComposer(set).Compose(it.stream); err != nil {
			return err
		}
		it.summary.Effects = len(values)
	}
	number := format.MustParseNumber(stochastic.DefaultEffectFormat)
	for _, stem := range it.run.InpFiles {
		path := it.cfg.InpPath(stem, "")
		lines, err := readLines(path)
		if err != nil {
			return err
		}
		if !it.cfg.ZeroRun {
			if lines, err = values.Apply(lines, number); err != nil {
				return errors.Wrapf(err, "cannot vary %v", path)
			}
		}
		it.emit(it.cfg.InpPath(stem, stochastic.VariedSuffix), lines)
	}

	if it.recorder != nil {
		if it.cfg.ZeroRun {
			it.recorder.EffectLabels(set.Keys())
		} else {
			it.recorder.Effects(set.Keys(), values.Numbers())
		}
	}
	return nil
}

func (it *Iteration) emit(path string, lines []string) {
	it.outputs = append(it.outputs, output{path: path, lines: lines})
}

// write replaces all outputs. If one of them cannot be written, those
// already written are removed again.
func (it *Iteration) write() error {
	for i, out := range it.outputs {
		if err := utils.WriteLinesAtomic(out.path, out.lines); err != nil {
			for _, written := range it.outputs[:i] {
				if e := os.Remove(written.path); e != nil {
					err = errors.Join(err, e)
				}
			}
			it.summary.Outputs = nil
			return errors.Wrapf(err, "cannot write %v", out.path)
		}
		it.summary.Outputs = append(it.summary.Outputs, out.path)
		it.log.Debugf("Wrote %v", out.path)
	}
	return nil
}

func readLines(path string) ([]string, error) {
	lines, err := utils.ReadFile(path, tabular.ReadLines)
	if errors.Is(err, os.ErrNotExist) {
		return nil, stochastic.WrapInput(err, "cannot find file")
	}
	return lines, err
}

func readMatrix(path string, hasLabel bool) (*tabular.Matrix, error) {
	m, err := utils.ReadFile(path, func(r io.Reader) (*tabular.Matrix, error) {
		return tabular.ReadMatrix(r, hasLabel)
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, stochastic.WrapInput(err, "cannot find file")
	}
	return m, err
}

// baseline returns the unvaried lines of a matrix.
func baseline(m *tabular.Matrix) []string {
	res := make([]string, len(m.Rows))
	for i, row := range m.Rows {
		res[i] = row.Line
	}
	return res
}
