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

// Package recorder appends the diagnostic records of an iteration: the
// sampled values of every parameter file and the composed effects. Records
// are only collected while the iteration runs and written by Flush.
package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/0xsoniclabs/mcvary/logger"
	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/0xsoniclabs/mcvary/utils"
	"github.com/cockroachdb/errors"
)

const (
	createTabular = `CREATE TABLE IF NOT EXISTS tabular_samples (
		iteration INTEGER NOT NULL,
		file TEXT NOT NULL,
		line INTEGER NOT NULL,
		field INTEGER NOT NULL,
		value REAL NOT NULL
	)`
	insertTabular = "INSERT INTO tabular_samples (iteration, file, line, field, value) VALUES (?, ?, ?, ?, ?)"

	createEffects = `CREATE TABLE IF NOT EXISTS effect_samples (
		iteration INTEGER NOT NULL,
		key TEXT NOT NULL,
		value REAL NOT NULL
	)`
	insertEffects = "INSERT INTO effect_samples (iteration, key, value) VALUES (?, ?, ?)"
)

// Recorder collects the records of one iteration.
type Recorder struct {
	dir       string
	iteration uint64
	dbPath    string
	printers  *utils.Printers
	log       logger.Logger

	tabular [][]any // rows of tabular_samples
	effects [][]any // rows of effect_samples
}

// New creates a recorder writing text records below dir. If dbPath is not
// empty the samples are inserted into that SQLite database as well.
func New(dir string, iteration uint64, dbPath string, log logger.Logger) *Recorder {
	return &Recorder{
		dir:       dir,
		iteration: iteration,
		dbPath:    dbPath,
		printers:  utils.NewPrinters(),
		log:       log,
	}
}

// TabularPath returns the record of the sampled values of a parameter file.
func TabularPath(dir, stem string) string {
	return filepath.Join(dir, stochastic.DatRecordDir, stem+".txt")
}

// EffectsPath returns the record of the composed effects.
func EffectsPath(dir string) string {
	return filepath.Join(dir, stochastic.EffectsRecordName)
}

// ArchivePath returns the compressed copy of a varied parameter file.
func ArchivePath(dir, stem string, iteration uint64) string {
	return filepath.Join(dir, stochastic.DatRecordDir, fmt.Sprintf("%s_%d%s.gz", stem, iteration, stochastic.DatExt))
}

// Tabular records the varied values of a parameter file. rows is indexed by
// line; non-data lines are nil.
func (r *Recorder) Tabular(stem string, rows [][]float64) {
	var samples []float64
	for i, row := range rows {
		for j, v := range row {
			r.tabular = append(r.tabular, []any{r.iteration, stem, i + 1, j + 1, v})
		}
		samples = append(samples, row...)
	}
	line := Line(strconv.FormatUint(r.iteration, 10), samples)
	r.printers.AddPrinterToFile(TabularPath(r.dir, stem), func() string { return line })
	r.log.Debugf("Recording %d samples of %v", len(samples), stem)
}

// EffectLabels records the header row naming the effect keys.
func (r *Recorder) EffectLabels(keys []string) {
	fields := make([]string, 0, len(keys)+1)
	fields = append(fields, stochastic.IterationLabel)
	fields = append(fields, keys...)
	line := Labels(fields)
	r.printers.AddPrinterToFile(EffectsPath(r.dir), func() string { return line })
}

// Effects records the composed effect values, in the order of their keys.
func (r *Recorder) Effects(keys []string, values []float64) {
	for i, key := range keys {
		r.effects = append(r.effects, []any{r.iteration, key, values[i]})
	}
	line := Line(strconv.FormatUint(r.iteration, 10), values)
	r.printers.AddPrinterToFile(EffectsPath(r.dir), func() string { return line })
	r.log.Debugf("Recording %d effects", len(values))
}

// Archive keeps a compressed copy of a varied parameter file.
func (r *Recorder) Archive(stem string, lines []string) {
	content := strings.Join(lines, "\n") + "\n"
	r.printers.AddPrinterToGzip(ArchivePath(r.dir, stem, r.iteration), func() string { return content })
}

// Flush writes all collected records and releases the database.
func (r *Recorder) Flush() error {
	if r.dbPath != "" && (len(r.tabular) > 0 || len(r.effects) > 0) {
		if err := os.MkdirAll(filepath.Dir(r.dbPath), 0755); err != nil {
			return errors.Wrapf(err, "cannot create directory of %v", r.dbPath)
		}
		if _, err := r.printers.AddPrinterToSqlite3(r.dbPath, createTabular, insertTabular, func() [][]any { return r.tabular }); err != nil {
			return errors.Wrapf(err, "cannot open record database %v", r.dbPath)
		}
		if _, err := r.printers.AddPrinterToSqlite3(r.dbPath, createEffects, insertEffects, func() [][]any { return r.effects }); err != nil {
			return errors.Join(errors.Wrapf(err, "cannot open record database %v", r.dbPath), r.printers.Close())
		}
	}
	r.log.Infof("Writing %d records to %v", r.printers.Len(), r.dir)
	err := r.printers.Print()
	return errors.Join(err, r.printers.Close())
}

// Line renders a record row: a leading field followed by the values.
func Line(first string, values []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, stochastic.RecordLabelFormat+stochastic.RecordSeparator, first)
	for _, v := range values {
		fmt.Fprintf(&b, stochastic.RecordFormat+stochastic.RecordSeparator, v)
	}
	b.WriteString("\n")
	return b.String()
}

// Labels renders a header row of record fields.
func Labels(fields []string) string {
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, stochastic.RecordLabelFormat+stochastic.RecordSeparator, f)
	}
	b.WriteString("\n")
	return b.String()
}
