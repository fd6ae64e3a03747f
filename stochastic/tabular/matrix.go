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

package tabular

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/0xsoniclabs/mcvary/stochastic"
)

// Row is one line of a parameter file. Non-data rows keep only their text.
type Row struct {
	Line   string    // line as read, without the line break
	Data   bool      // whether the row carries numeric fields
	Label  string    // leading label token of a data row, if any
	Values []float64 // numeric fields of a data row
}

// Matrix is a parsed parameter file.
type Matrix struct {
	Rows []Row
}

// IsDataRow reports whether a line holds parameters, that is whether its
// first token begins with a decimal digit.
func IsDataRow(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	c := fields[0][0]
	return c >= '0' && c <= '9'
}

// ParseMatrix parses the lines of a parameter file. If hasLabel is set the
// first token of every data row is kept as its label instead of a value.
func ParseMatrix(lines []string, hasLabel bool) (*Matrix, error) {
	m := &Matrix{Rows: make([]Row, 0, len(lines))}
	for i, line := range lines {
		row := Row{Line: line}
		if IsDataRow(line) {
			fields := strings.Fields(line)
			if hasLabel {
				row.Label, fields = fields[0], fields[1:]
			}
			row.Data = true
			row.Values = make([]float64, len(fields))
			for j, field := range fields {
				v, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return nil, stochastic.Layoutf("line %d: field %d %q is not a number", i+1, j+1, field)
				}
				row.Values[j] = v
			}
		}
		m.Rows = append(m.Rows, row)
	}
	return m, nil
}

// ReadMatrix reads and parses a parameter file.
func ReadMatrix(r io.Reader, hasLabel bool) (*Matrix, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return ParseMatrix(lines, hasLabel)
}

// ReadLines splits r into lines without their line breaks. A final line
// break does not start an extra empty line.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, stochastic.WrapInput(err, "cannot read lines")
	}
	return lines, nil
}

// DataRows returns the number of data rows.
func (m *Matrix) DataRows() int {
	n := 0
	for _, row := range m.Rows {
		if row.Data {
			n++
		}
	}
	return n
}

// Columns returns the largest number of values in a data row.
func (m *Matrix) Columns() int {
	n := 0
	for _, row := range m.Rows {
		n = max(n, len(row.Values))
	}
	return n
}

// CheckShape verifies that a mean and a deviation matrix have data rows at
// the same positions and the same number of values in every data row.
func CheckShape(means, sds *Matrix) error {
	if len(means.Rows) != len(sds.Rows) {
		return stochastic.Layoutf("mean file has %d lines, deviation file has %d", len(means.Rows), len(sds.Rows))
	}
	for i := range means.Rows {
		mr, sr := means.Rows[i], sds.Rows[i]
		if mr.Data != sr.Data {
			return stochastic.Layoutf("line %d is a data row in only one of mean and deviation file", i+1)
		}
		if len(mr.Values) != len(sr.Values) {
			return stochastic.Layoutf("line %d has %d means but %d deviations", i+1, len(mr.Values), len(sr.Values))
		}
	}
	return nil
}
