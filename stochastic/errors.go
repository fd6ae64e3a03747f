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

import "github.com/cockroachdb/errors"

// Error classes of a run. Errors raised by the engine are marked with exactly
// one of them so callers can tell a broken configuration from broken data
// using errors.Is.
var (
	// ErrConfiguration marks an invalid run configuration, an unknown
	// distribution or correlation policy, a malformed effect specification or
	// an input line matching more than one effect key.
	ErrConfiguration = errors.New("configuration error")
	// ErrInput marks a missing or unreadable input file.
	ErrInput = errors.New("input error")
	// ErrLayout marks data whose shape does not fit: mean and deviation
	// files of different shape, malformed numbers in a data row, or a line
	// matching an effect key without a numeric leading value.
	ErrLayout = errors.New("layout error")
)

// Configurationf creates an error marked as ErrConfiguration.
func Configurationf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrConfiguration)
}

// Layoutf creates an error marked as ErrLayout.
func Layoutf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrLayout)
}

// WrapInput wraps err with a message and marks it as ErrInput.
func WrapInput(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrInput)
}
