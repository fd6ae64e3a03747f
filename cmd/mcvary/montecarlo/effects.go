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
	"strconv"
	"strings"

	"github.com/0xsoniclabs/mcvary/config"
	"github.com/0xsoniclabs/mcvary/logger"
	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/0xsoniclabs/mcvary/stochastic/effects"
	"github.com/0xsoniclabs/mcvary/stochastic/statistics/distribution"
	"github.com/0xsoniclabs/mcvary/utils"
	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

// EffectsCommand data structure for the effects app.
var EffectsCommand = cli.Command{
	Action: effectsAction,
	Name:   "effects",
	Usage:  "validate the effect specification and list its effects",
	Flags: []cli.Flag{
		&logger.LogLevelFlag,
		&config.InputsDirFlag,
		&config.EffectsFileFlag,
	},
}

func effectsAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Effects")
	set, err := utils.ReadFile(cfg.EffectsFile, effects.Parse)
	if errors.Is(err, os.ErrNotExist) {
		return stochastic.WrapInput(err, "could not find effect specification")
	}
	if err != nil {
		return err
	}
	log.Infof("%v: %d effects, %d groups", cfg.EffectsFile, len(set.Specs), len(set.Groups()))
	printers := utils.NewPrinters().AddPrinterToWriter(ctx.App.Writer, func() string { return renderEffects(set) })
	return errors.Join(printers.Print(), printers.Close())
}

// renderEffects returns a table with one row per component of every effect.
func renderEffects(set *effects.Set) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Key", "#", "Distribution", "P1", "P2", "Group", "Bounds"})
	for _, spec := range set.Specs {
		for i, c := range spec.Components {
			p1 := formatFloat(c.P1)
			if c.MeanDependent {
				p1 = effects.MeanPlaceholder
			}
			t.AppendRow(table.Row{spec.Key, i + 1, c.Kind, p1, formatFloat(c.P2), c.Group, formatBounds(c.Bounds)})
		}
		t.AppendSeparator()
	}
	return t.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBounds(b distribution.Bounds) string {
	if b == distribution.Unbounded() {
		return ""
	}
	var s strings.Builder
	s.WriteString("[")
	s.WriteString(formatFloat(b.Lower))
	s.WriteString(", ")
	s.WriteString(formatFloat(b.Upper))
	s.WriteString("]")
	return s.String()
}
