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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xsoniclabs/mcvary/config"
	"github.com/0xsoniclabs/mcvary/stochastic"
	"github.com/0xsoniclabs/mcvary/stochastic/recorder"
	"github.com/0xsoniclabs/mcvary/utils"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const effectSpec = `growth,1
Normal, MEAN, 0.05
treatment cost,2
g=cost, LogNormal, 6.9, 0.1, 0
100, 10
`

type workspace struct {
	modfile string
	inputs  string
	records string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	ws := &workspace{
		modfile: filepath.Join(dir, "modfile"),
		inputs:  filepath.Join(dir, "MC", "inputs"),
		records: filepath.Join(dir, "MC", "input_variation"),
	}
	writeFile(t, filepath.Join(ws.modfile, "rates.dat"), "# rates\n1  0.100  0.200\n2  0.300  0.400\n")
	writeFile(t, filepath.Join(ws.modfile, "rates_sd.dat"), "# rates\n1  0.010  0.020\n2  0.030  0.040\n")
	writeFile(t, filepath.Join(ws.modfile, "model.inp"), "  0.5   growth rate\n  1000  treatment cost\n")
	writeFile(t, filepath.Join(ws.inputs, config.EffectsName), effectSpec)
	return ws
}

func (ws *workspace) args(command string) *utils.ArgsBuilder {
	return utils.NewArgs("test").
		Arg(command).
		Flag(config.InputsDirFlag.Name, ws.inputs).
		Flag("log", "critical")
}

func (ws *workspace) varyArgs() *utils.ArgsBuilder {
	return ws.args(VaryCommand.Name).
		Flag(config.ModfileDirFlag.Name, ws.modfile).
		Flag(config.RecordDirFlag.Name, ws.records)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func newApp(out *bytes.Buffer) *cli.App {
	app := cli.NewApp()
	app.Commands = []*cli.Command{&VaryCommand, &EffectsCommand, &InitCommand}
	if out != nil {
		app.Writer = out
	}
	return app
}

func TestCommand_InitAndVary(t *testing.T) {
	ws := newWorkspace(t)
	app := newApp(nil)

	// given
	err := app.Run(ws.args(InitCommand.Name).
		Flag(config.DatFilesFlag.Name, []string{"rates"}).
		Flag(config.InpFilesFlag.Name, []string{"model"}).
		Build())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(ws.inputs, config.RunConfigName))

	// when
	vary := ws.varyArgs().
		Flag(config.RandomSeedFlag.Name, uint64(7)).
		Flag(config.IterationFlag.Name, uint64(3)).
		Flag(config.SaveFlag.Name, true).
		Build()
	require.NoError(t, app.Run(vary))
	dat := readFile(t, filepath.Join(ws.modfile, "rates_mc.dat"))
	inp := readFile(t, filepath.Join(ws.modfile, "model_mc.inp"))

	// then
	require.NoError(t, app.Run(vary))
	assert.Equal(t, dat, readFile(t, filepath.Join(ws.modfile, "rates_mc.dat")))
	assert.Equal(t, inp, readFile(t, filepath.Join(ws.modfile, "model_mc.inp")))
	assert.FileExists(t, recorder.TabularPath(ws.records, "rates"))
	assert.FileExists(t, recorder.EffectsPath(ws.records))
}

func TestCommand_VaryZeroRun(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, config.NewRunConfig([]string{"rates"}, []string{"model"}).Save(filepath.Join(ws.inputs, config.RunConfigName)))

	err := newApp(nil).Run(ws.varyArgs().Flag(config.ZeroRunFlag.Name, true).Build())
	require.NoError(t, err)
	assert.Equal(t, readFile(t, filepath.Join(ws.modfile, "rates.dat")), readFile(t, filepath.Join(ws.modfile, "rates_mc.dat")))
	assert.Equal(t, readFile(t, filepath.Join(ws.modfile, "model.inp")), readFile(t, filepath.Join(ws.modfile, "model_mc.inp")))
}

func TestCommand_VaryErrors(t *testing.T) {
	t.Run("missing run configuration", func(t *testing.T) {
		ws := newWorkspace(t)
		err := newApp(nil).Run(ws.varyArgs().Build())
		require.Error(t, err)
		assert.True(t, errors.Is(err, stochastic.ErrInput), err)
	})
	t.Run("archive without save", func(t *testing.T) {
		ws := newWorkspace(t)
		err := newApp(nil).Run(ws.varyArgs().Flag(config.ArchiveFlag.Name, true).Build())
		require.Error(t, err)
		assert.True(t, errors.Is(err, stochastic.ErrConfiguration), err)
	})
}

func TestCommand_InitRefusesOverwrite(t *testing.T) {
	ws := newWorkspace(t)
	path := filepath.Join(ws.inputs, config.RunConfigName)
	writeFile(t, path, "{}\n")
	app := newApp(nil)

	err := app.Run(ws.args(InitCommand.Name).Flag(config.DatFilesFlag.Name, []string{"rates"}).Build())
	require.Error(t, err)
	assert.True(t, errors.Is(err, stochastic.ErrConfiguration))
	assert.Equal(t, "{}\n", readFile(t, path))

	err = app.Run(ws.args(InitCommand.Name).
		Flag(config.DatFilesFlag.Name, []string{"rates"}).
		Flag(config.ForceFlag.Name, true).
		Build())
	require.NoError(t, err)
	run, err := config.LoadRunConfig(path)
	require.NoError(t, err)
	require.Len(t, run.DatFiles, 1)
	assert.Equal(t, "rates", run.DatFiles[0].Filename)
}

func TestCommand_InitWithoutFiles(t *testing.T) {
	ws := newWorkspace(t)
	err := newApp(nil).Run(ws.args(InitCommand.Name).Build())
	require.Error(t, err)
	assert.True(t, errors.Is(err, stochastic.ErrConfiguration))
	assert.NoFileExists(t, filepath.Join(ws.inputs, config.RunConfigName))
}

func TestCommand_InitUninspectableConfiguration(t *testing.T) {
	ws := newWorkspace(t)
	blocker := filepath.Join(ws.inputs, "blocker")
	writeFile(t, blocker, "")
	err := newApp(nil).Run(ws.args(InitCommand.Name).
		Flag(config.RunConfigFlag.Name, filepath.Join(blocker, config.RunConfigName)).
		Flag(config.DatFilesFlag.Name, []string{"rates"}).
		Flag(config.ForceFlag.Name, true).
		Build())
	require.Error(t, err)
	assert.True(t, errors.Is(err, stochastic.ErrInput), err)
}

func TestCommand_Effects(t *testing.T) {
	ws := newWorkspace(t)
	var out bytes.Buffer
	err := newApp(&out).Run(ws.args(EffectsCommand.Name).Build())
	require.NoError(t, err)

	listing := out.String()
	for _, want := range []string{"growth", "treatment cost", "MEAN", "LogNormal", "cost", "[0, +Inf]"} {
		assert.Contains(t, listing, want)
	}
}

func TestCommand_EffectsMissingFile(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, os.Remove(filepath.Join(ws.inputs, config.EffectsName)))
	err := newApp(nil).Run(ws.args(EffectsCommand.Name).Build())
	require.Error(t, err)
	assert.True(t, errors.Is(err, stochastic.ErrInput))
}
