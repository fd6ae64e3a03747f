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

package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"
)

const defaultLogFormat = "%{time:2006-01-02T15:04:05.000} %{module} %{level:.4s}: %{message}"

// LogLevelFlag sets the verbosity of all loggers created by NewLogger.
var LogLevelFlag = cli.StringFlag{
	Name:    "log",
	Aliases: []string{"l"},
	Usage:   "Level of the logging of the app action (\"critical\", \"error\", \"warning\", \"notice\", \"info\", \"debug\"; default: INFO)",
	Value:   "info",
}

//go:generate mockgen -source logger.go -destination logger_mock.go -package logger

// Logger is the subset of the go-logging logger used by mcvary.
type Logger interface {
	Critical(args ...any)
	Criticalf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Warning(args ...any)
	Warningf(format string, args ...any)
	Notice(args ...any)
	Noticef(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Debug(args ...any)
	Debugf(format string, args ...any)
	IsEnabledFor(level logging.Level) bool
}

// NewLogger creates a logger for the given module writing to stderr. Stdout is
// left to the varied files a caller may pipe elsewhere. An unknown level falls
// back to INFO.
func NewLogger(level string, module string) Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(defaultLogFormat))
	leveled := logging.AddModuleLevel(formatted)

	logLevel, err := logging.LogLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unknown log level %q, using INFO\n", level)
		logLevel = logging.INFO
	}
	leveled.SetLevel(logLevel, module)

	log := logging.MustGetLogger(module)
	log.SetBackend(leveled)
	return log
}

// ParseTime splits an elapsed duration into hours, minutes and seconds.
func ParseTime(elapsed time.Duration) (uint32, uint32, uint32) {
	var (
		hours, minutes uint32
		seconds        = uint32(elapsed.Round(time.Second).Seconds())
	)
	if seconds >= 60 {
		minutes = seconds / 60
		seconds = seconds % 60
		if minutes >= 60 {
			hours = minutes / 60
			minutes = minutes % 60
		}
	}
	return hours, minutes, seconds
}
