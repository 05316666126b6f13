// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package log is the structured logger of the bencode command line tool.
// The library packages never log.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func NewLevel(l string) (Level, error) {
	switch strings.ToLower(l) {
	case LevelTrace.String():
		return LevelTrace, nil
	case LevelDebug.String():
		return LevelDebug, nil
	case LevelInfo.String():
		return LevelInfo, nil
	case LevelWarn.String(), "warning":
		return LevelWarn, nil
	case LevelError.String():
		return LevelError, nil
	case LevelFatal.String():
		return LevelFatal, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level '%s'", l)
	}
}

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		panic("invalid level")
	}
}

var currLevel = LevelInfo

var rootBackend = newBackend()

var rootLogger = &logrusLogger{
	backend: rootBackend,
}

func newBackend() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.TraceLevel)
	return l
}

// Logger takes a message followed by alternating keys and values:
//
//	lgr.Info("decoded", "file", name, "bytes", n)
type Logger interface {
	Trace(string, ...interface{})
	Debug(string, ...interface{})
	Info(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Fatal(string, ...interface{})
	Sub(...interface{}) Logger
}

// SetLevel sets the minimum level which is logged
func SetLevel(level Level) {
	currLevel = level
}

// SetOutput redirects log output (stderr by default)
func SetOutput(w io.Writer) {
	rootBackend.SetOutput(w)
}

// SetJSON switches between JSON and text output
func SetJSON(json bool) {
	if json {
		rootBackend.SetFormatter(&logrus.JSONFormatter{})
	} else {
		rootBackend.SetFormatter(&logrus.TextFormatter{})
	}
}

func WithModule(name string) Logger {
	return rootLogger.Sub("module", name)
}
