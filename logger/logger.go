/*
MIT License

Copyright (c) 2019 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package logger wraps logrus with the subsystem-tagged, chainable Entry
// style used across this module's CLI output: every line printed through a
// Logger obtained from WithSubsystem is stamped with a colored "[subsystem]"
// prefix naming the side of the protocol that produced it; a Logger with no
// subsystem prints no prefix.
package logger

import (
	"context"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

// Logger is a subsystem-scoped, chainable entry-point for structured
// logging. WithSubsystem returns a child Logger stamping every Entry it
// creates with the given tag, colored per subsystem so interleaved
// uploader/receiver output stays readable on a terminal.
type Logger interface {
	SetLevel(lvl Level)
	GetLevel() Level
	SetOutput(w io.Writer)

	WithSubsystem(tag string) Logger

	Entry(lvl Level, msg string) *Entry

	// CheckError logs msg at lvlError with err attached when err is not
	// nil, or at lvlSuccess otherwise. A convenience for the common
	// "do X, log the outcome" call sites in the CLI wiring.
	CheckError(lvlError, lvlSuccess Level, msg string, err error)
}

type logger struct {
	mu  sync.Mutex
	ctx context.Context
	log *logrus.Logger
	tag string
	col *color.Color
}

// New returns a root Logger at InfoLevel, writing to stderr through
// go-colorable so ANSI tags render correctly on Windows consoles too.
func New(ctx context.Context) Logger {
	l := logrus.New()
	l.SetOutput(colorable.NewColorableStderr())
	l.SetLevel(InfoLevel.Logrus())
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return &logger{
		ctx: ctx,
		log: l,
	}
}

func (l *logger) SetLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.SetLevel(lvl.Logrus())
}

func (l *logger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.log.GetLevel() {
	case logrus.DebugLevel:
		return DebugLevel
	case logrus.InfoLevel:
		return InfoLevel
	case logrus.WarnLevel:
		return WarnLevel
	case logrus.ErrorLevel:
		return ErrorLevel
	case logrus.FatalLevel:
		return FatalLevel
	case logrus.PanicLevel:
		return PanicLevel
	default:
		return NilLevel
	}
}

func (l *logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.SetOutput(w)
}

// subsystemColor picks a stable color per tag name so the same subsystem is
// always rendered the same way within one process.
func subsystemColor(tag string) *color.Color {
	switch tag {
	case "upload-index":
		return color.New(color.FgCyan)
	case "receive-index":
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgYellow)
	}
}

func (l *logger) WithSubsystem(tag string) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &logger{
		ctx: l.ctx,
		log: l.log,
		tag: tag,
		col: subsystemColor(tag),
	}
}

func (l *logger) Entry(lvl Level, msg string) *Entry {
	return &Entry{
		owner:  l,
		lvl:    lvl,
		msg:    msg,
		fields: logrus.Fields{},
	}
}

func (l *logger) CheckError(lvlError, lvlSuccess Level, msg string, err error) {
	if err != nil {
		l.Entry(lvlError, msg).ErrorAdd(err).Log()
	} else {
		l.Entry(lvlSuccess, msg).Log()
	}
}

var _ Logger = (*logger)(nil)
