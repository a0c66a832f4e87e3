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

package logger

import "github.com/sirupsen/logrus"

// Entry is a chainable builder for a single log line: Data/ErrorAdd append
// fields, Log emits the line at the level the Entry was created with.
type Entry struct {
	owner  *logger
	lvl    Level
	msg    string
	fields logrus.Fields
}

func (e *Entry) Data(key string, val interface{}) *Entry {
	e.fields[key] = val
	return e
}

func (e *Entry) ErrorAdd(err error) *Entry {
	if err != nil {
		e.fields["error"] = err.Error()
	}
	return e
}

func (e *Entry) Log() {
	if e.lvl == NilLevel {
		return
	}

	fe := e.owner.log.WithFields(e.fields)

	msg := e.msg
	if e.owner.tag != "" {
		msg = e.owner.col.Sprintf("[%s]", e.owner.tag) + " " + msg
	}

	switch e.lvl {
	case DebugLevel:
		fe.Debug(msg)
	case InfoLevel:
		fe.Info(msg)
	case WarnLevel:
		fe.Warn(msg)
	case ErrorLevel:
		fe.Error(msg)
	case FatalLevel:
		fe.Fatal(msg)
	case PanicLevel:
		fe.Panic(msg)
	}
}
