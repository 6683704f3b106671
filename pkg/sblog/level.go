/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package sblog gives the driver the same Level.Log/Logf call-site idiom
// the teacher's logger package exposes, backed directly by logrus rather
// than the teacher's full hook/syslog/gorm-aware logger - this module has
// one sink (stderr, structured) and no need for the teacher's config
// surface.
package sblog

import (
	"github.com/sirupsen/logrus"
)

// Level mirrors the teacher's DebugLevel/InfoLevel/WarnLevel/ErrorLevel
// call-site values, each usable as Level.Log(...)/Level.Logf(...).
type Level uint32

const (
	DebugLevel Level = Level(logrus.DebugLevel)
	InfoLevel  Level = Level(logrus.InfoLevel)
	WarnLevel  Level = Level(logrus.WarnLevel)
	ErrorLevel Level = Level(logrus.ErrorLevel)
)

var std = logrus.New()

// SetOutput lets cmd/sparsebundle-sync point the sink somewhere other
// than the logrus default (stderr).
func SetOutput(w interface{ Write([]byte) (int, error) }) {
	std.SetOutput(w)
}

// SetLevel sets the minimum level that reaches the sink.
func SetLevel(l Level) {
	std.SetLevel(logrus.Level(l))
}

// Fields is a shorthand for structured key/value pairs attached to a
// single log line.
type Fields map[string]interface{}

// Log writes msg at level l with no structured fields.
func (l Level) Log(msg string) {
	std.WithFields(logrus.Fields{}).Log(logrus.Level(l), msg)
}

// Logf writes a formatted message at level l.
func (l Level) Logf(format string, args ...interface{}) {
	std.Logf(logrus.Level(l), format, args...)
}

// LogFields writes msg at level l with the given structured fields
// attached, for the call sites that want a package/key/remote-key triple
// rather than a pre-formatted string.
func (l Level) LogFields(msg string, fields Fields) {
	std.WithFields(logrus.Fields(fields)).Log(logrus.Level(l), msg)
}
