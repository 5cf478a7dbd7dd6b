// Package logging implements gen.Log on top of logrus. The rest of this
// module only ever sees the gen.Log interface; logrus stays an
// implementation detail confined to this package.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/aregtech/areg-go/gen"
)

type logger struct {
	entry *logrus.Entry
	level gen.LogLevel
	name  string
}

// New returns a gen.Log backed by a freshly configured logrus.Logger,
// writing text-formatted lines with millisecond timestamps to w (os.Stderr
// if w is nil). name identifies the component in every line, e.g.
// "servicemgr" or "router".
func New(name string, w *os.File) gen.Log {
	l := logrus.New()
	if w != nil {
		l.SetOutput(w)
	}
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	l.SetLevel(logrus.TraceLevel)
	return &logger{
		entry: l.WithField("component", name),
		level: gen.LogLevelTrace,
		name:  name,
	}
}

func toLogrusLevel(l gen.LogLevel) logrus.Level {
	switch l {
	case gen.LogLevelTrace:
		return logrus.TraceLevel
	case gen.LogLevelDebug:
		return logrus.DebugLevel
	case gen.LogLevelInfo:
		return logrus.InfoLevel
	case gen.LogLevelWarning:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

func (g *logger) Level() gen.LogLevel { return g.level }

func (g *logger) SetLevel(level gen.LogLevel) {
	g.level = level
	g.entry.Logger.SetLevel(toLogrusLevel(level))
}

func (g *logger) Logger() string { return g.name }

func (g *logger) SetLogger(name string) {
	g.name = name
	g.entry = g.entry.Logger.WithField("component", name)
}

func (g *logger) WithFields(fields ...gen.LogField) gen.Log {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Name] = f.Value
	}
	return &logger{entry: g.entry.WithFields(data), level: g.level, name: g.name}
}

func (g *logger) enabled(level gen.LogLevel) bool {
	return level >= g.level && g.level != gen.LogLevelDisabled
}

func (g *logger) Trace(format string, args ...any) {
	if g.enabled(gen.LogLevelTrace) {
		g.entry.Tracef(format, args...)
	}
}

func (g *logger) Debug(format string, args ...any) {
	if g.enabled(gen.LogLevelDebug) {
		g.entry.Debugf(format, args...)
	}
}

func (g *logger) Info(format string, args ...any) {
	if g.enabled(gen.LogLevelInfo) {
		g.entry.Infof(format, args...)
	}
}

func (g *logger) Warning(format string, args ...any) {
	if g.enabled(gen.LogLevelWarning) {
		g.entry.Warnf(format, args...)
	}
}

func (g *logger) Error(format string, args ...any) {
	if g.enabled(gen.LogLevelError) {
		g.entry.Errorf(format, args...)
	}
}
