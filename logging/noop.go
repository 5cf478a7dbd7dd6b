package logging

import "github.com/aregtech/areg-go/gen"

type noop struct {
	level gen.LogLevel
	name  string
}

// NewNoop returns a gen.Log that discards every line. Used as the default
// logger for components constructed without one (tests, library embedding)
// so nothing in servicemgr or router needs a nil check before logging.
func NewNoop() gen.Log {
	return &noop{level: gen.LogLevelDisabled}
}

func (n *noop) Level() gen.LogLevel            { return n.level }
func (n *noop) SetLevel(level gen.LogLevel)    { n.level = level }
func (n *noop) Logger() string                 { return n.name }
func (n *noop) SetLogger(name string)          { n.name = name }
func (n *noop) WithFields(...gen.LogField) gen.Log { return n }
func (n *noop) Trace(string, ...any)           {}
func (n *noop) Debug(string, ...any)           {}
func (n *noop) Info(string, ...any)            {}
func (n *noop) Warning(string, ...any)         {}
func (n *noop) Error(string, ...any)           {}
