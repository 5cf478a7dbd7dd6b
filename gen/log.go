package gen

// LogLevel controls the verbosity of a Log. Levels are ordered from most to
// least verbose, matching the Trace/Debug/Info/Warning/Error progression used
// throughout the service manager and router client.
type LogLevel int

const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarning
	LogLevelError
	LogLevelDisabled
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelTrace:
		return "trace"
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarning:
		return "warning"
	case LogLevelError:
		return "error"
	case LogLevelDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// LogField is a single structured key/value attached to a log line.
type LogField struct {
	Name  string
	Value any
}

// Log is the logging contract every component in this module depends on.
// It is implemented by package logging on top of logrus; nothing outside
// package logging imports logrus directly.
type Log interface {
	Level() LogLevel
	SetLevel(level LogLevel)

	Logger() string
	SetLogger(name string)

	WithFields(fields ...LogField) Log

	Trace(format string, args ...any)
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
}
