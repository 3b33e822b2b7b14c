package ports

// LogLevel is the minimum severity a logger prints.
type LogLevel int

const (
	// LevelDebug prints stage internals (container, seek and decode details).
	LevelDebug LogLevel = iota
	// LevelInfo prints orchestration progress.
	LevelInfo
	// LevelWarn prints problems that did not stop the extraction.
	LevelWarn
	// LevelError prints failures only.
	LevelError
	// LevelQuiet prints nothing.
	LevelQuiet
)

var levelNames = [...]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelQuiet: "quiet",
}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "unknown"
	}
	return levelNames[l]
}

// LookupLogLevel returns the level with the given name.
func LookupLogLevel(name string) (LogLevel, bool) {
	for l, n := range levelNames {
		if n == name {
			return LogLevel(l), true
		}
	}
	return LevelInfo, false
}

// ParseLogLevel is LookupLogLevel falling back to LevelInfo for unknown names.
func ParseLogLevel(name string) LogLevel {
	l, _ := LookupLogLevel(name)
	return l
}

// Logger receives printf-style message keys. Implementations may translate
// the key before formatting, so callers pass the key and its arguments
// separately instead of pre-formatting.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that tags messages with a component
	// name, such as a pipeline stage.
	WithComponent(component string) Logger
}
