package core

// Logger is any leveled logger service.
// args may carry extra context; implementations may special-case known types
// (eg. the logged-in user) for error reporting.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
