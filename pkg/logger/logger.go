package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var (
	currentLevel = INFO
	base         = logrus.New()
)

func init() {
	base.SetOutput(os.Stdout)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	base.SetLevel(toLogrus(currentLevel))
}

func toLogrus(level LogLevel) logrus.Level {
	switch level {
	case DEBUG:
		return logrus.DebugLevel
	case WARN:
		return logrus.WarnLevel
	case ERROR:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Init reads LOG_LEVEL; INFO when unset.
func Init() {
	SetLogLevelFromString(os.Getenv("LOG_LEVEL"))
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	currentLevel = level
	base.SetLevel(toLogrus(level))
}

// SetLogLevelFromString sets the global log level from a string
func SetLogLevelFromString(levelStr string) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		SetLogLevel(DEBUG)
	case "INFO":
		SetLogLevel(INFO)
	case "WARN", "WARNING":
		SetLogLevel(WARN)
	case "ERROR":
		SetLogLevel(ERROR)
	default:
		SetLogLevel(INFO)
	}
}

// GetLogLevel returns the current log level
func GetLogLevel() LogLevel {
	return currentLevel
}

func IsDebugEnabled() bool { return base.IsLevelEnabled(logrus.DebugLevel) }
func IsInfoEnabled() bool  { return base.IsLevelEnabled(logrus.InfoLevel) }
func IsWarnEnabled() bool  { return base.IsLevelEnabled(logrus.WarnLevel) }
func IsErrorEnabled() bool { return base.IsLevelEnabled(logrus.ErrorLevel) }

// SetOutput redirects every level to w.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// SetJSONFormat switches between logrus JSON and text formatters.
func SetJSONFormat(enabled bool) {
	if enabled {
		base.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// SetReportCaller toggles the caller field on every entry.
func SetReportCaller(enabled bool) {
	base.SetReportCaller(enabled)
}

// WithFields returns a structured entry bound to the global logger.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return base.WithFields(fields)
}

// Logrus exposes the underlying logger for libraries that accept one (resty).
func Logrus() *logrus.Logger {
	return base
}

// Debug logs a debug message if debug level is enabled
func Debug(format string, v ...interface{}) {
	base.Debugf(format, v...)
}

// Info logs an info message if info level is enabled
func Info(format string, v ...interface{}) {
	base.Infof(format, v...)
}

// Warn logs a warning message if warn level is enabled
func Warn(format string, v ...interface{}) {
	base.Warnf(format, v...)
}

// Error logs an error message if error level is enabled
func Error(format string, v ...interface{}) {
	base.Errorf(format, v...)
}

// Debugf is an alias for Debug for consistency
func Debugf(format string, v ...interface{}) {
	Debug(format, v...)
}

// Infof is an alias for Info for consistency
func Infof(format string, v ...interface{}) {
	Info(format, v...)
}

// Warnf is an alias for Warn for consistency
func Warnf(format string, v ...interface{}) {
	Warn(format, v...)
}

// Errorf is an alias for Error for consistency
func Errorf(format string, v ...interface{}) {
	Error(format, v...)
}
