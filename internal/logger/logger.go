// Package logger implements the compiler's dual console/file logger: INFO and above reach the
// console (DEBUG too under -v/--verbose), while the log file always gets everything.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"csvpp/internal/a1"
)

// Level is a log message's severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String renders a Level as its log-line tag.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes every message to a log file and, when it clears minLevel, to the console too.
type Logger struct {
	consoleLogger *log.Logger
	fileLogger    *log.Logger
	logFile       *os.File
	verbose       bool
	minLevel      Level
}

var global *Logger

// Init opens logFilePath (creating its directory if needed) and installs it as the package's
// global logger. consoleOutput receives INFO and above (DEBUG too when verbose is set); the
// file always receives every level.
func Init(consoleOutput io.Writer, logFilePath string, verbose bool) error {
	if dir := filepath.Dir(logFilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	minLevel := LevelInfo
	if verbose {
		minLevel = LevelDebug
	}

	global = &Logger{
		consoleLogger: log.New(consoleOutput, "", 0),
		fileLogger:    log.New(logFile, "", log.LstdFlags),
		logFile:       logFile,
		verbose:       verbose,
		minLevel:      minLevel,
	}
	return nil
}

// Close closes the current log file, if one is open.
func Close() {
	if global != nil && global.logFile != nil {
		global.logFile.Close()
	}
}

// Debug logs a file-only message, promoted to the console under -v/--verbose.
func Debug(format string, args ...interface{}) { logMessage(LevelDebug, format, args...) }

// Info logs a console+file message.
func Info(format string, args ...interface{}) { logMessage(LevelInfo, format, args...) }

// Warn logs a console+file warning.
func Warn(format string, args ...interface{}) { logMessage(LevelWarn, format, args...) }

// Error logs a console+file error.
func Error(format string, args ...interface{}) { logMessage(LevelError, format, args...) }

func logMessage(level Level, format string, args ...interface{}) {
	if global == nil {
		prefix := ""
		if level >= LevelWarn {
			prefix = level.String() + ": "
		}
		fmt.Printf(prefix+format+"\n", args...)
		return
	}
	global.log(level, format, args...)
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	l.fileLogger.Printf("[%s] %s", level.String(), message)

	if level < l.minLevel {
		return
	}
	switch level {
	case LevelDebug:
		if l.verbose {
			l.consoleLogger.Printf("[DEBUG] %s", message)
		}
	case LevelInfo:
		l.consoleLogger.Printf("%s", message)
	case LevelWarn:
		l.consoleLogger.Printf("⚠️  %s", message)
	case LevelError:
		l.consoleLogger.Printf("❌ %s", message)
	}
}

// InfoClean logs a console-only message with no level prefix, for progress lines that
// shouldn't also clutter the log file.
func InfoClean(format string, args ...interface{}) {
	if global == nil {
		fmt.Printf(format+"\n", args...)
		return
	}
	global.consoleLogger.Printf(format, args...)
}

// LogCompileError records a compile-time failure at addr within sourcePath (file-only, since
// cerr's Highlighted() report already carries the user-visible version), stamping it with the
// module path and cell address for later debugging from the log file alone.
func LogCompileError(sourcePath string, addr a1.Address, err error) {
	if global == nil {
		return
	}
	global.fileLogger.Printf("[COMPILE_ERROR] module=%s cell=%s: %v", sourcePath, addr, err)
	Debug("compile error in %s at %s: %v", sourcePath, addr, err)
}

// GetLogFilePath returns the active log file's path, or "" if no logger is initialized.
func GetLogFilePath() string {
	if global != nil && global.logFile != nil {
		return global.logFile.Name()
	}
	return ""
}

// IsVerbose reports whether the global logger was initialized with verbose logging.
func IsVerbose() bool {
	return global != nil && global.verbose
}
