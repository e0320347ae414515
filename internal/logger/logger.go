package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Level represents the logging level.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

var levelColors = map[Level]*color.Color{
	DEBUG: color.New(color.FgCyan),
	INFO:  color.New(color.FgGreen),
	WARN:  color.New(color.FgYellow),
	ERROR: color.New(color.FgRed),
}

// Logger is the main logger instance.
type Logger struct {
	mu          sync.Mutex
	level       Level
	output      io.Writer
	colorEnable bool
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init initializes the default logger with the specified level.
// Log lines go to stderr so stdout only carries reports. Only the first
// call (or the first log call, which initializes at info) takes effect;
// use SetLevel afterwards.
func Init(levelStr string) {
	once.Do(func() {
		defaultLogger = &Logger{
			level:       parseLevel(levelStr),
			output:      os.Stderr,
			colorEnable: !color.NoColor,
		}
	})
}

// get returns the default logger, initializing it at info level if needed.
// Package functions must not read defaultLogger directly.
func get() *Logger {
	Init("info")
	return defaultLogger
}

// SetLevel sets the logging level for the default logger.
func SetLevel(levelStr string) {
	l := get()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = parseLevel(levelStr)
}

// SetOutput sets the output destination for the default logger.
func SetOutput(w io.Writer) {
	l := get()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// SetColorEnable enables or disables color output.
func SetColorEnable(enable bool) {
	l := get()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.colorEnable = enable
}

// ValidLevel reports whether levelStr names a known level.
func ValidLevel(levelStr string) bool {
	switch strings.ToUpper(levelStr) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		return true
	}
	return false
}

// parseLevel converts a string to a Level.
func parseLevel(levelStr string) Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// log writes a log message if the level is sufficient.
func (l *Logger) log(level Level, format string, args ...interface{}) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	message := fmt.Sprintf(format, args...)
	tag := "[" + levelNames[level] + "]"
	if l.colorEnable {
		c := *levelColors[level]
		c.EnableColor()
		tag = c.Sprint(tag)
	}

	log.New(l.output, "", log.LstdFlags).Println(tag + " " + message)
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) {
	get().log(DEBUG, format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...interface{}) {
	get().log(WARN, format, args...)
}
