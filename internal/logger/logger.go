package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// ********************************************************
// ********* LOGGING **************************************
// ********************************************************

type LogLevel int

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorOrange  = "\033[38;5;208m"
)

const (
	DEBUG LogLevel = iota
	INFO
	INFORM
	HIGHLIGHT
	WARN
	ERROR
	FATAL
)

// DefaultLogFile is where file output goes unless configured otherwise
const DefaultLogFile = "/tmp/quadratic.log"

type Logger struct {
	mu          sync.Mutex
	infoLogger  *log.Logger
	errorLogger *log.Logger
	level       LogLevel
	dateTime    bool
	colour      bool
}

var (
	defaultLogger *Logger
	logFile       *os.File
	mcpMode       bool
)

func init() {
	defaultLogger = NewLogger(INFO, os.Stdout, os.Stderr)
}

// NewLogger creates a logger writing DEBUG..HIGHLIGHT to info and
// WARN and above to errs
func NewLogger(level LogLevel, info, errs io.Writer) *Logger {
	return &Logger{
		infoLogger:  log.New(info, "", 0),
		errorLogger: log.New(errs, "", 0),
		level:       level,
		colour:      true,
	}
}

func (l *Logger) flags() int {
	if l.dateTime {
		return log.Ldate | log.Ltime
	}
	return 0
}

// SetOutput replaces the writers of l
func (l *Logger) SetOutput(info, errs io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLogger = log.New(info, "", l.flags())
	l.errorLogger = log.New(errs, "", l.flags())
}

// SetLevel sets the minimum level that is written
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetColour turns ANSI colouring of messages on or off
func (l *Logger) SetColour(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.colour = on
}

func (l *Logger) SetShowDateTime(value bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dateTime = value
	l.infoLogger.SetFlags(l.flags())
	l.errorLogger.SetFlags(l.flags())
}

func SetShowDateTime(value bool) {
	defaultLogger.SetShowDateTime(value)
}

func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// SetMCPMode sends every level to stderr so that stdout carries nothing
// but JSON-RPC frames. Later SetLogOutput calls keep honouring it.
func SetMCPMode(on bool) {
	mcpMode = on
	if on {
		defaultLogger.SetOutput(os.Stderr, os.Stderr)
	}
}

// SetLogOutput sets the output destination for logs
// 'c' for console, 'f' for file, 'b' for both
func SetLogOutput(outputType rune, path string) error {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	if path == "" {
		path = DefaultLogFile
	}

	var console io.Writer = os.Stdout
	if mcpMode {
		console = os.Stderr
	}

	switch outputType {
	case 'c':
		defaultLogger.SetOutput(console, os.Stderr)
		defaultLogger.SetColour(true)
	case 'f', 'b':
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		if outputType == 'f' {
			defaultLogger.SetOutput(f, f)
			defaultLogger.SetColour(false)
		} else {
			defaultLogger.SetOutput(io.MultiWriter(console, f), io.MultiWriter(os.Stderr, f))
		}
	default:
		return fmt.Errorf("invalid log output type: %c", outputType)
	}
	return nil
}

// ParseLevel converts a level name such as "debug" or "WARN" into a LogLevel
func ParseLevel(name string) (LogLevel, error) {
	for l := DEBUG; l <= FATAL; l++ {
		if strings.EqualFold(name, l.String()) {
			return l, nil
		}
	}
	return INFO, fmt.Errorf("unknown log level: %s", name)
}

func (l *Logger) log(level LogLevel, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}
	file = filepath.Base(file)

	msg := format
	var jsonObjects []string
	if len(v) > 0 {
		var primitives []string
		primitives, jsonObjects = processArgs(v...)
		if len(primitives) > 0 {
			msg = format + " " + strings.Join(primitives, " ")
		}
	}

	colorCode, reset := "", ""
	if l.colour {
		colorCode, reset = level.color(), colorReset
	}

	out := l.infoLogger
	if level >= WARN {
		out = l.errorLogger
	}
	out.Printf("[%s] %s:%d: %s%s%s", level, file, line, colorCode, msg, reset)
	// complex objects follow on their own lines
	for _, obj := range jsonObjects {
		out.Printf("[%s] %s:%d: %s%s%s", level, file, line, colorCode, obj, reset)
	}
}

func (l LogLevel) color() string {
	switch l {
	case DEBUG:
		return colorBlue
	case INFO:
		return colorGreen
	case INFORM:
		return colorMagenta
	case HIGHLIGHT:
		return colorCyan
	case WARN:
		return colorYellow
	case ERROR:
		return colorOrange
	case FATAL:
		return colorRed
	default:
		return colorReset
	}
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case INFORM:
		return "INFORM"
	case HIGHLIGHT:
		return "HIGHLIGHT"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// processArgs splits arguments into printable primitives and JSON
// renderings of anything structured
func processArgs(args ...any) ([]string, []string) {
	var primitives []string
	var jsonObjects []string

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			primitives = append(primitives, "nil")
		case float32:
			primitives = append(primitives, fmt.Sprintf("%.2f", v))
		case float64:
			primitives = append(primitives, fmt.Sprintf("%.2f", v))
		case error:
			primitives = append(primitives, v.Error())
		case fmt.Stringer:
			primitives = append(primitives, v.String())
		case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			primitives = append(primitives, fmt.Sprintf("%v", v))
		default:
			jsonBytes, err := json.MarshalIndent(arg, "", "  ")
			if err != nil {
				primitives = append(primitives, fmt.Sprintf("%v", arg))
				continue
			}
			primitives = append(primitives, fmt.Sprintf("[Object of type %s]", reflect.TypeOf(arg)))
			jsonObjects = append(jsonObjects, string(jsonBytes))
		}
	}
	return primitives, jsonObjects
}

func (l *Logger) Debug(format string, v ...any) { l.log(DEBUG, format, v...) }
func (l *Logger) Info(format string, v ...any)  { l.log(INFO, format, v...) }
func (l *Logger) Warn(format string, v ...any)  { l.log(WARN, format, v...) }
func (l *Logger) Error(format string, v ...any) { l.log(ERROR, format, v...) }

// Convenience methods using the default logger
func Debug(format string, v ...any) {
	defaultLogger.log(DEBUG, format, v...)
}

func Info(format string, v ...any) {
	defaultLogger.log(INFO, format, v...)
}

func Inform(format string, v ...any) {
	defaultLogger.log(INFORM, format, v...)
}

func Highlight(format string, v ...any) {
	defaultLogger.log(HIGHLIGHT, format, v...)
}

func Warn(format string, v ...any) {
	defaultLogger.log(WARN, format, v...)
}

func Error(format string, v ...any) {
	defaultLogger.log(ERROR, format, v...)
}

func Fatal(format string, v ...any) {
	defaultLogger.log(FATAL, format, v...)
	os.Exit(1)
}
