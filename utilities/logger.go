package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"admin-experimentai/internal/config"
)

var (
	infoLog      = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	warnLog      = log.New(os.Stdout, "WARNING: ", log.Ldate|log.Ltime)
	errorLog     = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
	debugLog     = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime)
	debugEnabled bool
	infoWriter   io.Writer = os.Stdout
	logMutex     sync.Mutex
)

// SetupLogging sends each level to stdout and to its own rotating file.
func SetupLogging(cfg config.LoggingConfig) error {
	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	infoFile := rotatingFile(cfg, "info.log")
	warnFile := rotatingFile(cfg, "warn.log")
	errorFile := rotatingFile(cfg, "error.log")

	logMutex.Lock()
	defer logMutex.Unlock()

	infoWriter = io.MultiWriter(os.Stdout, infoFile)
	infoLog = log.New(infoWriter, "INFO: ", log.Ldate|log.Ltime)
	warnLog = log.New(io.MultiWriter(os.Stdout, warnFile), "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(io.MultiWriter(os.Stderr, errorFile), "ERROR: ", log.Ldate|log.Ltime)
	debugLog = log.New(infoWriter, "DEBUG: ", log.Ldate|log.Ltime)
	debugEnabled = strings.EqualFold(cfg.Level, "DEBUG")

	// Override Go's default log
	log.SetOutput(infoWriter)
	return nil
}

// InfoWriter is where info level lines go; gin's access log shares it.
func InfoWriter() io.Writer {
	logMutex.Lock()
	defer logMutex.Unlock()
	return infoWriter
}

func rotatingFile(cfg config.LoggingConfig, name string) io.Writer {
	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Directory, name),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
}

func getCallerInfo() string {
	pc, _, _, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	name := runtime.FuncForPC(pc).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func Log(level string, format string, v ...interface{}) {
	logEntry := fmt.Sprintf("[%s] %s", getCallerInfo(), fmt.Sprintf(format, v...))

	logMutex.Lock()
	defer logMutex.Unlock()

	switch level {
	case "WARNING":
		warnLog.Println(logEntry)
	case "ERROR":
		errorLog.Println(logEntry)
	case "DEBUG":
		if debugEnabled {
			debugLog.Println(logEntry)
		}
	default:
		infoLog.Println(logEntry)
	}
}

func Info(format string, v ...interface{}) {
	Log("INFO", format, v...)
}

func Warn(format string, v ...interface{}) {
	Log("WARNING", format, v...)
}

func Error(format string, v ...interface{}) {
	Log("ERROR", format, v...)
}

func Debug(format string, v ...interface{}) {
	Log("DEBUG", format, v...)
}
