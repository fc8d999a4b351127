package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Environment variables configuring the log file and verbosity.
const (
	envLogPath  = "CATALOG_MCP_LOG"
	envLogDebug = "CATALOG_MCP_DEBUG"
)

var (
	mu      sync.Mutex
	std     *log.Logger
	logFile *os.File
	debug   bool
)

// InitFromEnv initializes the logger using CATALOG_MCP_LOG or a file next
// to the executable. stdout is never used: it carries the MCP transport.
func InitFromEnv() error {
	path := os.Getenv(envLogPath)
	if path == "" {
		if exePath, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(exePath), "catalog-mcp.log")
		} else {
			path = "./catalog-mcp.log"
		}
	}
	debug = os.Getenv(envLogDebug) != ""
	return Init(path)
}

// Init opens path in append mode, creating parent directories if needed.
// Subsequent calls are no-ops until Close.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if std != nil {
		return nil
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	logFile = f
	std = newLogger(f)
	return nil
}

// Close closes the underlying log file, if open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	std = nil
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// Infof logs informational messages.
func Infof(format string, args ...any) { write("INFO", format, args...) }

// Warnf logs warnings.
func Warnf(format string, args ...any) { write("WARN", format, args...) }

// Errorf logs errors.
func Errorf(format string, args ...any) { write("ERROR", format, args...) }

// Debugf logs only when CATALOG_MCP_DEBUG is set.
func Debugf(format string, args ...any) {
	if debug {
		write("DEBUG", format, args...)
	}
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds)
}

func write(level string, format string, args ...any) {
	mu.Lock()
	l := std
	mu.Unlock()
	if l == nil {
		return
	}
	l.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
