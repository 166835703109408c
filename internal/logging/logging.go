package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	logFile *os.File
	debug   bool
	now     = time.Now
)

// Init routes the standard logger to stderr and, when logPath is set, to an
// appended log file as well.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	writers := []io.Writer{os.Stderr}
	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetFlags(0)
	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func SetDebug(enabled bool) {
	mu.Lock()
	debug = enabled
	mu.Unlock()
}

func debugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debug
}

func Log(level, stage, message, detail string) {
	level = strings.ToUpper(strings.TrimSpace(level))
	if level == "DEBUG" && !debugEnabled() {
		return
	}
	log.Print(formatLine(now(), level, stage, message, detail))
}

func Info(stage, format string, args ...any) {
	Log("INFO", stage, fmt.Sprintf(format, args...), "")
}

func Warn(stage, format string, args ...any) {
	Log("WARN", stage, fmt.Sprintf(format, args...), "")
}

func Debug(stage, format string, args ...any) {
	Log("DEBUG", stage, fmt.Sprintf(format, args...), "")
}

func formatLine(at time.Time, level, stage, message, detail string) string {
	if level == "" {
		level = "INFO"
	}
	stage = strings.ToUpper(strings.TrimSpace(stage))
	if stage == "" {
		stage = "MAIN"
	}
	line := fmt.Sprintf("[%s] [%s] [%s] %s", at.Format("15:04:05.000"), level, stage, message)
	if strings.TrimSpace(detail) != "" {
		line += " | " + detail
	}
	return line
}

// Logger adapts the package logger to the Log(level, stage, message, detail)
// shape the pipeline expects.
type Logger struct{}

func (Logger) Log(level, stage, message, detail string) {
	Log(level, stage, message, detail)
}
