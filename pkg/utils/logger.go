package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

const (
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorReset  = "\033[0m"
)

// Logger writes leveled, timestamped lines for the feed service. Info
// and Warn go to stdout, Error to stderr.
type Logger struct {
	out    *log.Logger
	errOut *log.Logger
}

func NewLogger() *Logger {
	return &Logger{
		out:    log.New(os.Stdout, "", 0),
		errOut: log.New(os.Stderr, "", 0),
	}
}

func (l *Logger) line(dst *log.Logger, color, level, format string, args ...any) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	dst.Printf(fmt.Sprintf("[%s] %s%-5s%s %s\n", ts, color, level, colorReset, format), args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.line(l.out, colorGreen, "INFO", format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.line(l.out, colorYellow, "WARN", format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.line(l.errOut, colorRed, "ERROR", format, args...)
}
