package core

import (
	"log/slog"
)

// Level is the severity of a reported message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Reporter is the sink the pipeline reports progress and failures to.
// Every dropped-row count and every validation failure goes through it.
type Reporter interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
	ErrorDetail(msg string, err error)
}

// LogEntry is one reported message.
type LogEntry struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ProcessingLog collects reported messages in order, for API responses.
// Not safe for concurrent use; a run reports from a single goroutine.
type ProcessingLog struct {
	Entries []LogEntry `json:"entries"`
}

func (l *ProcessingLog) Info(msg string)    { l.add(LevelInfo, msg, "") }
func (l *ProcessingLog) Success(msg string) { l.add(LevelSuccess, msg, "") }
func (l *ProcessingLog) Error(msg string)   { l.add(LevelError, msg, "") }

func (l *ProcessingLog) ErrorDetail(msg string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	l.add(LevelError, msg, detail)
}

func (l *ProcessingLog) add(level Level, msg, detail string) {
	l.Entries = append(l.Entries, LogEntry{Level: level, Message: msg, Detail: detail})
}

// Errors returns only the error entries.
func (l *ProcessingLog) Errors() []LogEntry {
	var out []LogEntry
	for _, e := range l.Entries {
		if e.Level == LevelError {
			out = append(out, e)
		}
	}
	return out
}

// SlogReporter writes reported messages to a structured logger.
type SlogReporter struct {
	Logger *slog.Logger
}

// NewSlogReporter returns a reporter on logger, or on slog.Default() if nil.
func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogReporter{Logger: logger}
}

func (r *SlogReporter) Info(msg string)    { r.Logger.Info(msg) }
func (r *SlogReporter) Success(msg string) { r.Logger.Info(msg, "outcome", "success") }
func (r *SlogReporter) Error(msg string)   { r.Logger.Error(msg) }

func (r *SlogReporter) ErrorDetail(msg string, err error) {
	r.Logger.Error(msg, "error", err)
}

// MultiReporter fans every message out to each reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Info(msg string) {
	for _, r := range m {
		r.Info(msg)
	}
}

func (m MultiReporter) Success(msg string) {
	for _, r := range m {
		r.Success(msg)
	}
}

func (m MultiReporter) Error(msg string) {
	for _, r := range m {
		r.Error(msg)
	}
}

func (m MultiReporter) ErrorDetail(msg string, err error) {
	for _, r := range m {
		r.ErrorDetail(msg, err)
	}
}

type nopReporter struct{}

func (nopReporter) Info(string)               {}
func (nopReporter) Success(string)            {}
func (nopReporter) Error(string)              {}
func (nopReporter) ErrorDetail(string, error) {}

func orNop(rep Reporter) Reporter {
	if rep == nil {
		return nopReporter{}
	}
	return rep
}
