// Package events is the structured observability channel for the pipeline.
//
// Core operations emit Events describing what happened (marker matched,
// row discarded, speed computed) instead of writing log lines directly.
// A Sink decides what to do with them; attaching no sink is valid and the
// pipeline's results never depend on one being present.
package events

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
)

// Level is the severity of an event.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = map[Level]string{
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
}

// String returns the upper-case name of the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	default:
		return Info, fmt.Errorf("invalid level: %s", s)
	}
}

// Event is a single structured observation from a pipeline stage.
type Event struct {
	// Stage names the emitting component: "marker", "detect", "speed", ...
	Stage string

	// Level is the event severity.
	Level Level

	// Message is a short human-readable description.
	Message string

	// Fields carries structured values (counts, scores, positions).
	Fields map[string]interface{}
}

// Sink consumes events. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(Event)
}

// Emit sends an event to sink, tolerating a nil sink so callers never have
// to branch on whether observability is attached.
func Emit(sink Sink, stage string, level Level, message string, fields map[string]interface{}) {
	if sink == nil {
		return
	}
	sink.Emit(Event{Stage: stage, Level: level, Message: message, Fields: fields})
}

// NopSink discards all events.
type NopSink struct{}

// Emit implements Sink.
func (NopSink) Emit(Event) {}

var levelColors = map[Level]string{
	Debug: "\033[36m",
	Info:  "\033[32m",
	Warn:  "\033[33m",
	Error: "\033[31m",
}

const resetColor = "\033[0m"

// LogSink writes events as leveled, stage-tagged log lines.
//
// Output looks like:
//
//	2026/08/24 10:32:01 [INFO] [marker] marker matched index=2 score=0.83
//
// Events below the sink's minimum level are dropped.
type LogSink struct {
	mu       sync.Mutex
	min      Level
	useColor bool
	logger   *log.Logger
}

// NewLogSink creates a sink writing to out (os.Stderr if nil) that drops
// events below min.
func NewLogSink(min Level, out io.Writer, useColor bool) *LogSink {
	if out == nil {
		out = os.Stderr
	}
	return &LogSink{
		min:      min,
		useColor: useColor,
		logger:   log.New(out, "", log.Ldate|log.Ltime),
	}
}

// SetLevel changes the minimum level.
func (s *LogSink) SetLevel(min Level) {
	s.mu.Lock()
	s.min = min
	s.mu.Unlock()
}

// Emit implements Sink.
func (s *LogSink) Emit(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Level < s.min {
		return
	}

	prefix := fmt.Sprintf("[%s]", e.Level)
	if s.useColor {
		prefix = levelColors[e.Level] + prefix + resetColor
	}
	if e.Stage != "" {
		prefix = fmt.Sprintf("%s [%s]", prefix, e.Stage)
	}

	s.logger.Printf("%s %s%s", prefix, e.Message, formatFields(e.Fields))
}

// formatFields renders fields as " k=v" pairs in sorted key order so log
// lines are stable across runs.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}
