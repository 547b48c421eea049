package events

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogSinkFormatting(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(Debug, &buf, false)

	sink.Emit(Event{
		Stage:   "marker",
		Level:   Info,
		Message: "marker matched",
		Fields:  map[string]interface{}{"score": 0.83, "index": 2},
	})

	line := buf.String()
	if !strings.Contains(line, "[INFO] [marker] marker matched") {
		t.Errorf("unexpected line: %q", line)
	}
	// Fields render in sorted key order.
	if !strings.Contains(line, "index=2 score=0.83") {
		t.Errorf("fields missing or unordered: %q", line)
	}
}

func TestLogSinkLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(Warn, &buf, false)

	sink.Emit(Event{Stage: "detect", Level: Debug, Message: "dropped row"})
	if buf.Len() != 0 {
		t.Errorf("debug event not filtered: %q", buf.String())
	}

	sink.Emit(Event{Stage: "detect", Level: Error, Message: "bad tensor"})
	if buf.Len() == 0 {
		t.Error("error event was filtered")
	}
}

func TestEmitNilSink(t *testing.T) {
	// Must not panic.
	Emit(nil, "speed", Info, "speed computed", nil)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{"Warning", Warn, false},
		{"error", Error, false},
		{"verbose", Info, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr != (err != nil) {
			t.Errorf("ParseLevel(%q) error: got %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}
