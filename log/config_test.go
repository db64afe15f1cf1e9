package log

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestConfig_WithLevel_SetsLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    Level
		expected Level
	}{
		{"trace", LevelTrace, LevelTrace},
		{"debug", LevelDebug, LevelDebug},
		{"info", LevelInfo, LevelInfo},
		{"warn", LevelWarn, LevelWarn},
		{"error", LevelError, LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithLevel(tt.level)(config{})

			if result.level != tt.expected {
				t.Errorf("expected level %v, got %v", tt.expected, result.level)
			}
		})
	}
}

func TestConfig_WithFormat_SetsFormat(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatText} {
		if result := WithFormat(f)(config{}); result.format != f {
			t.Errorf("expected format %v, got %v", f, result.format)
		}
	}
}

func TestConfig_WithOutput_NilDiscards(t *testing.T) {
	if result := WithOutput(nil)(config{}); result.output == nil {
		t.Error("nil output should be replaced")
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelInfo + 2, "info+2"},
		{LevelError + 1, "error+1"},
		{LevelTrace - 2, "trace-2"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", LevelInfo + 2},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat(" JSON ") != FormatJSON {
		t.Error("expected json")
	}

	if ParseFormat("text") != FormatText {
		t.Error("expected text")
	}

	if ParseFormat("yaml") != DefaultFormat {
		t.Error("unknown format should yield the default")
	}
}

func TestLevelsAndFormats_Enumerate(t *testing.T) {
	if got := slices.Collect(Levels()); !slices.Equal(got, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("Levels() = %v", got)
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestConfig_formatTime_FormatsTimestamp(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339 named layout", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano named layout", "RFC3339Nano", "2023-10-15T14:30:45.123456789Z"},
		{"kitchen", "kitchen", "2:30PM"},
		{"datetime", "DateTime", "2023-10-15 14:30:45"},
		{"custom layout used verbatim", "  2006-01-02 15:04", "  2023-10-15 14:30"},
		{"none disables", "none", ""},
		{"empty disables", "", ""},
		{"whitespace disables", "   \t  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})
			if got := c.formatTime(now); got != tt.want {
				t.Errorf("formatTime = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_Handler_OmitsDisabledTimestamp(t *testing.T) {
	var buf strings.Builder

	logger := Make(&buf, WithTimeLayout("none"), WithPretty(false))
	logger.Info("hello")

	if strings.Contains(buf.String(), "time=") {
		t.Errorf("unexpected timestamp in %q", buf.String())
	}
}

func BenchmarkConfig_formatTime(b *testing.B) {
	c := WithTimeLayout("RFC3339")(config{})
	now := time.Now()

	for b.Loop() {
		_ = c.formatTime(now)
	}
}
