package cli

import (
	"testing"

	"github.com/ardnew/webuild/log"
)

func TestLogConfig_Scan(t *testing.T) {
	resetLog(t)

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "assigned",
			args: []string{"render", "--log-level=debug", "--log-format=json", "x"},
			want: logConfig{Level: "debug", Format: "json"},
		},
		{
			name: "separate values",
			args: []string{"--log-level", "trace", "--log-time-layout", "none"},
			want: logConfig{Level: "trace", TimeLayout: "none"},
		},
		{
			name: "booleans",
			args: []string{"--log-caller", "--no-log-pretty"},
			want: logConfig{Caller: true, Pretty: false},
		},
		{
			name: "boolean values",
			args: []string{"--log-pretty=true", "--log-caller=nope"},
			want: logConfig{Pretty: true},
		},
		{
			name: "stops at terminator",
			args: []string{"--", "--log-level=error"},
			want: logConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got logConfig

			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLogConfig_StartConfiguresDefault(t *testing.T) {
	resetLog(t)

	f := logConfig{Level: "warn", Format: "json", TimeLayout: "none"}
	f.start(t.Context())

	if got := log.Default().Level(); got != log.LevelWarn {
		t.Errorf("Level() = %v", got)
	}

	if got := log.Default().Format(); got != log.FormatJSON {
		t.Errorf("Format() = %v", got)
	}
}
