package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		log   func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("restored") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("restored") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("restored") }, true},
		{"warn at info", log.InfoLevel, func(l *log.Logger) { l.Warn("restored") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newLogger(&buf, tt.level))
			if got := strings.Contains(buf.String(), "restored"); got != tt.want {
				t.Errorf("logged = %v, want %v (%q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Restored 3 entries of main")

	out := buf.String()
	if !strings.Contains(out, "Restored 3 entries of main (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should give the default logger")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Error("loggerFromContext lost the attached logger")
	}
}

func TestVerboseOverridesConfig(t *testing.T) {
	c, _ := newTestCLI(t)
	if _, err := run(t, c, "-v", "store", "path"); err != nil {
		t.Fatalf("store path: %v", err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}
