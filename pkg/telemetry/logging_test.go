package telemetry

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestConfigureSlogFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := ConfigureSlog(&buf, "debug", "json")
	logger.Debug("injection fired", "category", "rate_limit")
	if !strings.Contains(buf.String(), `"category":"rate_limit"`) {
		t.Errorf("json output missing attribute: %s", buf.String())
	}

	buf.Reset()
	logger = ConfigureSlog(&buf, "warn", "text")
	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info line emitted at warn level: %s", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("warn line missing: %s", buf.String())
	}
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	telemetryLogger := ComponentLogger(base, "engine")
	telemetryLogger.Info("hello")
	if !strings.Contains(buf.String(), `"component":"engine"`) {
		t.Errorf("missing component attribute: %s", buf.String())
	}

	if ComponentLogger(nil, "journal") == nil {
		t.Fatal("nil base should fall back to the default logger")
	}
}
