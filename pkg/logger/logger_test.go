package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"boxart/pkg/config"
)

// bufferLogger builds a Logger writing JSON lines into buf
func bufferLogger(buf *bytes.Buffer) Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zlog := zerolog.New(buf).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	return &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{"info level", &config.LoggingConfig{Level: "info"}, false},
		{"debug level", &config.LoggingConfig{Level: "debug"}, false},
		{"bogus level", &config.LoggingConfig{Level: "loud"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestNewWithFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "boxart.log")

	logger, err := New(&config.LoggingConfig{Level: "info", File: logFile})
	if err != nil {
		t.Fatalf("New() with file output failed: %v", err)
	}

	logger.Info("run started")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"loud", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := parseLogLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)

	logger.Debug("probing selectors")
	logger.Info("cover saved")
	logger.Warn("cover skipped")
	logger.Error("cover failed")

	out := buf.String()
	for _, want := range []string{"probing selectors", "cover saved", "cover skipped", "cover failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)

	logger.WithField("game", "contra").Info("cover saved")

	out := buf.String()
	if !strings.Contains(out, `"game":"contra"`) {
		t.Errorf("Expected game field in output, got:\n%s", out)
	}
}

func TestWithFieldsChaining(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)

	logger.
		WithField("game", "castlevania").
		WithFields(map[string]interface{}{
			"url":     "https://example.com/Castlevania-USA.png",
			"attempt": 1,
		}).
		Info("fetching cover")

	out := buf.String()
	for _, want := range []string{`"game":"castlevania"`, `"url":"https://example.com/Castlevania-USA.png"`, `"attempt":1`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in output, got:\n%s", want, out)
		}
	}

	// Derived loggers must not mutate the parent
	buf.Reset()
	logger.Info("plain line")
	if strings.Contains(buf.String(), "castlevania") {
		t.Error("Parent logger picked up fields from a derived logger")
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)

	logger.WithError(assertErr("unexpected status 503")).Error("download failed")

	out := buf.String()
	if !strings.Contains(out, "unexpected status 503") {
		t.Errorf("Expected error text in output, got:\n%s", out)
	}

	// A nil error adds nothing
	if got := logger.WithError(nil); got != logger {
		t.Error("WithError(nil) should return the same logger")
	}
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)

	logger.InfoWithFields("Run finished", map[string]interface{}{
		"saved":   52,
		"skipped": 640,
		"failed":  1,
	})

	out := buf.String()
	for _, want := range []string{"Run finished", `"saved":52`, `"skipped":640`, `"failed":1`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in output, got:\n%s", want, out)
		}
	}
}

func TestGlobalLogger(t *testing.T) {
	if err := Initialize(&config.LoggingConfig{Level: "info"}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if GetLogger() == nil {
		t.Fatal("GetLogger returned nil after Initialize")
	}

	// Package-level helpers route through the global instance
	WithField("game", "metroid").Info("cover saved")
}

// assertErr is a tiny error type for WithError tests
type assertErr string

func (e assertErr) Error() string { return string(e) }
