package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogger_JSON_IncludesFieldsAndBase(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "backoffice-api", Out: &buf})

	l.With(map[string]any{"module": "lembretes"}).Info("pass finished", map[string]any{
		"fired": 2,
		"error": errors.New("boom"),
		"":      "ignored",
	})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if entry["app"] != "backoffice-api" || entry["module"] != "lembretes" {
		t.Fatalf("missing base fields: %#v", entry)
	}
	if entry["message"] != "pass finished" || entry["level"] != "info" {
		t.Fatalf("unexpected msg/level: %#v", entry)
	}
	if entry["err"] != "boom" {
		t.Fatalf("expected err field, got %#v", entry["err"])
	}
	if _, ok := entry[""]; ok {
		t.Fatalf("empty keys must be dropped")
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Format: FormatJSON, Out: &buf})

	l.Info("hidden", nil)
	l.Debug("hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}

	l.Error("visible", nil)
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected error line, got %q", buf.String())
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if ParseLevel("WARNING") != Warn || ParseLevel("") != Info || ParseLevel("nope") != Info {
		t.Fatalf("unexpected ParseLevel behaviour")
	}
	if ParseFormat("JSON") != FormatJSON || ParseFormat("x") != FormatText {
		t.Fatalf("unexpected ParseFormat behaviour")
	}
}

// El nombre del campo de error se fija una vez al cargar el paquete, no en cada New.
func TestErrorFieldNameSetOnLoad(t *testing.T) {
	if zerolog.ErrorFieldName != "err" {
		t.Fatalf("expected err, got %q", zerolog.ErrorFieldName)
	}

	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	zl.Error().Err(errors.New("boom")).Msg("x")
	if !strings.Contains(buf.String(), `"err":"boom"`) {
		t.Fatalf("expected err key, got %s", buf.String())
	}
}
