package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	log.With(String("formula", "vswr")).Debug(context.Background(), "evaluated",
		Float("result", 2),
		Err(errors.New("boom")),
	)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	if rec["msg"] != "evaluated" {
		t.Fatalf("msg = %v, want evaluated", rec["msg"])
	}
	if rec["formula"] != "vswr" {
		t.Fatalf("formula = %v, want vswr", rec["formula"])
	}
	if rec["result"] != 2.0 {
		t.Fatalf("result = %v, want 2", rec["result"])
	}
	if rec["error"] != "boom" {
		t.Fatalf("error = %v, want boom", rec["error"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})

	log.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info line written at warn level: %q", buf.String())
	}
	log.Warn(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestEnsureRequestID(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("generated request id %q is not a uuid: %v", id, err)
	}
	ctx2, id2 := EnsureRequestID(ctx)
	if id2 != id || RequestIDFromContext(ctx2) != id {
		t.Fatalf("EnsureRequestID replaced existing id %q with %q", id, id2)
	}

	ctx3 := ContextWithRequestID(context.Background(), "abc")
	if _, got := EnsureRequestID(ctx3); got != "abc" {
		t.Fatalf("EnsureRequestID = %q, want abc", got)
	}
}

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background(), nil); got == nil {
		t.Fatalf("FromContext without logger returned nil")
	}

	var buf bytes.Buffer
	stored := New(Config{Output: &buf})
	ctx := ContextWithLogger(context.Background(), stored)
	FromContext(ctx, Noop()).Info(ctx, "from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Fatalf("stored logger not used: %q", buf.String())
	}
}

func TestNonFiniteFloatsStayEncodable(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "json", Output: &buf})

	log.Info(context.Background(), "short circuit", Float("vswr", math.Inf(1)), Float("bad", math.NaN()))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	if rec["vswr"] != "+Inf" || rec["bad"] != "NaN" {
		t.Fatalf("vswr=%v bad=%v, want +Inf and NaN strings", rec["vswr"], rec["bad"])
	}
}

func TestConfigFrom(t *testing.T) {
	env := map[string]string{"LOG_LEVEL": "debug", "LOG_FORMAT": "json", "LOG_SOURCE": "True"}
	cfg := configFrom(func(k string) string { return env[k] })
	if cfg.Level != "debug" || cfg.Format != "json" || !cfg.AddSource {
		t.Fatalf("configFrom = %+v", cfg)
	}
}
