package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  component  ", Value: "  matcher  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "component" || fields[0].String != "matcher" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	WithFields(logger, zap.String("foo", "bar")).Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if ctx := entries[0].ContextMap(); ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched := WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	// Ensure logging with the fallback logger does not panic.
	enriched.Info("another log")
}

func TestEngineFields(t *testing.T) {
	fields := EngineFields(" recommendation_engine ", "recommend")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldComponent || fields[0].String != "recommendation_engine" {
		t.Fatalf("unexpected component field: %+v", fields[0])
	}

	if fields[1].Key != FieldCallSite || fields[1].String != "recommend" {
		t.Fatalf("unexpected call site field: %+v", fields[1])
	}

	if empty := EngineFields("", ""); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithCallSite(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCallSite(zap.New(core), "pair_scorer", "dashboard_scan").Info("scored")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldComponent] != "pair_scorer" {
		t.Fatalf("expected component pair_scorer, got %q", ctx[FieldComponent])
	}
	if ctx[FieldCallSite] != "dashboard_scan" {
		t.Fatalf("expected call site dashboard_scan, got %q", ctx[FieldCallSite])
	}

	// Ensure logging with the fallback logger does not panic.
	WithEngineFields(nil, "text_extractor").Info("another log")
}
