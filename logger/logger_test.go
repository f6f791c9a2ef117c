package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{name: "JSON output mode", jsonOutput: true, verbosity: 0},
		{name: "Console output mode", jsonOutput: false, verbosity: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			if err := Initialize(tt.jsonOutput, tt.verbosity); err != nil {
				t.Fatalf("Initialize() error = %v", err)
			}
			if Logger == nil {
				t.Error("Initialize() did not set global Logger")
			}
			if JSONOutput != tt.jsonOutput {
				t.Errorf("Initialize() JSONOutput = %v, want %v", JSONOutput, tt.jsonOutput)
			}

			Logger.Sync()
			Logger = zap.NewNop().Sugar()
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		if got := VerbosityToLevel(tt.verbosity); got != tt.want {
			t.Errorf("VerbosityToLevel(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}

	if ShouldLogTrace(VerbosityDebug) {
		t.Error("ShouldLogTrace(2) should be false")
	}
	if !ShouldLogTrace(VerbosityTrace) {
		t.Error("ShouldLogTrace(3) should be true")
	}
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	parent := zap.New(core).Sugar()

	ctx := WithConversionID(context.Background(), "c-123")
	ctx = WithDocument(ctx, "chapter1")

	FromContext(ctx, parent).Infow("converted", FieldCount, 3)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields[FieldConversionID] != "c-123" {
		t.Errorf("conversion_id = %v, want c-123", fields[FieldConversionID])
	}
	if fields[FieldDocument] != "chapter1" {
		t.Errorf("document = %v, want chapter1", fields[FieldDocument])
	}
}

func TestFromContext_NoFields(t *testing.T) {
	parent := zap.NewNop().Sugar()
	if got := FromContext(context.Background(), parent); got != parent {
		t.Error("FromContext without fields should return the parent logger")
	}
}

func TestLoggingFunctions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Logger = zap.New(core).Sugar()
	defer func() { Logger = zap.NewNop().Sugar() }()

	Infow("info", "key", "value")
	Warnw("warn", "key", "value")
	Errorw("error", "key", "value")
	Debugw("debug", "key", "value")

	if logs.Len() != 4 {
		t.Errorf("expected 4 entries, got %d", logs.Len())
	}

	t.Run("With nil logger (should not panic)", func(t *testing.T) {
		Logger = nil
		Infow("test", "key", "value")
		Errorw("test", "key", "value")
		Warnw("test", "key", "value")
		Debugw("test", "key", "value")
		Cleanup()
	})
}
