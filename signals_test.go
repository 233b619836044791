package gdpr

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitProcessorCreated(_ *testing.T) {
	// Should not panic
	emitProcessorCreated(context.Background(), "application/json", "TestType")
}

func TestEmitMetadataScanned(_ *testing.T) {
	emitMetadataScanned(context.Background(), "TestType", KindExport, 3)
}

func TestEmitNormalizeStart(_ *testing.T) {
	emitNormalizeStart(context.Background(), "TestType", KindExport)
}

func TestEmitNormalizeComplete_Success(_ *testing.T) {
	emitNormalizeComplete(context.Background(), "TestType", KindExport, 100*time.Millisecond, 4, nil)
}

func TestEmitNormalizeComplete_Error(_ *testing.T) {
	emitNormalizeComplete(context.Background(), "TestType", KindExport, 100*time.Millisecond, 0, errors.New("test error"))
}

func TestEmitExportComplete_Success(_ *testing.T) {
	emitExportComplete(context.Background(), "application/json", "TestType", 512, 100*time.Millisecond, nil)
}

func TestEmitExportComplete_Error(_ *testing.T) {
	emitExportComplete(context.Background(), "application/json", "TestType", 0, 100*time.Millisecond, errors.New("test error"))
}

func TestEmitAnonymizeStart(_ *testing.T) {
	emitAnonymizeStart(context.Background(), "TestType")
}

func TestEmitAnonymizeComplete_Success(_ *testing.T) {
	emitAnonymizeComplete(context.Background(), "TestType", 100*time.Millisecond, 2, 5, nil)
}

func TestEmitAnonymizeComplete_Error(_ *testing.T) {
	emitAnonymizeComplete(context.Background(), "TestType", 100*time.Millisecond, 1, 0, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalProcessorCreated", SignalProcessorCreated},
		{"SignalMetadataScanned", SignalMetadataScanned},
		{"SignalNormalizeStart", SignalNormalizeStart},
		{"SignalNormalizeComplete", SignalNormalizeComplete},
		{"SignalExportComplete", SignalExportComplete},
		{"SignalAnonymizeStart", SignalAnonymizeStart},
		{"SignalAnonymizeComplete", SignalAnonymizeComplete},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyTypeName", KeyTypeName},
		{"KeyKind", KeyKind},
		{"KeyContentType", KeyContentType},
		{"KeyFieldCount", KeyFieldCount},
		{"KeyObjectCount", KeyObjectCount},
		{"KeyAnonymizedCount", KeyAnonymizedCount},
		{"KeySize", KeySize},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
