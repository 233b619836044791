package gdpr

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for gdpr events.
var (
	SignalProcessorCreated  = capitan.NewSignal("gdpr.processor.created", "Processor instantiated")
	SignalMetadataScanned   = capitan.NewSignal("gdpr.metadata.scanned", "Type scanned for marker metadata")
	SignalNormalizeStart    = capitan.NewSignal("gdpr.normalize.start", "Normalize operation beginning")
	SignalNormalizeComplete = capitan.NewSignal("gdpr.normalize.complete", "Normalize operation finished")
	SignalExportComplete    = capitan.NewSignal("gdpr.export.complete", "Export operation finished")
	SignalAnonymizeStart    = capitan.NewSignal("gdpr.anonymize.start", "Anonymize operation beginning")
	SignalAnonymizeComplete = capitan.NewSignal("gdpr.anonymize.complete", "Anonymize operation finished")
)

// Keys for typed event data.
var (
	KeyTypeName        = capitan.NewStringKey("type_name")
	KeyKind            = capitan.NewStringKey("kind")
	KeyContentType     = capitan.NewStringKey("content_type")
	KeyFieldCount      = capitan.NewIntKey("field_count")
	KeyObjectCount     = capitan.NewIntKey("object_count")
	KeyAnonymizedCount = capitan.NewIntKey("anonymized_count")
	KeySize            = capitan.NewIntKey("size")
	KeyDuration        = capitan.NewDurationKey("duration")
	KeyError           = capitan.NewErrorKey("error")
)

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitMetadataScanned emits an event when a type is scanned on a cache miss.
func emitMetadataScanned(ctx context.Context, typeName string, kind Kind, fields int) {
	capitan.Emit(ctx, SignalMetadataScanned,
		KeyTypeName.Field(typeName),
		KeyKind.Field(string(kind)),
		KeyFieldCount.Field(fields),
	)
}

// emitNormalizeStart emits an event when normalize begins.
func emitNormalizeStart(ctx context.Context, typeName string, kind Kind) {
	capitan.Emit(ctx, SignalNormalizeStart,
		KeyTypeName.Field(typeName),
		KeyKind.Field(string(kind)),
	)
}

// emitNormalizeComplete emits an event when normalize finishes.
func emitNormalizeComplete(ctx context.Context, typeName string, kind Kind, duration time.Duration, objects int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyKind.Field(string(kind)),
		KeyDuration.Field(duration),
		KeyObjectCount.Field(objects),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalNormalizeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalNormalizeComplete, fields...)
	}
}

// emitExportComplete emits an event when an export is encoded.
func emitExportComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalExportComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalExportComplete, fields...)
	}
}

// emitAnonymizeStart emits an event when anonymize begins.
func emitAnonymizeStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalAnonymizeStart,
		KeyTypeName.Field(typeName),
	)
}

// emitAnonymizeComplete emits an event when anonymize finishes.
func emitAnonymizeComplete(ctx context.Context, typeName string, duration time.Duration, objects, anonymized int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyObjectCount.Field(objects),
		KeyAnonymizedCount.Field(anonymized),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalAnonymizeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalAnonymizeComplete, fields...)
	}
}
