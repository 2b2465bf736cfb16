package nest

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for nest events.
var (
	SignalStructuralCreated   = capitan.NewSignal("nest.structural.created", "Structural instantiated")
	SignalCloneStart          = capitan.NewSignal("nest.clone.start", "Clone operation beginning")
	SignalCloneComplete       = capitan.NewSignal("nest.clone.complete", "Clone operation finished")
	SignalEqualComplete       = capitan.NewSignal("nest.equal.complete", "Equal operation finished")
	SignalFingerprintComplete = capitan.NewSignal("nest.fingerprint.complete", "Fingerprint operation finished")
	SignalSetFailed           = capitan.NewSignal("nest.set.failed", "Path write rejected")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyPath        = capitan.NewStringKey("path")
	KeyResult      = capitan.NewStringKey("result")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitStructuralCreated emits an event when a Structural is created.
func emitStructuralCreated(ctx context.Context, contentType string) {
	capitan.Emit(ctx, SignalStructuralCreated,
		KeyContentType.Field(contentType),
	)
}

// emitCloneStart emits an event when clone begins.
func emitCloneStart(ctx context.Context, contentType string) {
	capitan.Emit(ctx, SignalCloneStart,
		KeyContentType.Field(contentType),
	)
}

// emitCloneComplete emits an event when clone finishes.
func emitCloneComplete(ctx context.Context, contentType string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCloneComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalCloneComplete, fields...)
	}
}

// emitEqualComplete emits an event when equal finishes.
func emitEqualComplete(ctx context.Context, contentType string, equal bool, duration time.Duration, err error) {
	result := "different"
	if equal {
		result = "equal"
	}
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyResult.Field(result),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEqualComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEqualComplete, fields...)
	}
}

// emitFingerprintComplete emits an event when fingerprinting finishes.
func emitFingerprintComplete(ctx context.Context, contentType string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalFingerprintComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalFingerprintComplete, fields...)
	}
}

// emitSetFailed emits an event when a path write is rejected.
func emitSetFailed(ctx context.Context, path string, err error) {
	capitan.Error(ctx, SignalSetFailed,
		KeyPath.Field(path),
		KeyError.Field(err),
	)
}
