package nest

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitStructuralCreated(_ *testing.T) {
	// Should not panic
	emitStructuralCreated(context.Background(), "application/json")
}

func TestEmitCloneStart(_ *testing.T) {
	emitCloneStart(context.Background(), "application/json")
}

func TestEmitCloneComplete_Success(_ *testing.T) {
	emitCloneComplete(context.Background(), "application/json", 42, 100*time.Millisecond, nil)
}

func TestEmitCloneComplete_Error(_ *testing.T) {
	emitCloneComplete(context.Background(), "application/json", 0, 100*time.Millisecond, errors.New("test error"))
}

func TestEmitEqualComplete_Equal(_ *testing.T) {
	emitEqualComplete(context.Background(), "application/json", true, time.Millisecond, nil)
}

func TestEmitEqualComplete_Different(_ *testing.T) {
	emitEqualComplete(context.Background(), "application/json", false, time.Millisecond, nil)
}

func TestEmitEqualComplete_Error(_ *testing.T) {
	emitEqualComplete(context.Background(), "application/json", false, time.Millisecond, ErrCyclicStructure)
}

func TestEmitFingerprintComplete_Success(_ *testing.T) {
	emitFingerprintComplete(context.Background(), "application/json", 12, time.Millisecond, nil)
}

func TestEmitFingerprintComplete_Error(_ *testing.T) {
	emitFingerprintComplete(context.Background(), "application/json", 0, time.Millisecond, errors.New("test error"))
}

func TestEmitSetFailed(_ *testing.T) {
	emitSetFailed(context.Background(), "a.b", newPathError(ErrNotContainer, "a.b", 1, "b"))
}
