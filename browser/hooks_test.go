package browser

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/go-rod/rod"
)

func TestHooksRun_SyncErrorPropagates(t *testing.T) {
	var h Hooks
	wantErr := errors.New("boom")

	h.On(BeforeGoto, func(ctx context.Context, page *rod.Page) error {
		return wantErr
	}, false)

	if err := h.Run(context.Background(), BeforeGoto, nil); err == nil {
		t.Fatal("Run() error = nil, want non-nil")
	}
}

func TestHooksRun_NoHandlersIsNoop(t *testing.T) {
	var h Hooks
	if err := h.Run(context.Background(), OnExecutionStarted, nil); err != nil {
		t.Errorf("Run() with no handlers error = %v, want nil", err)
	}
}

func TestHooksOn_MultipleHandlersRunInRegistrationOrder(t *testing.T) {
	var h Hooks
	var calls []int

	h.On(AfterGoto, func(ctx context.Context, page *rod.Page) error {
		calls = append(calls, 1)
		return nil
	}, false)
	h.On(AfterGoto, func(ctx context.Context, page *rod.Page) error {
		calls = append(calls, 2)
		return nil
	}, false)

	if err := h.Run(context.Background(), AfterGoto, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("handlers ran out of order: %v", calls)
	}
}

func TestUniquePath_CollisionAppendsSuffix(t *testing.T) {
	dir := t.TempDir()
	first := uniquePath(dir, "report.pdf")
	if first == "" {
		t.Fatal("uniquePath() returned empty path")
	}
	if err := os.WriteFile(first, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	second := uniquePath(dir, "report.pdf")
	if second == first {
		t.Errorf("uniquePath() should avoid collision, got same path twice: %s", second)
	}
}
