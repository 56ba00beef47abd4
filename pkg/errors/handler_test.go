package errors

import (
	stderrors "errors"
	"testing"
	"time"
)

func TestRecoverMiddlewareCountsPanics(t *testing.T) {
	h := NewErrorHandler("", nil, WithThreshold(1000, time.Hour))
	defer h.Stop()

	handler = h
	defer func() { handler = nil }()

	func() {
		defer RecoverMiddleware()()
		panic("boom")
	}()

	if got := h.Count(); got != 1 {
		t.Errorf("Count() = %v, want %v", got, 1)
	}
}

func TestHandleErrorSkipsOperatorMistakes(t *testing.T) {
	h := NewErrorHandler("", nil, WithThreshold(1000, time.Hour))
	defer h.Stop()

	h.HandleError(NotFound("client", "x"), "renew")
	h.HandleError(ValidationMissing("planId"), "create")
	h.HandleError(nil, "noop")
	if got := h.Total(); got != 0 {
		t.Errorf("Total() = %v, want %v", got, 0)
	}

	h.HandleError(stderrors.New("unexpected"), "dashboard")
	if got := h.Total(); got != 1 {
		t.Errorf("Total() = %v, want %v", got, 1)
	}
}

func TestStorageOutageDoesNotShutDown(t *testing.T) {
	exited := make(chan int, 1)
	h := NewErrorHandler("", nil, WithExit(func(code int) { exited <- code }))
	defer h.Stop()

	for i := 0; i < 16; i++ {
		h.HandleError(StorageUnavailable(nil, "list clients"), "dashboard")
	}

	select {
	case code := <-exited:
		t.Fatalf("handler exited with %d during a store outage", code)
	case <-time.After(1500 * time.Millisecond):
	}

	if got := h.Count(); got != 0 {
		t.Errorf("Count() = %v, want %v", got, 0)
	}
	if got := h.StorageErrors(); got != 16 {
		t.Errorf("StorageErrors() = %v, want %v", got, 16)
	}
}

func TestClaimStorageReportThrottles(t *testing.T) {
	h := NewErrorHandler("", nil, WithThreshold(1000, time.Hour))
	defer h.Stop()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if !h.claimStorageReport(now) {
		t.Error("first report should be sent")
	}
	if h.claimStorageReport(now.Add(30 * time.Second)) {
		t.Error("report inside the interval should be dropped")
	}
	if !h.claimStorageReport(now.Add(storageReportInterval)) {
		t.Error("report after the interval should be sent")
	}
}

func TestShutdownOnTooManyErrors(t *testing.T) {
	exited := make(chan int, 1)
	shutdownCalled := make(chan struct{}, 1)

	h := NewErrorHandler("", func() { shutdownCalled <- struct{}{} },
		WithThreshold(2, time.Hour),
		WithExit(func(code int) { exited <- code }),
	)
	defer h.Stop()

	for i := 0; i < 3; i++ {
		h.IncrementError()
	}

	select {
	case code := <-exited:
		if code != 1 {
			t.Errorf("exit code = %v, want %v", code, 1)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("handler did not shut down")
	}

	select {
	case <-shutdownCalled:
	default:
		t.Error("shutdown func was not called")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := NewErrorHandler("", nil)
	h.Stop()
	h.Stop()
}
