// Package errors defines the console's error taxonomy and the anti-crash
// handler that keeps panics inside request and interaction handlers from
// taking the process down.
package errors

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"

	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

// ErrorHandler counts errors in a sliding window and shuts the process down
// when the count gets out of hand.
type ErrorHandler struct {
	errorCount    int32
	totalErrors   int64
	storageErrors int64
	lastReport    int64 // unix nanos of the last storage report
	webhookURL    string
	httpClient    *http.Client
	stopChan      chan struct{}
	stopOnce      sync.Once
	shutdownFunc  func()
	exitFunc      func(int)
	maxErrors     int32
	resetInterval time.Duration
	checkInterval time.Duration
}

// ReportErrorOptions contains options for reporting an error
type ReportErrorOptions struct {
	Error   string
	Message string
}

// Option tunes a handler
type Option func(*ErrorHandler)

// WithThreshold changes how many errors per window trigger a shutdown
func WithThreshold(maxErrors int32, window time.Duration) Option {
	return func(h *ErrorHandler) {
		h.maxErrors = maxErrors
		h.resetInterval = window
	}
}

// WithExit replaces os.Exit
func WithExit(exit func(int)) Option {
	return func(h *ErrorHandler) {
		h.exitFunc = exit
	}
}

var (
	handler *ErrorHandler
	once    sync.Once
)

const storageReportInterval = time.Minute

// Init initializes the global error handler
func Init(webhookURL string, shutdownFunc func(), opts ...Option) *ErrorHandler {
	once.Do(func() {
		handler = NewErrorHandler(webhookURL, shutdownFunc, opts...)
	})
	return handler
}

// Get returns the global error handler instance
func Get() *ErrorHandler {
	return handler
}

// NewErrorHandler creates a new ErrorHandler instance
func NewErrorHandler(webhookURL string, shutdownFunc func(), opts ...Option) *ErrorHandler {
	h := &ErrorHandler{
		webhookURL:    webhookURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		stopChan:      make(chan struct{}),
		shutdownFunc:  shutdownFunc,
		exitFunc:      os.Exit,
		maxErrors:     15,
		resetInterval: 5 * time.Second,
		checkInterval: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.start()
	return h
}

func (h *ErrorHandler) start() {
	go func() {
		ticker := time.NewTicker(h.resetInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				atomic.StoreInt32(&h.errorCount, 0)
			case <-h.stopChan:
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(h.checkInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if atomic.LoadInt32(&h.errorCount) > h.maxErrors {
					h.shutdown()
					return
				}
			case <-h.stopChan:
				return
			}
		}
	}()
}

func (h *ErrorHandler) shutdown() {
	start := time.Now()
	logger.Critical("Too many errors in a short window, shutting down", "AntiCrash")

	h.Report(ReportErrorOptions{
		Error:   "Critical Error",
		Message: "Número incomum de erros. Encerrando o console...",
	})

	if h.shutdownFunc != nil {
		h.shutdownFunc()
	}

	logger.Warn(fmt.Sprintf("Process finished after %v", time.Since(start)), "AntiCrash")
	h.exitFunc(1)
}

// Stop stops the monitoring goroutines
func (h *ErrorHandler) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

// IncrementError increments the error count
func (h *ErrorHandler) IncrementError() {
	count := atomic.AddInt32(&h.errorCount, 1)
	atomic.AddInt64(&h.totalErrors, 1)
	logger.Debug(fmt.Sprintf("Error count: %d", count), "AntiCrash")
}

// Count returns the errors seen in the current window
func (h *ErrorHandler) Count() int32 {
	return atomic.LoadInt32(&h.errorCount)
}

// Total returns every error seen since start
func (h *ErrorHandler) Total() int64 {
	return atomic.LoadInt64(&h.totalErrors)
}

// HandlePanic handles a recovered panic
func (h *ErrorHandler) HandlePanic(recovered interface{}) {
	h.IncrementError()
	logger.Error(fmt.Sprintf("Unhandled panic: %v", recovered), "AntiCrash")
}

// HandleError counts an operation failure. Not-found and validation errors are
// operator mistakes and are ignored. Store outages are logged and reported to
// the webhook at most once per storageReportInterval, but never counted: the
// console keeps serving a failure state until the store comes back.
func (h *ErrorHandler) HandleError(err error, where string) {
	if err == nil {
		return
	}
	if IsNotFound(err) || IsValidation(err) {
		return
	}
	if IsStorage(err) {
		atomic.AddInt64(&h.storageErrors, 1)
		logger.Error(fmt.Sprintf("%s: %v", where, err), "AntiCrash")
		if h.claimStorageReport(time.Now()) {
			go h.Report(ReportErrorOptions{Error: "StorageUnavailable", Message: fmt.Sprintf("%s: %v", where, err)})
		}
		return
	}
	h.IncrementError()
	logger.Error(fmt.Sprintf("%s: %v", where, err), "AntiCrash")
}

// StorageErrors returns the store outages seen since start
func (h *ErrorHandler) StorageErrors() int64 {
	return atomic.LoadInt64(&h.storageErrors)
}

// claimStorageReport reports whether a storage error seen at now may go to the webhook
func (h *ErrorHandler) claimStorageReport(now time.Time) bool {
	for {
		last := atomic.LoadInt64(&h.lastReport)
		if last != 0 && now.UnixNano()-last < int64(storageReportInterval) {
			return false
		}
		if atomic.CompareAndSwapInt64(&h.lastReport, last, now.UnixNano()) {
			return true
		}
	}
}

// Report sends an error report to the Discord webhook
func (h *ErrorHandler) Report(data ReportErrorOptions) {
	if h.webhookURL == "" {
		return
	}

	embed := map[string]interface{}{
		"author": map[string]string{
			"name": fmt.Sprintf("Error %s", data.Error),
		},
		"description": data.Message,
		"color":       0xFF0000,
		"footer": map[string]string{
			"text": "WTV Console",
		},
		"timestamp": time.Now().Format(time.RFC3339),
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to marshal error report: %v", err), "AntiCrash")
		return
	}

	req, err := http.NewRequest(http.MethodPost, h.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to create webhook request: %v", err), "AntiCrash")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send error report: %v", err), "AntiCrash")
		return
	}
	defer resp.Body.Close()

	logger.Warn(fmt.Sprintf("Sent error report to webhook, status: %d", resp.StatusCode), "AntiCrash")
}

// RecoverMiddleware returns a recovery function for use in deferred calls
func RecoverMiddleware() func() {
	return func() {
		if r := recover(); r != nil {
			if handler != nil {
				handler.HandlePanic(r)
			} else {
				logger.Error(fmt.Sprintf("Panic recovered (no handler): %v", r), "AntiCrash")
			}
		}
	}
}
