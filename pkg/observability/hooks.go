// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about document generation, ledger operations, and API
// requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the packages
// that emit events free of import cycles.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnRenderStart(ctx, inv.ID, len(inv.Items()))
//	// ... render ...
//	observability.Pipeline().OnRenderComplete(ctx, inv.ID, len(pdf), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from document generation.
type PipelineHooks interface {
	// Numbering events
	OnNumberAssigned(ctx context.Context, kind, invoiceID string, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, invoiceID string, items int)
	OnRenderComplete(ctx context.Context, invoiceID string, size int, duration time.Duration, err error)

	// Output events
	OnWriteComplete(ctx context.Context, path string, duration time.Duration, err error)
}

// =============================================================================
// Ledger Hooks
// =============================================================================

// LedgerHooks receives events from ledger operations.
type LedgerHooks interface {
	// OnRecordStored records a ledger write.
	OnRecordStored(ctx context.Context, backend, invoiceID string, duration time.Duration, err error)

	// OnRecordLookup records a ledger read by identifier.
	OnRecordLookup(ctx context.Context, backend string, found bool)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response status and latency.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request that failed with a coded error.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnNumberAssigned(context.Context, string, string, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnWriteComplete(context.Context, string, time.Duration, error)       {}

// NoopLedgerHooks is a no-op implementation of LedgerHooks.
type NoopLedgerHooks struct{}

func (NoopLedgerHooks) OnRecordStored(context.Context, string, string, time.Duration, error) {}
func (NoopLedgerHooks) OnRecordLookup(context.Context, string, bool)                         {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	ledgerHooks   LedgerHooks   = NoopLedgerHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetLedgerHooks registers custom ledger hooks.
func SetLedgerHooks(h LedgerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		ledgerHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Ledger returns the registered ledger hooks.
func Ledger() LedgerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return ledgerHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	ledgerHooks = NoopLedgerHooks{}
	httpHooks = NoopHTTPHooks{}
}
