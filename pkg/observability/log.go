package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level, failures at
// error level. It implements all three hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to the default logger
// when logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnNumberAssigned(_ context.Context, kind, invoiceID string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("numbering failed", "kind", kind, "err", err)
		return
	}
	h.logger.Debug("number assigned", "id", invoiceID, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, invoiceID string, items int) {
	h.logger.Debug("rendering", "id", invoiceID, "items", items)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, invoiceID string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("render failed", "id", invoiceID, "err", err)
		return
	}
	h.logger.Debug("rendered", "id", invoiceID, "bytes", size, "took", d)
}

func (h *LogHooks) OnWriteComplete(_ context.Context, path string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("write failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("written", "path", path, "took", d)
}

func (h *LogHooks) OnRecordStored(_ context.Context, backend, invoiceID string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("ledger write failed", "backend", backend, "id", invoiceID, "err", err)
		return
	}
	h.logger.Debug("recorded", "backend", backend, "id", invoiceID, "took", d)
}

func (h *LogHooks) OnRecordLookup(_ context.Context, backend string, found bool) {
	h.logger.Debug("ledger lookup", "backend", backend, "found", found)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.logger.Warn("request failed", "method", method, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ LedgerHooks   = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
