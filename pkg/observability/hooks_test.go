package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnNumberAssigned(ctx, "facture", "F00120261018", time.Millisecond, nil)
	p.OnRenderStart(ctx, "F00120261018", 4)
	p.OnRenderComplete(ctx, "F00120261018", 2048, time.Second, nil)
	p.OnWriteComplete(ctx, "/tmp/f.pdf", time.Millisecond, nil)

	// Ledger hooks
	l := NoopLedgerHooks{}
	l.OnRecordStored(ctx, "file", "F00120261018", time.Millisecond, nil)
	l.OnRecordLookup(ctx, "file", true)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/invoices")
	h.OnResponse(ctx, "POST", "/invoices", 200, time.Second)
	h.OnError(ctx, "POST", "/invoices", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Ledger().(NoopLedgerHooks); !ok {
		t.Error("Ledger() should return NoopLedgerHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customLedger := &testLedgerHooks{}
	SetLedgerHooks(customLedger)
	if Ledger() != customLedger {
		t.Error("SetLedgerHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnRenderComplete(ctx, "F00120261018", 2048, time.Millisecond, nil)
	h.OnRecordStored(ctx, "mongo", "F00120261018", time.Millisecond, errors.New("connection refused"))
	h.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"rendered", "F00120261018", "ledger write failed", "connection refused", "/healthz"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestNewLogHooksNilLogger(t *testing.T) {
	if NewLogHooks(nil).logger == nil {
		t.Error("NewLogHooks(nil) should fall back to the default logger")
	}
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testLedgerHooks struct{ NoopLedgerHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
