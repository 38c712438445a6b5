package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/facture/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows the current generation stage on one terminal line until it is
// stopped or its context ends.
type Spinner struct {
	w       io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	message string
	width   int // widest line drawn, for clearing
	started bool
}

// newSpinnerWithContext creates a spinner on stderr that stops with ctx.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return newSpinner(ctx, os.Stderr, message)
}

func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.message) + 4; n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Message returns the text currently shown.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Stop stops the spinner and clears the line. It may be called more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context has ended.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// stageHooks forwards pipeline events and names the current stage on the
// spinner.
type stageHooks struct {
	observability.PipelineHooks
	spinner *Spinner
}

// followStages makes s track the pipeline stages until the returned func is
// called.
func followStages(s *Spinner) (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(stageHooks{PipelineHooks: prev, spinner: s})
	return func() { observability.SetPipelineHooks(prev) }
}

func (h stageHooks) OnNumberAssigned(ctx context.Context, kind, invoiceID string, d time.Duration, err error) {
	h.PipelineHooks.OnNumberAssigned(ctx, kind, invoiceID, d, err)
	if err == nil {
		h.spinner.SetMessage("Numbered " + invoiceID)
	}
}

func (h stageHooks) OnRenderStart(ctx context.Context, invoiceID string, items int) {
	h.PipelineHooks.OnRenderStart(ctx, invoiceID, items)
	h.spinner.SetMessage("Rendering " + invoiceID + " (" + strconv.Itoa(items) + " items)...")
}

func (h stageHooks) OnRenderComplete(ctx context.Context, invoiceID string, size int, d time.Duration, err error) {
	h.PipelineHooks.OnRenderComplete(ctx, invoiceID, size, d, err)
	if err == nil {
		h.spinner.SetMessage("Writing " + invoiceID + " (" + formatBytes(size) + ")...")
	}
}

func (h stageHooks) OnWriteComplete(ctx context.Context, path string, d time.Duration, err error) {
	h.PipelineHooks.OnWriteComplete(ctx, path, d, err)
	if err == nil {
		h.spinner.SetMessage("Recording " + path + "...")
	}
}
