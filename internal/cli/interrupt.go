package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler turns SIGINT and SIGTERM into context cancellation
// and tells the user what was kept.
type InterruptHandler struct {
	writer      io.Writer
	cancelFunc  context.CancelFunc
	operation   string
	keptMessage string
	interrupted bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a handler that reports on writer, or stdout when nil.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{
		writer:    writer,
		operation: "Operation",
	}
}

// HandleInterrupts returns a context canceled on the first interrupt.
// operation names what was interrupted; kept, when set, says what survived.
// Signal handling stops once ctx is done.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, operation, kept string) context.Context {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancelFunc = cancel
	if operation != "" {
		h.operation = operation
	}
	h.keptMessage = kept
	h.mu.Unlock()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			h.interrupt()
		case <-ctx.Done():
		}
	}()

	return ctx
}

func (h *InterruptHandler) interrupt() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.interrupted {
		return
	}
	h.interrupted = true
	h.showInterruptMessage()
	if h.cancelFunc != nil {
		h.cancelFunc()
	}
}

func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n\n" + FormatWarning(h.operation+" interrupted!")
	if h.keptMessage != "" {
		msg += "\n" + FormatInfo(h.keptMessage)
	}
	msg += "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted reports whether a signal arrived.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
