package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// Hook is a cleanup function run at shutdown.
type Hook func(context.Context) error

// Handler handles graceful shutdown.
type Handler struct {
	timeout time.Duration
	hooks   []Hook
	mu      sync.Mutex
	once    sync.Once
	err     error
	done    chan struct{}
	busy    atomic.Bool

	// exit terminates the process after a signal-triggered shutdown.
	exit func(code int)
}

// Option configures a Handler.
type Option func(*Handler)

// WithExit replaces the process exit function used after a signal.
func WithExit(exit func(code int)) Option {
	return func(h *Handler) {
		h.exit = exit
	}
}

// NewHandler creates a new shutdown handler.
func NewHandler(timeout time.Duration, opts ...Option) *Handler {
	h := &Handler{
		timeout: timeout,
		hooks:   make([]Hook, 0),
		done:    make(chan struct{}),
		exit:    os.Exit,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnShutdown registers a shutdown hook.
// Hooks are called in reverse order of registration.
func (h *Handler) OnShutdown(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// SetBusy marks whether a command is currently running.
func (h *Handler) SetBusy(busy bool) {
	h.busy.Store(busy)
}

// Busy reports whether a command is currently running.
func (h *Handler) Busy() bool {
	return h.busy.Load()
}

// Shutdown runs every hook once and returns the joined hook errors.
// Later calls return the result of the first.
func (h *Handler) Shutdown() error {
	h.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		h.mu.Lock()
		hooks := make([]Hook, len(h.hooks))
		copy(hooks, h.hooks)
		h.mu.Unlock()

		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		h.err = errors.Join(errs...)
		close(h.done)
	})
	return h.err
}

// Listen waits for termination signals until ctx is cancelled or the
// handler has shut down.
func (h *Handler) Listen(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case sig := <-sigCh:
			if h.handle(sig) {
				return
			}
		case <-ctx.Done():
			return
		case <-h.done:
			return
		}
	}
}

// handle reacts to one signal and reports whether the handler exited.
func (h *Handler) handle(sig os.Signal) bool {
	if sig == syscall.SIGINT && h.Busy() {
		return false
	}
	_ = h.Shutdown()
	h.exit(0)
	return true
}

// Done returns a channel that closes when shutdown is complete.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
