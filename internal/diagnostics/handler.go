package diagnostics

import (
	"errors"
)

// ErrAborted is returned by a Handler that refuses further diagnostics.
var ErrAborted = errors.New("too many errors")

// Handler receives diagnostics one at a time.
// A non-nil return asks the caller to stop; it is treated as an ordinary unwind.
type Handler interface {
	Handle(err *DiagnosticError) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(err *DiagnosticError) error

func (f HandlerFunc) Handle(err *DiagnosticError) error { return f(err) }

// Collector accumulates diagnostics and aborts once Max have been collected.
// Max <= 0 means no limit.
type Collector struct {
	Max    int
	errors []*DiagnosticError
}

func NewCollector(max int) *Collector {
	return &Collector{Max: max}
}

func (c *Collector) Handle(err *DiagnosticError) error {
	c.errors = append(c.errors, err)
	if c.Max > 0 && len(c.errors) >= c.Max {
		return ErrAborted
	}
	return nil
}

// Errors returns the collected diagnostics in arrival order.
func (c *Collector) Errors() []*DiagnosticError { return c.errors }

func (c *Collector) HasErrors() bool { return len(c.errors) > 0 }

// Reset drops collected diagnostics.
func (c *Collector) Reset() { c.errors = nil }

// Tee forwards each diagnostic to all handlers and returns the first abort.
func Tee(handlers ...Handler) Handler {
	return HandlerFunc(func(err *DiagnosticError) error {
		var abort error
		for _, h := range handlers {
			if e := h.Handle(err); e != nil && abort == nil {
				abort = e
			}
		}
		return abort
	})
}
