package scope

import (
	"errors"
	"fmt"
)

// ErrRedeclared is returned by Declare when the name already exists in the current frame.
var ErrRedeclared = errors.New("already declared in this scope")

// ErrUndefined is returned by Assign when no frame defines the name.
var ErrUndefined = errors.New("undefined")

type frame[T any] struct {
	vars   map[string]T
	parent int // index into Chain.frames, -1 for a root
}

// Chain is a stack of scope frames stored in one arena.
// The current frame is always the last one; parents are addressed by index.
// A frame pushed with PushRoot does not see the frames below it, which is
// how function calls get a fresh environment.
type Chain[T any] struct {
	frames []frame[T]
}

// New creates a chain holding a single root frame.
func New[T any]() *Chain[T] {
	c := &Chain[T]{}
	c.PushRoot()
	return c
}

// Push enters a block: the new frame's parent is the current frame.
func (c *Chain[T]) Push() {
	c.frames = append(c.frames, frame[T]{vars: make(map[string]T), parent: len(c.frames) - 1})
}

// PushRoot enters a frame with no parent.
func (c *Chain[T]) PushRoot() {
	c.frames = append(c.frames, frame[T]{vars: make(map[string]T), parent: -1})
}

// Pop leaves the current frame.
func (c *Chain[T]) Pop() {
	if len(c.frames) == 0 {
		panic("scope: pop on empty chain")
	}
	c.frames = c.frames[:len(c.frames)-1]
}

// Depth is the number of frames in the arena.
func (c *Chain[T]) Depth() int { return len(c.frames) }

// Unwind pops frames until Depth() == depth.
func (c *Chain[T]) Unwind(depth int) {
	if depth < 0 {
		depth = 0
	}
	if depth < len(c.frames) {
		c.frames = c.frames[:depth]
	}
}

// Lookup searches the current frame and then its parents.
func (c *Chain[T]) Lookup(name string) (T, bool) {
	for i := len(c.frames) - 1; i >= 0; i = c.frames[i].parent {
		if v, ok := c.frames[i].vars[name]; ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// LookupLocal searches the current frame only.
func (c *Chain[T]) LookupLocal(name string) (T, bool) {
	var zero T
	if len(c.frames) == 0 {
		return zero, false
	}
	v, ok := c.frames[len(c.frames)-1].vars[name]
	return v, ok
}

// Declare adds name to the current frame. Shadowing a parent is allowed.
func (c *Chain[T]) Declare(name string, v T) error {
	if _, ok := c.LookupLocal(name); ok {
		return fmt.Errorf("%q: %w", name, ErrRedeclared)
	}
	c.Define(name, v)
	return nil
}

// Define sets name in the current frame, overwriting any local binding.
func (c *Chain[T]) Define(name string, v T) {
	if len(c.frames) == 0 {
		c.PushRoot()
	}
	c.frames[len(c.frames)-1].vars[name] = v
}

// Assign updates the nearest frame that defines name.
func (c *Chain[T]) Assign(name string, v T) error {
	for i := len(c.frames) - 1; i >= 0; i = c.frames[i].parent {
		if _, ok := c.frames[i].vars[name]; ok {
			c.frames[i].vars[name] = v
			return nil
		}
	}
	return fmt.Errorf("%q: %w", name, ErrUndefined)
}

// Names lists the names visible from the current frame, innermost first.
func (c *Chain[T]) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for i := len(c.frames) - 1; i >= 0; i = c.frames[i].parent {
		for name := range c.frames[i].vars {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
