package object

import (
	"strings"

	"github.com/funvibe/tally/internal/config"
	"github.com/funvibe/tally/internal/typesystem"
)

// Collection is an ordered, mutable, index-addressable sequence.
type Collection struct {
	*Instance
	Elem  typesystem.Type
	Items []Object
}

// CollectionType is the class type of collections of elem.
func CollectionType(elem typesystem.Type) typesystem.Type {
	return typesystem.TApp{Name: config.CollectionClassName, Param: elem}
}

func NewCollection(elem typesystem.Type, items ...Object) *Collection {
	return &Collection{Instance: NewInstance(CollectionType(elem)), Elem: elem, Items: items}
}

func (c *Collection) Inspect() string {
	parts := make([]string, len(c.Items))
	for i, it := range c.Items {
		parts[i] = it.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (c *Collection) Len() int { return len(c.Items) }

func (c *Collection) bounds(i int64) *Fault {
	if i < 0 || i >= int64(len(c.Items)) {
		return NewFault(FaultIndexOutOfRange, "index %d out of range [0, %d)", i, len(c.Items))
	}
	return nil
}

// At returns the item at index i.
func (c *Collection) At(i int64) (Object, *Fault) {
	if f := c.bounds(i); f != nil {
		return nil, f
	}
	return c.Items[i], nil
}

// SetAt replaces the item at index i.
func (c *Collection) SetAt(i int64, v Object) *Fault {
	if f := c.bounds(i); f != nil {
		return f
	}
	c.Items[i] = v
	return nil
}

func (c *Collection) Add(v Object) {
	c.Items = append(c.Items, v)
}

// Delete removes the item at index i, shifting the rest down.
func (c *Collection) Delete(i int64) *Fault {
	if f := c.bounds(i); f != nil {
		return f
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return nil
}

func (c *Collection) First() (Object, *Fault) { return c.At(0) }

func (c *Collection) Last() (Object, *Fault) { return c.At(int64(len(c.Items)) - 1) }

// Copy returns a new collection with the same items. Items are shared.
func (c *Collection) Copy() *Collection {
	items := make([]Object, len(c.Items))
	copy(items, c.Items)
	return NewCollection(c.Elem, items...)
}

// Where returns a new collection with the items for which keep returns true.
func (c *Collection) Where(keep func(Object) (bool, *Fault)) (*Collection, *Fault) {
	out := NewCollection(c.Elem)
	for _, it := range c.Items {
		ok, f := keep(it)
		if f != nil {
			return nil, f
		}
		if ok {
			out.Add(it)
		}
	}
	return out, nil
}
