package extract

import "fmt"

// IDAllocator hands out stable symbol IDs for one file.
//
// Base form is "{file}::{name}", or "{file}::{Container}.{name}" when a
// container is supplied. Collisions are keyed on the bare name: the first
// use of a name keeps the base ID, later uses get a ":L{line}" suffix. The
// asymmetry is deliberate so IDs stay stable when later symbols collide
// with earlier ones.
type IDAllocator struct {
	names map[string]bool
	ids   map[string]bool
}

// NewIDAllocator returns an allocator scoped to a single file.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{
		names: make(map[string]bool),
		ids:   make(map[string]bool),
	}
}

// Assign returns the unique ID for a symbol and records it.
func (a *IDAllocator) Assign(file, container, name string, line int) string {
	qualified := name
	if container != "" {
		qualified = container + "." + name
	}
	id := file + "::" + qualified

	if !a.names[name] && !a.ids[id] {
		a.names[name] = true
		a.ids[id] = true
		return id
	}

	a.names[name] = true
	suffixed := fmt.Sprintf("%s:L%d", id, line)
	for n := 2; a.ids[suffixed]; n++ {
		suffixed = fmt.Sprintf("%s:L%d:%d", id, line, n)
	}
	a.ids[suffixed] = true
	return suffixed
}
