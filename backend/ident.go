package tkbackend

import (
	"strconv"
	"sync"
)

// RootID is the identifier of the toplevel window that exists as soon as
// the host starts.
const RootID = "."

type idAllocator struct {
	mu   sync.Mutex
	next int
}

// allocate returns a new child identifier of parent. The numeric suffix is
// shared across all parents, so identifiers are unique for the life of the
// allocator even after the widgets they named are destroyed.
func (a *idAllocator) allocate(parent string) string {
	a.mu.Lock()
	a.next++
	n := a.next
	a.mu.Unlock()

	if parent == RootID {
		return ".r" + strconv.Itoa(n)
	}
	return parent + ".r" + strconv.Itoa(n)
}
