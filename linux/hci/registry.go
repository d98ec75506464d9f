package hci

import (
	"sort"
	"sync"

	"github.com/rigado/barnowl"
)

// Receiver is the identity of the controller behind an origin.
type Receiver struct {
	ID   string
	Type barnowl.IdentifierType
}

// Registry maps each origin to the last address its controller reported.
// Entries are replaced whole and never expire.
type Registry struct {
	mu        sync.RWMutex
	receivers map[string]Receiver
}

func NewRegistry() *Registry {
	return &Registry{receivers: map[string]Receiver{}}
}

// Resolve returns the receiver for origin, if its address is known.
func (r *Registry) Resolve(origin string) (Receiver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rx, ok := r.receivers[origin]
	return rx, ok
}

// Update records the controller address for the packet's origin.
func (r *Registry) Update(p *ControllerAddress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receivers[p.Origin()] = Receiver{ID: p.Address, Type: barnowl.IdentifierTypeEUI48}
}

// Origins lists the origins with a known receiver.
func (r *Registry) Origins() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	oo := make([]string, 0, len(r.receivers))
	for o := range r.receivers {
		oo = append(oo, o)
	}
	sort.Strings(oo)
	return oo
}
