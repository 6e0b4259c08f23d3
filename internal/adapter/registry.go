package adapter

import (
	"context"
	"fmt"
	"log"
	"sync"

	"daoview/internal/domain"
)

// Registry holds the adapters in priority order. The fallback adapter is
// always consulted last and must accept every contract.
type Registry struct {
	mu       sync.RWMutex
	adapters []DaoAdapter
	fallback DaoAdapter
}

// NewRegistry creates a registry around fallback. It panics when fallback is nil.
func NewRegistry(fallback DaoAdapter) *Registry {
	if fallback == nil {
		panic("adapter: registry requires a fallback adapter")
	}
	return &Registry{fallback: fallback}
}

// Register appends a specialised adapter after those already registered
func (r *Registry) Register(adapter DaoAdapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.all() {
		if existing.Kind() == adapter.Kind() {
			return fmt.Errorf("adapter kind %s already registered", adapter.Kind())
		}
	}

	r.adapters = append(r.adapters, adapter)
	log.Printf("Registered adapter: %s (kind=%s, priority=%d)", adapter.Name(), adapter.Kind(), len(r.adapters)-1)
	return nil
}

// SelectAdapter returns the first adapter whose CanHandle probe succeeds.
// Probes run on every call. A probe that errors or panics counts as a no.
func (r *Registry) SelectAdapter(ctx context.Context, address string, network domain.Network) DaoAdapter {
	r.mu.RLock()
	adapters := append([]DaoAdapter(nil), r.adapters...)
	r.mu.RUnlock()

	for _, adapter := range adapters {
		if probeCanHandle(ctx, adapter, address, network) {
			return adapter
		}
	}
	return r.fallback
}

// Lookup returns the adapter registered for kind
func (r *Registry) Lookup(kind Kind) (DaoAdapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, adapter := range r.all() {
		if adapter.Kind() == kind {
			return adapter, true
		}
	}
	return nil, false
}

// ListAdapters returns the adapters in selection order
func (r *Registry) ListAdapters() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.all()
	infos := make([]Info, 0, len(all))
	for i, adapter := range all {
		infos = append(infos, Info{
			Name:     adapter.Name(),
			Kind:     adapter.Kind(),
			Priority: i,
			Fallback: adapter == r.fallback,
		})
	}
	return infos
}

func (r *Registry) all() []DaoAdapter {
	return append(append([]DaoAdapter(nil), r.adapters...), r.fallback)
}

func probeCanHandle(ctx context.Context, adapter DaoAdapter, address string, network domain.Network) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Adapter %s panicked probing %s: %v", adapter.Name(), address, rec)
			ok = false
		}
	}()

	ok, err := adapter.CanHandle(ctx, address, network)
	if err != nil {
		log.Printf("Adapter %s cannot probe %s: %v", adapter.Name(), address, err)
		return false
	}
	return ok
}
