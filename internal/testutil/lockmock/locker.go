package lockmock

import (
	"context"
	"sync"

	domain "obras-backend/internal/domain/lock"
)

var _ domain.Locker = (*Locker)(nil)

// Locker is a function-backed mock. With ObtainFn unset it behaves as an
// in-process mutex table that fails fast on held keys, and counts calls.
type Locker struct {
	ObtainFn func(ctx context.Context, key string) (domain.Release, error)

	mu       sync.Mutex
	held     map[string]bool
	Obtained []string
	Released []string
}

func (m *Locker) Obtain(ctx context.Context, key string) (domain.Release, error) {
	if m.ObtainFn != nil {
		return m.ObtainFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held == nil {
		m.held = map[string]bool{}
	}
	if m.held[key] {
		return nil, domain.ErrNotObtained
	}
	m.held[key] = true
	m.Obtained = append(m.Obtained, key)
	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.held, key)
		m.Released = append(m.Released, key)
		return nil
	}, nil
}
