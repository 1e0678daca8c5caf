package session

import (
	"errors"
	"sync"
	"time"
)

// ModalKind names one of the overlay dialogs.
type ModalKind string

const (
	ModalQuickView ModalKind = "quick-view"
	ModalCheckout  ModalKind = "checkout"
	ModalSearch    ModalKind = "search"
)

// ModalCloseDelay is how long a closing modal stays mounted for its exit transition.
const ModalCloseDelay = 300 * time.Millisecond

var ErrUnknownModal = errors.New("unknown modal")

// ParseModalKind validates a modal name from a request.
func ParseModalKind(s string) (ModalKind, error) {
	switch k := ModalKind(s); k {
	case ModalQuickView, ModalCheckout, ModalSearch:
		return k, nil
	}
	return "", ErrUnknownModal
}

// Modal is a mounted dialog. Closing is set once close was requested.
type Modal struct {
	Kind      ModalKind `json:"kind"`
	ProductID string    `json:"product_id,omitempty"`
	Closing   bool      `json:"closing"`
}

type modalEntry struct {
	Modal
	closeAt time.Time
}

// Modals tracks at most one dialog per kind. Opening a kind replaces the mounted one.
type Modals struct {
	mu      sync.Mutex
	entries map[ModalKind]*modalEntry
	now     func() time.Time
}

func newModals(now func() time.Time) *Modals {
	return &Modals{entries: map[ModalKind]*modalEntry{}, now: now}
}

// Open mounts kind, replacing any dialog of the same kind, closing or not.
func (m *Modals) Open(kind ModalKind, productID string) Modal {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &modalEntry{Modal: Modal{Kind: kind, ProductID: productID}}
	m.entries[kind] = e
	return e.Modal
}

// Close starts the closing phase; the dialog is removed after ModalCloseDelay.
// It reports whether a dialog of that kind was open.
func (m *Modals) Close(kind ModalKind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()
	e, ok := m.entries[kind]
	if !ok || e.Closing {
		return false
	}
	e.Closing = true
	e.closeAt = m.now().Add(ModalCloseDelay)
	return true
}

// Get returns the mounted dialog of kind.
func (m *Modals) Get(kind ModalKind) (Modal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()
	e, ok := m.entries[kind]
	if !ok {
		return Modal{}, false
	}
	return e.Modal, true
}

// IsOpen reports whether kind is mounted and not closing.
func (m *Modals) IsOpen(kind ModalKind) bool {
	modal, ok := m.Get(kind)
	return ok && !modal.Closing
}

// Mounted lists the dialogs still on screen in a fixed kind order.
func (m *Modals) Mounted() []Modal {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()
	out := make([]Modal, 0, len(m.entries))
	for _, kind := range []ModalKind{ModalSearch, ModalQuickView, ModalCheckout} {
		if e, ok := m.entries[kind]; ok {
			out = append(out, e.Modal)
		}
	}
	return out
}

func (m *Modals) pruneLocked() {
	now := m.now()
	for kind, e := range m.entries {
		if e.Closing && !now.Before(e.closeAt) {
			delete(m.entries, kind)
		}
	}
}
