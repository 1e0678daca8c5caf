package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModalKind(t *testing.T) {
	for _, name := range []string{"quick-view", "checkout", "search"} {
		kind, err := ParseModalKind(name)
		require.NoError(t, err)
		assert.Equal(t, ModalKind(name), kind)
	}

	_, err := ParseModalKind("newsletter")
	assert.ErrorIs(t, err, ErrUnknownModal)
}

func TestModalOpenReplacesSameKind(t *testing.T) {
	m := newModals(newClock().Now)

	m.Open(ModalQuickView, "lip-001")
	m.Open(ModalQuickView, "eye-001")
	m.Open(ModalSearch, "")

	mounted := m.Mounted()
	require.Len(t, mounted, 2)
	assert.Equal(t, ModalSearch, mounted[0].Kind)
	assert.Equal(t, "eye-001", mounted[1].ProductID)
}

func TestModalClosingPhase(t *testing.T) {
	c := newClock()
	m := newModals(c.Now)

	m.Open(ModalCheckout, "")
	assert.True(t, m.Close(ModalCheckout))
	assert.False(t, m.Close(ModalCheckout), "already closing")

	modal, ok := m.Get(ModalCheckout)
	require.True(t, ok)
	assert.True(t, modal.Closing)
	assert.False(t, m.IsOpen(ModalCheckout))

	c.Advance(ModalCloseDelay - time.Millisecond)
	_, ok = m.Get(ModalCheckout)
	assert.True(t, ok)

	c.Advance(time.Millisecond)
	_, ok = m.Get(ModalCheckout)
	assert.False(t, ok)
	assert.False(t, m.Close(ModalCheckout))
}

func TestModalReopenDuringClose(t *testing.T) {
	c := newClock()
	m := newModals(c.Now)

	m.Open(ModalQuickView, "lip-001")
	m.Close(ModalQuickView)
	m.Open(ModalQuickView, "eye-001")

	c.Advance(time.Second)
	assert.True(t, m.IsOpen(ModalQuickView))
}

func TestNotificationsReplaceAndExpire(t *testing.T) {
	c := newClock()
	n := newNotifications(c.Now)

	_, ok := n.Current()
	assert.False(t, ok)

	n.Show("first", LevelInfo)
	n.Show("second", LevelError)
	note, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "second", note.Message)

	c.Advance(NotificationTTL)
	_, ok = n.Current()
	assert.False(t, ok)

	n.Show("third", LevelSuccess)
	n.Dismiss()
	_, ok = n.Current()
	assert.False(t, ok)
}
