package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)}
}

func TestNoticeBoardAutoDismiss(t *testing.T) {
	clock := newFakeClock()
	b := NewNoticeBoard(5*time.Second, clock.Now)

	b.Show("Item not supported.", KindInput)
	n, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "Item not supported.", n.Message)
	assert.Equal(t, KindInput, n.Kind)

	clock.Advance(5 * time.Second)
	_, ok = b.Current()
	assert.False(t, ok)
}

func TestNoticeBoardReplaceResetsTimer(t *testing.T) {
	clock := newFakeClock()
	b := NewNoticeBoard(5*time.Second, clock.Now)

	b.Show("first", KindInput)
	clock.Advance(4 * time.Second)
	b.Show("second", KindState)
	clock.Advance(4 * time.Second)

	n, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "second", n.Message)
}

func TestNoticeBoardShowErrorAndDismiss(t *testing.T) {
	b := NewNoticeBoard(0, nil)

	b.ShowError(&StaleItemError{Item: "caviar"})
	n, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "Item 'caviar' not available.", n.Message)
	assert.Equal(t, KindState, n.Kind)

	b.Dismiss()
	_, ok = b.Current()
	assert.False(t, ok)
}
