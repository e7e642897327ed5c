package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/wardlink/internal/tray"
)

func TestShowStacksInArrivalOrder(t *testing.T) {
	s := NewStack()
	s.Show("one", tray.SeverityInfo, 0)
	s.Show("two", tray.SeverityError, 0)
	s.Show("three", tray.SeveritySuccess, 0)

	active := s.Active()
	require.Len(t, active, 3)
	assert.Equal(t, "one", active[0].Message)
	assert.Equal(t, "three", active[2].Message)
	for _, tst := range active {
		assert.Equal(t, StateVisible, tst.State)
	}
}

func TestPersistentToastStaysUntilDismissed(t *testing.T) {
	s := NewStackWithTransition(time.Millisecond)
	tst := s.Show("maintenance window", tray.SeverityWarning, 0)
	require.True(t, tst.Persistent())

	time.Sleep(30 * time.Millisecond)
	require.Len(t, s.Active(), 1, "duration zero must never auto-dismiss")

	assert.True(t, s.Dismiss(tst.ID))
	assert.Empty(t, s.Active())
	assert.False(t, s.Dismiss(tst.ID))
}

func TestTransientToastClosesThenDetaches(t *testing.T) {
	s := NewStackWithTransition(20 * time.Millisecond)
	s.Show("saved", tray.SeveritySuccess, 10*time.Millisecond)

	// Visible, then closing, then gone.
	require.Eventually(t, func() bool {
		active := s.Active()
		return len(active) == 1 && active[0].State == StateClosing
	}, time.Second, time.Millisecond)

	require.Eventually(t, func() bool { return len(s.Active()) == 0 },
		time.Second, time.Millisecond)
}

func TestDismissCancelsPendingTimers(t *testing.T) {
	s := NewStackWithTransition(time.Millisecond)
	tst := s.Show("saved", tray.SeverityInfo, 50*time.Millisecond)
	require.True(t, s.Dismiss(tst.ID))
	assert.Empty(t, s.Active())

	// The cancelled timer must not resurrect or double-remove anything.
	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, s.Active())
}

func TestShowDefaultsInvalidSeverity(t *testing.T) {
	s := NewStack()
	tst := s.Show("x", tray.Severity("bogus"), 0)
	assert.Equal(t, tray.SeverityInfo, tst.Severity)
}

func TestNoStackLimit(t *testing.T) {
	s := NewStack()
	for i := 0; i < 25; i++ {
		s.Show("alert", tray.SeverityError, 0)
	}
	assert.Len(t, s.Active(), 25)
}
