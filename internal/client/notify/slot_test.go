package notify

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_ReplacesCurrent(t *testing.T) {
	s := New(0)

	_, ok := s.Current()
	require.False(t, ok)

	s.Notify(models.Success("Task created"))
	s.Notify(models.Failure("Failed to delete task"))

	n, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, models.Failure("Failed to delete task"), n)
}

func TestSlot_Dismiss(t *testing.T) {
	s := New(0)
	s.Notify(models.Success("ok"))
	s.Dismiss()

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSlot_AutoHide(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(DefaultTTL)
	s.now = func() time.Time { return now }

	s.Notify(models.Success("ok"))

	now = now.Add(DefaultTTL - time.Millisecond)
	_, ok := s.Current()
	assert.True(t, ok)

	now = now.Add(time.Millisecond)
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestSlot_Subscribers(t *testing.T) {
	s := New(0)
	var got []string
	s.Subscribe(func(n models.Notification) { got = append(got, "a:"+n.Message) })
	s.Subscribe(func(n models.Notification) { got = append(got, "b:"+n.Message) })

	s.Notify(models.Success("x"))
	assert.Equal(t, []string{"a:x", "b:x"}, got)
}
