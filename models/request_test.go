package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.IsValid(), "status %s", s)
	}
	assert.False(t, RequestStatus("pending").IsValid())
	assert.False(t, RequestStatus("").IsValid())
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := []RequestStatus{StatusComplete, StatusDenied, StatusWithdrawn, StatusNoResponsiveRecords}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "status %s", s)
	}
	for _, s := range []RequestStatus{StatusDraft, StatusFiled, StatusProcessing, StatusExtended, StatusAppealed, StatusLitigation} {
		assert.False(t, s.IsTerminal(), "status %s", s)
	}
}

func TestEffectiveDeadline(t *testing.T) {
	deadline := day(2025, 6, 10)
	extended := day(2025, 6, 24)

	t.Run("no deadline", func(t *testing.T) {
		req := &Request{}
		assert.Nil(t, req.EffectiveDeadline())
	})

	t.Run("deadline only", func(t *testing.T) {
		req := &Request{Deadline: &deadline}
		require.NotNil(t, req.EffectiveDeadline())
		assert.Equal(t, deadline, *req.EffectiveDeadline())
	})

	t.Run("extension wins even when earlier", func(t *testing.T) {
		earlier := day(2025, 6, 1)
		req := &Request{Deadline: &deadline, ExtendedDeadline: &earlier}
		assert.Equal(t, earlier, *req.EffectiveDeadline())
	})

	t.Run("extension wins when later", func(t *testing.T) {
		req := &Request{Deadline: &deadline, ExtendedDeadline: &extended}
		assert.Equal(t, extended, *req.EffectiveDeadline())
	})
}

func TestIsOverdue(t *testing.T) {
	today := day(2025, 6, 2)
	past := day(2025, 5, 1)
	future := day(2025, 7, 1)

	t.Run("past deadline on active status", func(t *testing.T) {
		req := &Request{Status: StatusFiled, Deadline: &past}
		assert.True(t, req.IsOverdue(today))
	})

	t.Run("future deadline", func(t *testing.T) {
		req := &Request{Status: StatusFiled, Deadline: &future}
		assert.False(t, req.IsOverdue(today))
	})

	t.Run("deadline today is not overdue", func(t *testing.T) {
		req := &Request{Status: StatusFiled, Deadline: &today}
		assert.False(t, req.IsOverdue(today))
	})

	t.Run("terminal status never overdue", func(t *testing.T) {
		for _, s := range TerminalStatuses {
			req := &Request{Status: s, Deadline: &past}
			assert.False(t, req.IsOverdue(today), "status %s", s)
		}
	})

	t.Run("no deadline never overdue", func(t *testing.T) {
		req := &Request{Status: StatusFiled}
		assert.False(t, req.IsOverdue(today))
	})

	t.Run("future extension rescues past deadline", func(t *testing.T) {
		req := &Request{Status: StatusExtended, Deadline: &past, ExtendedDeadline: &future}
		assert.False(t, req.IsOverdue(today))
	})
}

func TestDaysUntilDeadline(t *testing.T) {
	today := day(2025, 6, 2)

	t.Run("no deadline", func(t *testing.T) {
		req := &Request{}
		_, ok := req.DaysUntilDeadline(today)
		assert.False(t, ok)
	})

	t.Run("counts forward", func(t *testing.T) {
		deadline := day(2025, 6, 10)
		req := &Request{Deadline: &deadline}
		days, ok := req.DaysUntilDeadline(today)
		require.True(t, ok)
		assert.Equal(t, 8, days)
	})

	t.Run("negative when past", func(t *testing.T) {
		deadline := day(2025, 5, 30)
		req := &Request{Deadline: &deadline}
		days, ok := req.DaysUntilDeadline(today)
		require.True(t, ok)
		assert.Equal(t, -3, days)
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		deadline := time.Date(2025, 6, 3, 23, 59, 0, 0, time.UTC)
		req := &Request{Deadline: &deadline}
		days, ok := req.DaysUntilDeadline(time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC))
		require.True(t, ok)
		assert.Equal(t, 1, days)
	})

	t.Run("extension governs", func(t *testing.T) {
		deadline := day(2025, 5, 1)
		extended := day(2025, 6, 5)
		req := &Request{Deadline: &deadline, ExtendedDeadline: &extended}
		days, ok := req.DaysUntilDeadline(today)
		require.True(t, ok)
		assert.Equal(t, 3, days)
	})
}
