package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"foiatrack-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRequestSource serves canned requests keyed by status
type fakeRequestSource struct {
	byStatus map[models.RequestStatus][]*models.Request
	err      error
}

func (f *fakeRequestSource) ListByStatus(_ context.Context, status models.RequestStatus, _ int) ([]*models.Request, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byStatus[status], nil
}

func testEngine(source RequestSource, today time.Time) *AlertEngine {
	return NewAlertEngine(
		AlertWithRequestSource(source),
		AlertWithClock(func() time.Time { return today }),
	)
}

func filedRequest(id int, deadline time.Time) *models.Request {
	return &models.Request{
		ID:           id,
		Agency:       "EPA",
		Jurisdiction: "US-Federal",
		Topic:        "Inspection records",
		Status:       models.StatusFiled,
		Deadline:     &deadline,
	}
}

func TestCheckAllSeverityBuckets(t *testing.T) {
	today := date(2025, 6, 2)

	source := &fakeRequestSource{byStatus: map[models.RequestStatus][]*models.Request{
		models.StatusFiled: {
			filedRequest(1, date(2025, 5, 20)), // 13 days overdue
			filedRequest(2, date(2025, 6, 4)),  // 2 days left
			filedRequest(3, date(2025, 6, 6)),  // 4 days left
			filedRequest(4, date(2025, 6, 10)), // 8 days left
			filedRequest(5, date(2025, 7, 1)),  // 29 days left, no alert
		},
	}}

	alerts, err := testEngine(source, today).CheckAll(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 4)

	assert.Equal(t, models.SeverityOverdue, alerts[0].Severity)
	assert.Equal(t, 1, alerts[0].RequestID)
	assert.Equal(t, -13, alerts[0].DaysRemaining)
	assert.Contains(t, alerts[0].Message, "13 day(s) overdue")

	assert.Equal(t, models.SeverityUrgent, alerts[1].Severity)
	assert.Equal(t, 2, alerts[1].DaysRemaining)

	assert.Equal(t, models.SeverityWarning, alerts[2].Severity)
	assert.Equal(t, 4, alerts[2].DaysRemaining)

	assert.Equal(t, models.SeverityInfo, alerts[3].Severity)
	assert.Equal(t, 8, alerts[3].DaysRemaining)
}

func TestCheckAllSortsBySeverityThenDays(t *testing.T) {
	today := date(2025, 6, 2)

	source := &fakeRequestSource{byStatus: map[models.RequestStatus][]*models.Request{
		models.StatusFiled: {
			filedRequest(1, date(2025, 6, 4)),  // urgent, 2 days
			filedRequest(2, date(2025, 6, 3)),  // urgent, 1 day
			filedRequest(3, date(2025, 5, 30)), // overdue
		},
		models.StatusProcessing: {
			filedRequest(4, date(2025, 6, 2)), // urgent, 0 days
		},
	}}

	alerts, err := testEngine(source, today).CheckAll(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 4)

	assert.Equal(t, []int{3, 4, 2, 1}, []int{
		alerts[0].RequestID, alerts[1].RequestID,
		alerts[2].RequestID, alerts[3].RequestID,
	})
}

func TestCheckAllSkipsRequestsWithoutDeadline(t *testing.T) {
	source := &fakeRequestSource{byStatus: map[models.RequestStatus][]*models.Request{
		models.StatusFiled: {
			{ID: 1, Agency: "EPA", Jurisdiction: "US-Federal", Status: models.StatusFiled},
		},
	}}

	alerts, err := testEngine(source, date(2025, 6, 2)).CheckAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestCheckAllUsesExtendedDeadline(t *testing.T) {
	today := date(2025, 6, 2)
	deadline := date(2025, 5, 1)
	extended := date(2025, 6, 3)

	req := filedRequest(1, deadline)
	req.ExtendedDeadline = &extended
	req.Status = models.StatusExtended

	source := &fakeRequestSource{byStatus: map[models.RequestStatus][]*models.Request{
		models.StatusExtended: {req},
	}}

	alerts, err := testEngine(source, today).CheckAll(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	// The original deadline is weeks past, but the extended deadline governs
	assert.Equal(t, models.SeverityUrgent, alerts[0].Severity)
	assert.Equal(t, 1, alerts[0].DaysRemaining)
	require.NotNil(t, alerts[0].Deadline)
	assert.Equal(t, extended, *alerts[0].Deadline)
}

func TestCheckAllPropagatesSourceError(t *testing.T) {
	source := &fakeRequestSource{err: errors.New("connection refused")}

	_, err := testEngine(source, date(2025, 6, 2)).CheckAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCheckAllWithoutSource(t *testing.T) {
	engine := NewAlertEngine()
	_, err := engine.CheckAll(context.Background())
	require.Error(t, err)
}

func TestCheckOverdue(t *testing.T) {
	today := date(2025, 6, 2)
	source := &fakeRequestSource{byStatus: map[models.RequestStatus][]*models.Request{
		models.StatusFiled: {
			filedRequest(1, date(2025, 5, 20)),
			filedRequest(2, date(2025, 6, 4)),
		},
	}}

	alerts, err := testEngine(source, today).CheckOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 1, alerts[0].RequestID)
	assert.Equal(t, models.SeverityOverdue, alerts[0].Severity)
}

func TestCheckUpcoming(t *testing.T) {
	today := date(2025, 6, 2)
	source := &fakeRequestSource{byStatus: map[models.RequestStatus][]*models.Request{
		models.StatusFiled: {
			filedRequest(1, date(2025, 5, 20)), // overdue, excluded
			filedRequest(2, date(2025, 6, 4)),  // 2 days, included
			filedRequest(3, date(2025, 6, 6)),  // 4 days, included
			filedRequest(4, date(2025, 6, 10)), // 8 days, excluded at 7
		},
	}}

	alerts, err := testEngine(source, today).CheckUpcoming(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, 2, alerts[0].RequestID)
	assert.Equal(t, 3, alerts[1].RequestID)
}

func TestSeverityMonotonicInDaysRemaining(t *testing.T) {
	today := date(2025, 6, 2)

	prevRank := -1
	for days := 0; days <= 12; days++ {
		req := filedRequest(1, today.AddDate(0, 0, days))
		source := &fakeRequestSource{byStatus: map[models.RequestStatus][]*models.Request{
			models.StatusFiled: {req},
		}}

		alerts, err := testEngine(source, today).CheckAll(context.Background())
		require.NoError(t, err)

		rank := 100 // beyond every threshold: no alert at all
		if len(alerts) == 1 {
			rank = alerts[0].Severity.Rank()
		}
		assert.GreaterOrEqual(t, rank, prevRank,
			"severity must not get more urgent as days remaining grows (days=%d)", days)
		prevRank = rank
	}
}

func TestOverdueActionVariesByJurisdiction(t *testing.T) {
	today := date(2025, 6, 2)
	deadline := date(2025, 5, 1)

	jurisdictions := map[string]string{
		"US-Federal": "OGIS",
		"India":      "19(1)",
		"UK":         "ICO",
	}

	for jurisdiction, fragment := range jurisdictions {
		req := filedRequest(1, deadline)
		req.Jurisdiction = jurisdiction
		source := &fakeRequestSource{byStatus: map[models.RequestStatus][]*models.Request{
			models.StatusFiled: {req},
		}}

		alerts, err := testEngine(source, today).CheckAll(context.Background())
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Contains(t, alerts[0].SuggestedAction, fragment,
			"jurisdiction %s", jurisdiction)
	}
}
