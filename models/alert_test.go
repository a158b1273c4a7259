package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityOverdue.Rank(), SeverityUrgent.Rank())
	assert.Less(t, SeverityUrgent.Rank(), SeverityWarning.Rank())
	assert.Less(t, SeverityWarning.Rank(), SeverityInfo.Rank())
	assert.Equal(t, 99, AlertSeverity("bogus").Rank())
}

func TestAlertFormatText(t *testing.T) {
	alert := Alert{
		RequestID:       42,
		Agency:          "EPA",
		Topic:           "Inspection records",
		Severity:        SeverityUrgent,
		Message:         "Deadline in 2 day(s) (2025-06-04).",
		SuggestedAction: "Prepare appeal materials.",
	}

	text := alert.FormatText()
	assert.Contains(t, text, "[URGENT]")
	assert.Contains(t, text, "Request #42")
	assert.Contains(t, text, "EPA")
	assert.Contains(t, text, "Inspection records")
	assert.Contains(t, text, "Deadline in 2 day(s)")
	assert.Contains(t, text, "Action: Prepare appeal materials.")
}
