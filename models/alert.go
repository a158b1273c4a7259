package models

import (
	"fmt"
	"time"
)

// AlertSeverity ranks how urgent an alert is
type AlertSeverity string

const (
	SeverityInfo    AlertSeverity = "info"
	SeverityWarning AlertSeverity = "warning"
	SeverityUrgent  AlertSeverity = "urgent"
	SeverityOverdue AlertSeverity = "overdue"
)

// severityRank orders severities for sorting, most urgent first
var severityRank = map[AlertSeverity]int{
	SeverityOverdue: 0,
	SeverityUrgent:  1,
	SeverityWarning: 2,
	SeverityInfo:    3,
}

// Rank returns the sort position of the severity, most urgent first.
// Unknown severities sort last.
func (s AlertSeverity) Rank() int {
	if rank, ok := severityRank[s]; ok {
		return rank
	}
	return 99
}

// Alert is a single actionable finding about a tracked request. Alerts are
// plain data: delivery (email, chat, CLI output) belongs to the caller.
type Alert struct {
	RequestID       int           `json:"request_id"`
	Agency          string        `json:"agency"`
	Jurisdiction    string        `json:"jurisdiction"`
	Topic           string        `json:"topic"`
	Severity        AlertSeverity `json:"severity"`
	Message         string        `json:"message"`
	DaysRemaining   int           `json:"days_remaining"`
	Deadline        *time.Time    `json:"deadline,omitempty"`
	SuggestedAction string        `json:"suggested_action"`
}

// FormatText renders the alert as plain text for terminal or log output
func (a *Alert) FormatText() string {
	prefix := map[AlertSeverity]string{
		SeverityInfo:    "[INFO]",
		SeverityWarning: "[WARNING]",
		SeverityUrgent:  "[URGENT]",
		SeverityOverdue: "[OVERDUE]",
	}[a.Severity]
	return fmt.Sprintf(
		"%s Request #%d — %s\n  Topic: %s\n  %s\n  Action: %s\n",
		prefix, a.RequestID, a.Agency, a.Topic, a.Message, a.SuggestedAction,
	)
}
