package models

import (
	"time"
)

// RequestStatus represents the lifecycle state of a public records request
type RequestStatus string

const (
	StatusDraft               RequestStatus = "draft"
	StatusFiled               RequestStatus = "filed"
	StatusAcknowledged        RequestStatus = "acknowledged"
	StatusProcessing          RequestStatus = "processing"
	StatusExtended            RequestStatus = "extended"
	StatusPartialResponse     RequestStatus = "partial_response"
	StatusComplete            RequestStatus = "complete"
	StatusDenied              RequestStatus = "denied"
	StatusAppealed            RequestStatus = "appealed"
	StatusAppealWon           RequestStatus = "appeal_won"
	StatusAppealDenied        RequestStatus = "appeal_denied"
	StatusLitigation          RequestStatus = "litigation"
	StatusWithdrawn           RequestStatus = "withdrawn"
	StatusNoResponsiveRecords RequestStatus = "no_responsive_records"
)

// AllStatuses lists every known lifecycle status
var AllStatuses = []RequestStatus{
	StatusDraft,
	StatusFiled,
	StatusAcknowledged,
	StatusProcessing,
	StatusExtended,
	StatusPartialResponse,
	StatusComplete,
	StatusDenied,
	StatusAppealed,
	StatusAppealWon,
	StatusAppealDenied,
	StatusLitigation,
	StatusWithdrawn,
	StatusNoResponsiveRecords,
}

// TerminalStatuses are the statuses that can never be overdue
var TerminalStatuses = []RequestStatus{
	StatusComplete,
	StatusDenied,
	StatusWithdrawn,
	StatusNoResponsiveRecords,
}

// ActiveStatuses are the statuses scanned for deadline alerts
var ActiveStatuses = []RequestStatus{
	StatusFiled,
	StatusAcknowledged,
	StatusProcessing,
	StatusExtended,
	StatusAppealed,
}

// IsValid reports whether the status is one of the known lifecycle states
func (s RequestStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status is a final disposition
func (s RequestStatus) IsTerminal() bool {
	for _, terminal := range TerminalStatuses {
		if s == terminal {
			return true
		}
	}
	return false
}

// Jurisdiction codes
const (
	JurisdictionUSFederal = "US-Federal"
	JurisdictionIndia     = "India"
	JurisdictionUK        = "UK"
	JurisdictionEU        = "EU"

	// USStatePrefix matches state-level codes like "US-State-CA"
	USStatePrefix = "US-State"
)

// Request represents a tracked public records request and its lifecycle data
type Request struct {
	ID          int     `json:"id"`
	ReferenceID *string `json:"reference_id,omitempty"`

	Agency       string `json:"agency"`
	Jurisdiction string `json:"jurisdiction"`
	Topic        string `json:"topic"`

	DateCreated      time.Time  `json:"date_created"`
	DateFiled        *time.Time `json:"date_filed,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	DateAcknowledged *time.Time `json:"date_acknowledged,omitempty"`
	ExtendedDeadline *time.Time `json:"extended_deadline,omitempty"`
	DateResponse     *time.Time `json:"date_response,omitempty"`

	Status RequestStatus `json:"status"`

	DocsReceived    int     `json:"docs_received"`
	PagesReceived   int     `json:"pages_received"`
	PagesWithheld   int     `json:"pages_withheld"`
	ExemptionsCited *string `json:"exemptions_cited,omitempty"`

	FilingMethod       *string `json:"filing_method,omitempty"`
	ConfirmationNumber *string `json:"confirmation_number,omitempty"`
	AssignedAnalyst    *string `json:"assigned_analyst,omitempty"`
	FeeWaiverRequested bool    `json:"fee_waiver_requested"`
	FeeWaiverGranted   *bool   `json:"fee_waiver_granted,omitempty"`

	RequestText     *string `json:"request_text,omitempty"`
	ResponseSummary *string `json:"response_summary,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	AppealFiled   bool       `json:"appeal_filed"`
	AppealDate    *time.Time `json:"appeal_date,omitempty"`
	AppealBody    *string    `json:"appeal_body,omitempty"`
	AppealOutcome *string    `json:"appeal_outcome,omitempty"`
}

// EffectiveDeadline returns the extended deadline when one is set, otherwise
// the original deadline. All overdue and remaining-day computations use this
// single date.
func (r *Request) EffectiveDeadline() *time.Time {
	if r.ExtendedDeadline != nil {
		return r.ExtendedDeadline
	}
	return r.Deadline
}

// IsOverdue reports whether the request's effective deadline has passed.
// Requests in a terminal status or without a deadline are never overdue.
func (r *Request) IsOverdue(today time.Time) bool {
	if r.Status.IsTerminal() {
		return false
	}
	deadline := r.EffectiveDeadline()
	if deadline == nil {
		return false
	}
	return truncateToDay(today).After(truncateToDay(*deadline))
}

// DaysUntilDeadline returns the calendar days from today to the effective
// deadline (negative when overdue). The second return value is false when no
// deadline has been set.
func (r *Request) DaysUntilDeadline(today time.Time) (int, bool) {
	deadline := r.EffectiveDeadline()
	if deadline == nil {
		return 0, false
	}
	days := int(truncateToDay(*deadline).Sub(truncateToDay(today)).Hours() / 24)
	return days, true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
