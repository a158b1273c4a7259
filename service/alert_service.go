package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"foiatrack-backend/models"
)

// Days before the effective deadline at which each severity triggers
const (
	urgentThresholdDays  = 2
	warningThresholdDays = 5
	infoThresholdDays    = 10

	// alertScanLimit bounds one status scan
	alertScanLimit = 10000
)

// RequestSource supplies tracked requests for scanning. The request
// repository satisfies it; tests provide a fake.
type RequestSource interface {
	ListByStatus(ctx context.Context, status models.RequestStatus, limit int) ([]*models.Request, error)
}

// AlertEngine scans active requests and generates deadline alerts. It only
// returns structured alerts; delivery belongs to the caller.
type AlertEngine struct {
	source RequestSource
	today  func() time.Time
}

// AlertEngineOption is a functional option for AlertEngine
type AlertEngineOption func(*AlertEngine)

// AlertWithRequestSource sets the request source
func AlertWithRequestSource(source RequestSource) AlertEngineOption {
	return func(e *AlertEngine) {
		e.source = source
	}
}

// AlertWithClock overrides the engine's notion of today, mainly for tests
func AlertWithClock(today func() time.Time) AlertEngineOption {
	return func(e *AlertEngine) {
		e.today = today
	}
}

// NewAlertEngine creates a new alert engine
func NewAlertEngine(opts ...AlertEngineOption) *AlertEngine {
	e := &AlertEngine{today: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckAll scans every active request and returns alerts sorted by severity
// rank, ties broken by ascending days remaining
func (e *AlertEngine) CheckAll(ctx context.Context) ([]models.Alert, error) {
	if e.source == nil {
		return nil, errors.New("request source not set")
	}

	today := e.today()
	var alerts []models.Alert

	for _, status := range models.ActiveStatuses {
		requests, err := e.source.ListByStatus(ctx, status, alertScanLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s requests: %w", status, err)
		}
		for _, req := range requests {
			if alert := e.checkRequest(req, today); alert != nil {
				alerts = append(alerts, *alert)
			}
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity.Rank() != alerts[j].Severity.Rank() {
			return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
		}
		return alerts[i].DaysRemaining < alerts[j].DaysRemaining
	})
	return alerts, nil
}

// CheckOverdue returns only the overdue alerts from CheckAll
func (e *AlertEngine) CheckOverdue(ctx context.Context) ([]models.Alert, error) {
	all, err := e.CheckAll(ctx)
	if err != nil {
		return nil, err
	}
	var overdue []models.Alert
	for _, a := range all {
		if a.Severity == models.SeverityOverdue {
			overdue = append(overdue, a)
		}
	}
	return overdue, nil
}

// CheckUpcoming returns alerts for requests whose deadline falls within the
// next withinDays days
func (e *AlertEngine) CheckUpcoming(ctx context.Context, withinDays int) ([]models.Alert, error) {
	all, err := e.CheckAll(ctx)
	if err != nil {
		return nil, err
	}
	var upcoming []models.Alert
	for _, a := range all {
		if a.DaysRemaining > 0 && a.DaysRemaining <= withinDays {
			upcoming = append(upcoming, a)
		}
	}
	return upcoming, nil
}

func (e *AlertEngine) checkRequest(req *models.Request, today time.Time) *models.Alert {
	daysLeft, ok := req.DaysUntilDeadline(today)
	if !ok {
		return nil
	}
	deadline := req.EffectiveDeadline()

	if daysLeft < 0 {
		return &models.Alert{
			RequestID:    req.ID,
			Agency:       req.Agency,
			Jurisdiction: req.Jurisdiction,
			Topic:        req.Topic,
			Severity:     models.SeverityOverdue,
			Message: fmt.Sprintf("Response is %d day(s) overdue. Deadline was %s.",
				-daysLeft, deadline.Format("2006-01-02")),
			DaysRemaining:   daysLeft,
			Deadline:        deadline,
			SuggestedAction: overdueAction(req.Jurisdiction),
		}
	}

	var severity models.AlertSeverity
	switch {
	case daysLeft <= urgentThresholdDays:
		severity = models.SeverityUrgent
	case daysLeft <= warningThresholdDays:
		severity = models.SeverityWarning
	case daysLeft <= infoThresholdDays:
		severity = models.SeverityInfo
	default:
		return nil
	}

	return &models.Alert{
		RequestID:    req.ID,
		Agency:       req.Agency,
		Jurisdiction: req.Jurisdiction,
		Topic:        req.Topic,
		Severity:     severity,
		Message: fmt.Sprintf("Deadline in %d day(s) (%s).",
			daysLeft, deadline.Format("2006-01-02")),
		DaysRemaining:   daysLeft,
		Deadline:        deadline,
		SuggestedAction: upcomingAction(daysLeft),
	}
}

// overdueAction cites the jurisdiction's constructive-denial rule
func overdueAction(jurisdiction string) string {
	switch jurisdiction {
	case models.JurisdictionUSFederal:
		return "Send a follow-up letter citing 5 U.S.C. Section 552(a)(6)(A). " +
			"Consider filing an administrative appeal or contacting OGIS " +
			"(ogis@nara.gov). Constructive denial of request may entitle " +
			"you to immediate appeal."
	case models.JurisdictionIndia:
		return "File a first appeal under Section 19(1) of the RTI Act with " +
			"the First Appellate Authority. The PIO's failure to respond " +
			"within 30 days is deemed a refusal."
	case models.JurisdictionUK:
		return "Send a follow-up citing Section 10(1) of FOIA 2000. Request " +
			"an internal review. If no response within a reasonable time, " +
			"complain to the ICO."
	case models.JurisdictionEU:
		return "The institution's silence after 15 working days constitutes " +
			"an implied refusal. File a confirmatory application under " +
			"Article 7(2) of Regulation 1049/2001."
	}
	return "Send a follow-up letter and prepare an appeal."
}

func upcomingAction(daysLeft int) string {
	if daysLeft <= urgentThresholdDays {
		return "Prepare appeal materials. Follow up with the agency immediately."
	}
	if daysLeft <= warningThresholdDays {
		return "Send a courtesy follow-up to the FOIA officer inquiring about status."
	}
	return "Monitor. No action required yet."
}
