package models

import (
	"fmt"
	"strings"
)

// Determination categories assigned by the response parser
const (
	DeterminationFullGrant    = "full_grant"
	DeterminationPartialGrant = "partial_grant"
	DeterminationDenial       = "denial"
	DeterminationNoRecords    = "no_records"
	DeterminationUnknown      = "unknown"
)

// ParsedResponse holds the structured data extracted from one agency
// response letter. It is ephemeral: callers persist whichever fields they
// need via the request repository.
type ParsedResponse struct {
	Determination string `json:"determination"`

	PagesReleased        int `json:"pages_released"`
	PagesWithheldFull    int `json:"pages_withheld_full"`
	PagesWithheldPartial int `json:"pages_withheld_partial"`
	PagesReferred        int `json:"pages_referred"`

	Exemptions       []string          `json:"exemptions"`
	ExemptionDetails map[string]string `json:"exemption_details"`

	FeeCharged       *float64 `json:"fee_charged,omitempty"`
	FeeWaiverGranted *bool    `json:"fee_waiver_granted,omitempty"`

	AssignedAnalyst string `json:"assigned_analyst"`
	TrackingNumber  string `json:"tracking_number"`

	// RawText is retained for downstream keyword checks (e.g. Vaughn index
	// detection in the redaction detector).
	RawText string `json:"-"`
}

// Summary renders the extracted fields as a short plain-text block
func (p *ParsedResponse) Summary() string {
	lines := []string{fmt.Sprintf("Determination: %s", p.Determination)}
	if p.PagesReleased > 0 {
		lines = append(lines, fmt.Sprintf("Pages released: %d", p.PagesReleased))
	}
	if p.PagesWithheldFull > 0 {
		lines = append(lines, fmt.Sprintf("Pages withheld (full): %d", p.PagesWithheldFull))
	}
	if p.PagesWithheldPartial > 0 {
		lines = append(lines, fmt.Sprintf("Pages withheld (partial): %d", p.PagesWithheldPartial))
	}
	if len(p.Exemptions) > 0 {
		lines = append(lines, fmt.Sprintf("Exemptions cited: %s", strings.Join(p.Exemptions, ", ")))
	}
	if p.FeeCharged != nil {
		lines = append(lines, fmt.Sprintf("Fee charged: $%.2f", *p.FeeCharged))
	}
	if p.TrackingNumber != "" {
		lines = append(lines, fmt.Sprintf("Tracking #: %s", p.TrackingNumber))
	}
	return strings.Join(lines, "\n")
}

// Flag severities used by the redaction detector
const (
	FlagSeverityHigh   = "high"
	FlagSeverityMedium = "medium"
	FlagSeverityLow    = "low"
)

// RedactionFlag is a single suspicious finding in an agency response
type RedactionFlag struct {
	Severity       string `json:"severity"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
	Exemption      string `json:"exemption,omitempty"`
}

// flagWeights converts flag severities into risk-score contributions
var flagWeights = map[string]float64{
	FlagSeverityHigh:   0.4,
	FlagSeverityMedium: 0.2,
	FlagSeverityLow:    0.1,
}

// RedactionReport accumulates flags about a response. RiskScore and
// AppealRecommended are recomputed on every AddFlag so they are always
// consistent with the current flag set.
type RedactionReport struct {
	Flags             []RedactionFlag `json:"flags"`
	RiskScore         float64         `json:"risk_score"`
	Summary           string          `json:"summary"`
	AppealRecommended bool            `json:"appeal_recommended"`
}

// AddFlag appends a flag and recomputes the derived score
func (r *RedactionReport) AddFlag(flag RedactionFlag) {
	r.Flags = append(r.Flags, flag)
	r.recalculateScore()
}

func (r *RedactionReport) recalculateScore() {
	if len(r.Flags) == 0 {
		r.RiskScore = 0.0
		return
	}
	total := 0.0
	for _, f := range r.Flags {
		weight, ok := flagWeights[f.Severity]
		if !ok {
			weight = 0.1
		}
		total += weight
	}
	if total > 1.0 {
		total = 1.0
	}
	r.RiskScore = total
	r.AppealRecommended = r.RiskScore >= 0.3
}

// FormatReport renders the full report as plain text
func (r *RedactionReport) FormatReport() string {
	lines := []string{
		"REDACTION ANALYSIS REPORT",
		fmt.Sprintf("Risk Score: %.1f%%", r.RiskScore*100),
		fmt.Sprintf("Appeal Recommended: %s", yesNo(r.AppealRecommended)),
		fmt.Sprintf("Flags Found: %d", len(r.Flags)),
		"",
	}
	for i, flag := range r.Flags {
		lines = append(lines, fmt.Sprintf("--- Flag %d [%s] ---", i+1, strings.ToUpper(flag.Severity)))
		lines = append(lines, fmt.Sprintf("Category: %s", flag.Category))
		lines = append(lines, fmt.Sprintf("Issue: %s", flag.Description))
		if flag.Exemption != "" {
			lines = append(lines, fmt.Sprintf("Exemption: %s", flag.Exemption))
		}
		lines = append(lines, fmt.Sprintf("Recommendation: %s", flag.Recommendation))
		lines = append(lines, "")
	}
	if r.AppealRecommended {
		lines = append(lines,
			"RECOMMENDATION: Based on the patterns detected, an appeal is "+
				"recommended. The withholdings show indicators of potential "+
				"over-redaction or improper exemption usage.")
	}
	return strings.Join(lines, "\n")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
