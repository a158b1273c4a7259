package service

import (
	"fmt"
	"strings"

	"foiatrack-backend/models"
)

// RedactionDetector analyzes parsed responses for suspicious withholding
// patterns. Analyze is a pure function of its inputs and safe for
// concurrent use.
type RedactionDetector struct{}

// NewRedactionDetector creates a new detector
func NewRedactionDetector() *RedactionDetector {
	return &RedactionDetector{}
}

// Analyze runs the jurisdiction's rule set over a parsed response and
// produces a risk-scored report
func (d *RedactionDetector) Analyze(parsed *models.ParsedResponse, jurisdiction string) *models.RedactionReport {
	report := &models.RedactionReport{}

	switch {
	case jurisdiction == models.JurisdictionUSFederal || strings.HasPrefix(jurisdiction, models.USStatePrefix):
		checkExcessiveWithholding(parsed, report)
		checkMultipleExemptions(parsed, report)
		checkBlanketDenial(parsed, report)
		checkSegregability(parsed, report)
		checkB4Overuse(parsed, report)
		checkB5Overuse(parsed, report)
		checkB7Misapplication(parsed, report)
		checkNoVaughnIndex(parsed, report)
	case jurisdiction == models.JurisdictionUK:
		checkExcessiveWithholding(parsed, report)
		checkUKPatterns(parsed, report)
	case jurisdiction == models.JurisdictionIndia:
		checkExcessiveWithholding(parsed, report)
		checkIndiaPatterns(parsed, report)
	}

	report.Summary = generateSummary(report)
	return report
}

func checkExcessiveWithholding(parsed *models.ParsedResponse, report *models.RedactionReport) {
	total := parsed.PagesReleased + parsed.PagesWithheldFull
	if total == 0 {
		return
	}
	ratio := float64(parsed.PagesWithheldFull) / float64(total)
	if ratio > 0.8 {
		report.AddFlag(models.RedactionFlag{
			Severity: models.FlagSeverityHigh,
			Category: "Excessive Withholding",
			Description: fmt.Sprintf(
				"%d of %d pages (%.0f%%) were withheld in full. This ratio is "+
					"unusually high and may indicate over-classification or "+
					"blanket withholding.",
				parsed.PagesWithheldFull, total, ratio*100),
			Recommendation: "Appeal the withholding. Request a Vaughn index " +
				"detailing the justification for each withheld document.",
		})
	} else if ratio > 0.5 {
		report.AddFlag(models.RedactionFlag{
			Severity: models.FlagSeverityMedium,
			Category: "High Withholding Rate",
			Description: fmt.Sprintf(
				"%.0f%% of pages withheld. Review exemption justifications carefully.",
				ratio*100),
			Recommendation: "Request more detailed justification for each " +
				"category of withheld records.",
		})
	}
}

func checkMultipleExemptions(parsed *models.ParsedResponse, report *models.RedactionReport) {
	if len(parsed.Exemptions) < 4 {
		return
	}
	report.AddFlag(models.RedactionFlag{
		Severity: models.FlagSeverityMedium,
		Category: "Multiple Exemptions",
		Description: fmt.Sprintf(
			"%d different exemptions cited. Using many exemptions for a single "+
				"request may indicate a 'kitchen sink' approach to withholding.",
			len(parsed.Exemptions)),
		Recommendation: "Challenge each exemption individually. Agencies must " +
			"justify each exemption for each specific withholding.",
	})
}

func checkBlanketDenial(parsed *models.ParsedResponse, report *models.RedactionReport) {
	if parsed.Determination != models.DeterminationDenial || parsed.PagesReleased != 0 {
		return
	}
	report.AddFlag(models.RedactionFlag{
		Severity: models.FlagSeverityHigh,
		Category: "Blanket Denial",
		Description: "The entire request was denied with no records released. " +
			"Total denials warrant close scrutiny.",
		Recommendation: "File an appeal. Under 5 U.S.C. Section 552(b), the " +
			"agency must demonstrate that an exemption applies to each " +
			"withheld record. A blanket denial without document-by-document " +
			"review is improper.",
	})
}

func checkSegregability(parsed *models.ParsedResponse, report *models.RedactionReport) {
	if parsed.PagesWithheldFull == 0 || parsed.PagesWithheldPartial != 0 {
		return
	}
	report.AddFlag(models.RedactionFlag{
		Severity: models.FlagSeverityMedium,
		Category: "No Partial Releases",
		Description: "All withheld pages were withheld in full with no partial " +
			"redactions. Under FOIA, agencies must release all reasonably " +
			"segregable non-exempt portions.",
		Recommendation: "Challenge on segregability grounds. Cite 5 U.S.C. " +
			"Section 552(b) (final sentence): 'Any reasonably segregable " +
			"portion of a record shall be provided.'",
	})
}

func checkB4Overuse(parsed *models.ParsedResponse, report *models.RedactionReport) {
	if !citesExemption(parsed.Exemptions, "(b)(4)", "(4)") {
		return
	}
	report.AddFlag(models.RedactionFlag{
		Severity: models.FlagSeverityLow,
		Category: "Exemption 4 — Trade Secrets",
		Description: "Exemption (b)(4) was cited. This exemption is sometimes " +
			"improperly applied to shield routine operational data submitted " +
			"to the government.",
		Recommendation: "Verify whether the submitter was given notice under " +
			"Executive Order 12600. Challenge if the information was " +
			"submitted voluntarily or is already publicly available.",
		Exemption: "(b)(4)",
	})
}

func checkB5Overuse(parsed *models.ParsedResponse, report *models.RedactionReport) {
	if !citesExemption(parsed.Exemptions, "(b)(5)", "(5)") {
		return
	}
	report.AddFlag(models.RedactionFlag{
		Severity: models.FlagSeverityMedium,
		Category: "Exemption 5 — Deliberative Process",
		Description: "Exemption (b)(5) is the most abused FOIA exemption. It " +
			"requires the document be both predecisional AND deliberative. " +
			"Factual material embedded in deliberative documents must be " +
			"segregated and released.",
		Recommendation: "Challenge by arguing: (1) the document contains " +
			"segregable factual material; (2) the decision has been made, so " +
			"the privilege no longer protects; or (3) the document is not " +
			"truly deliberative. Cite NLRB v. Sears.",
		Exemption: "(b)(5)",
	})
}

func checkB7Misapplication(parsed *models.ParsedResponse, report *models.RedactionReport) {
	if !citesExemption(parsed.Exemptions, "(b)(7)", "(7)") {
		return
	}
	report.AddFlag(models.RedactionFlag{
		Severity: models.FlagSeverityMedium,
		Category: "Exemption 7 — Law Enforcement",
		Description: "Exemption (b)(7) requires a law enforcement nexus. " +
			"Routine regulatory inspection records may not qualify as 'law " +
			"enforcement' records under this exemption.",
		Recommendation: "Challenge the law enforcement nexus. Argue that " +
			"regulatory inspections for compliance purposes are not compiled " +
			"for 'law enforcement purposes' within the meaning of Exemption 7.",
		Exemption: "(b)(7)",
	})
}

func checkNoVaughnIndex(parsed *models.ParsedResponse, report *models.RedactionReport) {
	if parsed.PagesWithheldFull <= 10 {
		return
	}
	if parsed.Determination != models.DeterminationDenial && parsed.Determination != models.DeterminationPartialGrant {
		return
	}
	if strings.Contains(strings.ToLower(parsed.RawText), "vaughn") {
		return
	}
	report.AddFlag(models.RedactionFlag{
		Severity: models.FlagSeverityLow,
		Category: "No Vaughn Index",
		Description: "The response withheld substantial records without " +
			"providing a Vaughn index. While not required at the " +
			"administrative stage, requesting one can reveal improper " +
			"withholding patterns.",
		Recommendation: "In your appeal, request a Vaughn index that " +
			"identifies each withheld document and the specific exemption(s) " +
			"applied. See Vaughn v. Rosen, 484 F.2d 820 (D.C. Cir. 1973).",
	})
}

// checkUKPatterns matches bare digits within citation strings ("43" also
// matches "Section 143"); the imprecision is inherited behavior, kept for
// parity
func checkUKPatterns(parsed *models.ParsedResponse, report *models.RedactionReport) {
	for _, exemption := range parsed.Exemptions {
		if strings.Contains(exemption, "43") {
			report.AddFlag(models.RedactionFlag{
				Severity: models.FlagSeverityMedium,
				Category: "Section 43 — Commercial Interests",
				Description: "Section 43 is a qualified exemption and requires " +
					"a public interest test. The authority must demonstrate " +
					"that the public interest in maintaining the exemption " +
					"outweighs the public interest in disclosure.",
				Recommendation: "Request internal review. Argue that the " +
					"public interest in transparency outweighs commercial " +
					"sensitivity.",
				Exemption: exemption,
			})
		}
		if strings.Contains(exemption, "35") || strings.Contains(exemption, "36") {
			report.AddFlag(models.RedactionFlag{
				Severity: models.FlagSeverityMedium,
				Category: "Policy Formulation Exemption",
				Description: "Sections 35/36 are qualified exemptions " +
					"frequently used to shield policy development. Challenge " +
					"if the policy decision has already been taken.",
				Recommendation: "Argue that once a policy decision is made, " +
					"the public interest shifts decisively toward disclosure.",
				Exemption: exemption,
			})
		}
	}
}

func checkIndiaPatterns(parsed *models.ParsedResponse, report *models.RedactionReport) {
	for _, exemption := range parsed.Exemptions {
		if strings.Contains(exemption, "8(1)(d)") {
			report.AddFlag(models.RedactionFlag{
				Severity: models.FlagSeverityMedium,
				Category: "Section 8(1)(d) — Commercial Confidence",
				Description: "Section 8(1)(d) protects commercial confidence " +
					"and trade secrets. However, Section 8(2) provides that " +
					"information may still be disclosed if the public interest " +
					"outweighs the harm.",
				Recommendation: "Appeal citing Section 8(2). Argue that the " +
					"public interest in disclosure outweighs commercial " +
					"confidence.",
				Exemption: exemption,
			})
		}
		if strings.Contains(exemption, "8(1)(j)") {
			report.AddFlag(models.RedactionFlag{
				Severity: models.FlagSeverityLow,
				Category: "Section 8(1)(j) — Personal Information",
				Description: "Section 8(1)(j) exempts personal information " +
					"with no relationship to public activity. Information " +
					"about public officials acting in their official capacity " +
					"is not exempt.",
				Recommendation: "Challenge if the withheld information relates " +
					"to official duties of public servants, particularly " +
					"inspectors and regulatory officers.",
				Exemption: exemption,
			})
		}
	}
}

func citesExemption(exemptions []string, needles ...string) bool {
	for _, e := range exemptions {
		for _, needle := range needles {
			if strings.Contains(e, needle) {
				return true
			}
		}
	}
	return false
}

func generateSummary(report *models.RedactionReport) string {
	if len(report.Flags) == 0 {
		return "No suspicious patterns detected in the agency response."
	}
	var high, med, low int
	for _, f := range report.Flags {
		switch f.Severity {
		case models.FlagSeverityHigh:
			high++
		case models.FlagSeverityMedium:
			med++
		case models.FlagSeverityLow:
			low++
		}
	}
	var parts []string
	if high > 0 {
		parts = append(parts, fmt.Sprintf("%d high-severity", high))
	}
	if med > 0 {
		parts = append(parts, fmt.Sprintf("%d medium-severity", med))
	}
	if low > 0 {
		parts = append(parts, fmt.Sprintf("%d low-severity", low))
	}
	closing := "Monitor closely."
	if report.AppealRecommended {
		closing = "Appeal recommended."
	}
	return fmt.Sprintf("Detected %s issue(s). Overall risk score: %.0f%%. %s",
		strings.Join(parts, ", "), report.RiskScore*100, closing)
}
