package service

import (
	"testing"

	"foiatrack-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flagCategories(report *models.RedactionReport) []string {
	var categories []string
	for _, f := range report.Flags {
		categories = append(categories, f.Category)
	}
	return categories
}

func findFlag(t *testing.T, report *models.RedactionReport, category string) models.RedactionFlag {
	t.Helper()
	for _, f := range report.Flags {
		if f.Category == category {
			return f
		}
	}
	t.Fatalf("flag %q not found in %v", category, flagCategories(report))
	return models.RedactionFlag{}
}

func TestAnalyzeBlanketDenialScenario(t *testing.T) {
	parser := NewResponseParser()
	detector := NewRedactionDetector()

	text := "Denied under (b)(4), (b)(5), (b)(6), (b)(7)(C). 0 pages released. 500 pages withheld."
	parsed := parser.Parse(text, "US-Federal")

	require.Equal(t, models.DeterminationDenial, parsed.Determination)
	require.Len(t, parsed.Exemptions, 4)

	report := detector.Analyze(parsed, "US-Federal")

	blanket := findFlag(t, report, "Blanket Denial")
	assert.Equal(t, models.FlagSeverityHigh, blanket.Severity)

	segregability := findFlag(t, report, "No Partial Releases")
	assert.Equal(t, models.FlagSeverityMedium, segregability.Severity)

	assert.Greater(t, report.RiskScore, 0.5)
	assert.True(t, report.AppealRecommended)
	assert.Contains(t, report.Summary, "Appeal recommended")
}

func TestAnalyzeFullGrantProducesNoFlags(t *testing.T) {
	parser := NewResponseParser()
	detector := NewRedactionDetector()

	parsed := parser.Parse("Granting your request in full. 100 pages released. No pages withheld.", "US-Federal")
	report := detector.Analyze(parsed, "US-Federal")

	assert.Empty(t, report.Flags)
	assert.Zero(t, report.RiskScore)
	assert.False(t, report.AppealRecommended)
	assert.Equal(t, "No suspicious patterns detected in the agency response.", report.Summary)
}

func TestExcessiveWithholding(t *testing.T) {
	detector := NewRedactionDetector()

	tests := []struct {
		name         string
		released     int
		withheld     int
		wantCategory string
	}{
		{"ratio above 0.8 is high", 10, 90, "Excessive Withholding"},
		{"ratio above 0.5 is medium", 40, 60, "High Withholding Rate"},
		{"ratio at or below 0.5 is clean", 50, 50, ""},
		{"zero denominator is clean", 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := &models.ParsedResponse{
				PagesReleased:        tt.released,
				PagesWithheldFull:    tt.withheld,
				PagesWithheldPartial: 1, // suppress the segregability flag
			}
			report := detector.Analyze(parsed, "US-Federal")

			if tt.wantCategory == "" {
				assert.Empty(t, report.Flags)
			} else {
				require.Len(t, report.Flags, 1)
				assert.Equal(t, tt.wantCategory, report.Flags[0].Category)
			}
		})
	}
}

func TestMultipleExemptionsThreshold(t *testing.T) {
	detector := NewRedactionDetector()

	three := &models.ParsedResponse{Exemptions: []string{"(b)(1)", "(b)(2)", "(b)(3)"}}
	report := detector.Analyze(three, "US-Federal")
	assert.NotContains(t, flagCategories(report), "Multiple Exemptions")

	four := &models.ParsedResponse{Exemptions: []string{"(b)(1)", "(b)(2)", "(b)(3)", "(b)(6)"}}
	report = detector.Analyze(four, "US-Federal")
	assert.Contains(t, flagCategories(report), "Multiple Exemptions")
}

func TestExemptionSpecificChecks(t *testing.T) {
	detector := NewRedactionDetector()

	parsed := &models.ParsedResponse{Exemptions: []string{"(b)(4)", "(b)(5)", "(b)(7)(C)"}}
	report := detector.Analyze(parsed, "US-Federal")

	b4 := findFlag(t, report, "Exemption 4 — Trade Secrets")
	assert.Equal(t, models.FlagSeverityLow, b4.Severity)

	b5 := findFlag(t, report, "Exemption 5 — Deliberative Process")
	assert.Equal(t, models.FlagSeverityMedium, b5.Severity)

	b7 := findFlag(t, report, "Exemption 7 — Law Enforcement")
	assert.Equal(t, models.FlagSeverityMedium, b7.Severity)
}

func TestNoVaughnIndexCheck(t *testing.T) {
	detector := NewRedactionDetector()

	base := models.ParsedResponse{
		Determination:        models.DeterminationDenial,
		PagesWithheldFull:    50,
		PagesWithheldPartial: 1,
		PagesReleased:        500,
	}

	t.Run("flagged when absent", func(t *testing.T) {
		parsed := base
		parsed.RawText = "Records withheld in accordance with the exemptions above."
		report := detector.Analyze(&parsed, "US-Federal")
		assert.Contains(t, flagCategories(report), "No Vaughn Index")
	})

	t.Run("suppressed when a Vaughn index is mentioned", func(t *testing.T) {
		parsed := base
		parsed.RawText = "A Vaughn index itemizing the withheld documents is enclosed."
		report := detector.Analyze(&parsed, "US-Federal")
		assert.NotContains(t, flagCategories(report), "No Vaughn Index")
	})

	t.Run("suppressed at ten or fewer pages", func(t *testing.T) {
		parsed := base
		parsed.PagesWithheldFull = 10
		report := detector.Analyze(&parsed, "US-Federal")
		assert.NotContains(t, flagCategories(report), "No Vaughn Index")
	})
}

func TestAnalyzeUKPatterns(t *testing.T) {
	detector := NewRedactionDetector()

	parsed := &models.ParsedResponse{Exemptions: []string{"Section 35", "Section 43"}}
	report := detector.Analyze(parsed, "UK")

	categories := flagCategories(report)
	assert.Contains(t, categories, "Section 43 — Commercial Interests")
	assert.Contains(t, categories, "Policy Formulation Exemption")
}

func TestAnalyzeIndiaPatterns(t *testing.T) {
	detector := NewRedactionDetector()

	parsed := &models.ParsedResponse{Exemptions: []string{"Section 8(1)(d)", "Section 8(1)(j)"}}
	report := detector.Analyze(parsed, "India")

	commercial := findFlag(t, report, "Section 8(1)(d) — Commercial Confidence")
	assert.Equal(t, models.FlagSeverityMedium, commercial.Severity)

	personal := findFlag(t, report, "Section 8(1)(j) — Personal Information")
	assert.Equal(t, models.FlagSeverityLow, personal.Severity)
}

func TestAnalyzeUnknownJurisdictionRunsNoChecks(t *testing.T) {
	detector := NewRedactionDetector()

	parsed := &models.ParsedResponse{
		Determination:     models.DeterminationDenial,
		PagesWithheldFull: 500,
		Exemptions:        []string{"(b)(1)", "(b)(2)", "(b)(3)", "(b)(4)"},
	}
	report := detector.Analyze(parsed, "Atlantis")

	assert.Empty(t, report.Flags)
	assert.False(t, report.AppealRecommended)
}

func TestRiskScoreBoundsAndMonotonicity(t *testing.T) {
	report := &models.RedactionReport{}

	prev := 0.0
	for i := 0; i < 10; i++ {
		report.AddFlag(models.RedactionFlag{Severity: models.FlagSeverityMedium, Category: "x"})
		assert.GreaterOrEqual(t, report.RiskScore, prev)
		assert.LessOrEqual(t, report.RiskScore, 1.0)
		prev = report.RiskScore
	}
	// 10 medium flags saturate the cap
	assert.Equal(t, 1.0, report.RiskScore)
}

func TestAppealRecommendedThreshold(t *testing.T) {
	report := &models.RedactionReport{}

	report.AddFlag(models.RedactionFlag{Severity: models.FlagSeverityMedium})
	assert.InDelta(t, 0.2, report.RiskScore, 1e-9)
	assert.False(t, report.AppealRecommended)

	report.AddFlag(models.RedactionFlag{Severity: models.FlagSeverityLow})
	assert.InDelta(t, 0.3, report.RiskScore, 1e-9)
	assert.True(t, report.AppealRecommended)
}

func TestUnknownFlagSeverityDefaultsToLowWeight(t *testing.T) {
	report := &models.RedactionReport{}
	report.AddFlag(models.RedactionFlag{Severity: "catastrophic"})
	assert.InDelta(t, 0.1, report.RiskScore, 1e-9)
}
