package service

import (
	"testing"

	"foiatrack-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDetermination(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"full grant", "We are granting a full grant of your request.", models.DeterminationFullGrant},
		{"granted in full", "Your request has been granted in full.", models.DeterminationFullGrant},
		{"releasing all", "We are releasing all responsive material.", models.DeterminationFullGrant},
		{"partial grant", "This is a partial grant of your request.", models.DeterminationPartialGrant},
		{"redacted", "Portions of the records have been redacted.", models.DeterminationPartialGrant},
		{"denied", "Your request has been denied.", models.DeterminationDenial},
		{"cannot release", "We cannot release these records.", models.DeterminationDenial},
		{"exempt from disclosure", "These records are exempt from disclosure.", models.DeterminationDenial},
		{"no responsive records", "A search located no responsive records.", models.DeterminationNoRecords},
		{"no documents located", "No documents were located.", models.DeterminationNoRecords},
		{"unknown", "Thank you for your correspondence.", models.DeterminationUnknown},
		// Priority: a partial-grant phrase wins over a denial phrase
		{"partial beats denial", "Your request is granted in part and denied in part.", models.DeterminationPartialGrant},
	}

	parser := NewResponseParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.text, "US-Federal")
			assert.Equal(t, tt.want, got.Determination)
		})
	}
}

func TestParsePageCounts(t *testing.T) {
	parser := NewResponseParser()

	t.Run("both orders", func(t *testing.T) {
		parsed := parser.Parse("We have released 25 pages. 10 pages withheld.", "US-Federal")
		assert.Equal(t, 25, parsed.PagesReleased)
		assert.Equal(t, 10, parsed.PagesWithheldFull)
	})

	t.Run("round trip", func(t *testing.T) {
		text := "Enclosed please find the records. 180 pages released. 20 pages withheld."
		parsed := parser.Parse(text, "US-Federal")
		assert.Equal(t, 180, parsed.PagesReleased)
		assert.Equal(t, 20, parsed.PagesWithheldFull)
	})

	t.Run("multiple matches are summed", func(t *testing.T) {
		text := "First batch: 100 pages released. Second batch: 50 pages provided. 5 pages referred to DOJ."
		parsed := parser.Parse(text, "US-Federal")
		assert.Equal(t, 150, parsed.PagesReleased)
		assert.Equal(t, 5, parsed.PagesReferred)
	})

	t.Run("no counts", func(t *testing.T) {
		parsed := parser.Parse("Your request is being processed.", "US-Federal")
		assert.Zero(t, parsed.PagesReleased)
		assert.Zero(t, parsed.PagesWithheldFull)
		assert.Zero(t, parsed.PagesReferred)
	})
}

func TestParseIsIdempotent(t *testing.T) {
	parser := NewResponseParser()
	text := "Granted in part. 180 pages released, 20 pages withheld under (b)(5). Fee waiver granted."

	first := parser.Parse(text, "US-Federal")
	second := parser.Parse(text, "US-Federal")
	assert.Equal(t, first, second)
}

func TestExtractExemptionsUS(t *testing.T) {
	parser := NewResponseParser()

	t.Run("citations sorted and deduplicated", func(t *testing.T) {
		text := "Withheld under (b)(6), (b)(4), (b)(6) and (b)(7)(C)."
		parsed := parser.Parse(text, "US-Federal")
		assert.Equal(t, []string{"(b)(4)", "(b)(6)", "(b)(7)(C)"}, parsed.Exemptions)
	})

	t.Run("Exemption N style normalizes", func(t *testing.T) {
		parsed := parser.Parse("Withheld under Exemption 5.", "US-Federal")
		assert.Equal(t, []string{"(b)(5)"}, parsed.Exemptions)
	})

	t.Run("mixed styles do not duplicate", func(t *testing.T) {
		parsed := parser.Parse("Withheld under (b)(5), see Exemption 5.", "US-Federal")
		assert.Equal(t, []string{"(b)(5)"}, parsed.Exemptions)
	})

	t.Run("state prefix uses US tables", func(t *testing.T) {
		parsed := parser.Parse("Withheld under (b)(6).", "US-State-CA")
		assert.Equal(t, []string{"(b)(6)"}, parsed.Exemptions)
	})

	t.Run("details mapped", func(t *testing.T) {
		parsed := parser.Parse("Withheld under (b)(4).", "US-Federal")
		require.Contains(t, parsed.ExemptionDetails, "(b)(4)")
		assert.Contains(t, parsed.ExemptionDetails["(b)(4)"], "Trade secrets")
	})
}

func TestExtractExemptionsUK(t *testing.T) {
	parser := NewResponseParser()

	parsed := parser.Parse("Information withheld under Section 43 and section 35.", "UK")
	assert.Equal(t, []string{"Section 35", "Section 43"}, parsed.Exemptions)
	assert.Contains(t, parsed.ExemptionDetails["Section 43"], "Commercial interests")
}

func TestExtractExemptionsIndia(t *testing.T) {
	parser := NewResponseParser()

	parsed := parser.Parse("Exempt under Section 8(1)(d) and Section 8(1)(j).", "India")
	assert.Equal(t, []string{"Section 8(1)(d)", "Section 8(1)(j)"}, parsed.Exemptions)
	assert.Contains(t, parsed.ExemptionDetails["Section 8(1)(d)"], "Commercial confidence")
}

func TestExtractTrackingNumber(t *testing.T) {
	parser := NewResponseParser()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"FOIA prefix", "Your request FOIA-2025-12345 has been received.", "FOIA-2025-12345"},
		{"RTI prefix", "Reference RTI-2025-00042 applies.", "RTI-2025-00042"},
		{"none", "We received your letter.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := parser.Parse(tt.text, "US-Federal")
			assert.Equal(t, tt.want, parsed.TrackingNumber)
		})
	}
}

func TestExtractFee(t *testing.T) {
	parser := NewResponseParser()

	t.Run("dollar amount", func(t *testing.T) {
		parsed := parser.Parse("A fee of $15.50 is due.", "US-Federal")
		require.NotNil(t, parsed.FeeCharged)
		assert.Equal(t, 15.50, *parsed.FeeCharged)
	})

	t.Run("no fee", func(t *testing.T) {
		parsed := parser.Parse("No fees apply to this request.", "US-Federal")
		assert.Nil(t, parsed.FeeCharged)
	})
}

func TestDetectFeeWaiver(t *testing.T) {
	parser := NewResponseParser()

	t.Run("granted", func(t *testing.T) {
		parsed := parser.Parse("Your fee waiver request has been granted.", "US-Federal")
		require.NotNil(t, parsed.FeeWaiverGranted)
		assert.True(t, *parsed.FeeWaiverGranted)
	})

	t.Run("denied", func(t *testing.T) {
		parsed := parser.Parse("The fee waiver was rejected.", "US-Federal")
		require.NotNil(t, parsed.FeeWaiverGranted)
		assert.False(t, *parsed.FeeWaiverGranted)
	})

	t.Run("not mentioned is unknown, not false", func(t *testing.T) {
		parsed := parser.Parse("Records enclosed.", "US-Federal")
		assert.Nil(t, parsed.FeeWaiverGranted)
	})
}

func TestExtractAnalyst(t *testing.T) {
	parser := NewResponseParser()

	t.Run("titled analyst", func(t *testing.T) {
		parsed := parser.Parse("Your request was assigned to FOIA Analyst: Jane Doe.", "US-Federal")
		assert.Equal(t, "Jane Doe", parsed.AssignedAnalyst)
	})

	t.Run("contact phrasing", func(t *testing.T) {
		parsed := parser.Parse("For questions please reach James Smith at 202-555-0100.", "US-Federal")
		assert.Equal(t, "James Smith", parsed.AssignedAnalyst)
	})

	t.Run("none", func(t *testing.T) {
		parsed := parser.Parse("Records enclosed.", "US-Federal")
		assert.Empty(t, parsed.AssignedAnalyst)
	})
}

func TestParsedResponseSummary(t *testing.T) {
	parser := NewResponseParser()

	parsed := parser.Parse("Granted in part. 180 pages released. 20 pages withheld under (b)(5).", "US-Federal")
	summary := parsed.Summary()

	assert.Contains(t, summary, "partial_grant")
	assert.Contains(t, summary, "180")
	assert.Contains(t, summary, "20")
	assert.Contains(t, summary, "(b)(5)")
}
