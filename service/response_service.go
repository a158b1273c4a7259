package service

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"foiatrack-backend/models"
)

// exemptionEntry pairs a citation pattern with its statutory description.
// Entries are ordered: the first matching entry wins.
type exemptionEntry struct {
	pattern     *regexp.Regexp
	description string
}

// usExemptionTable maps US FOIA exemption citations to descriptions
var usExemptionTable = []exemptionEntry{
	{regexp.MustCompile(`\(b\)\(1\)`), "Exemption 1 — Classified national defense/foreign policy"},
	{regexp.MustCompile(`\(b\)\(2\)`), "Exemption 2 — Internal agency rules and practices"},
	{regexp.MustCompile(`\(b\)\(3\)`), "Exemption 3 — Specifically exempted by other statutes"},
	{regexp.MustCompile(`\(b\)\(4\)`), "Exemption 4 — Trade secrets and confidential commercial information"},
	{regexp.MustCompile(`\(b\)\(5\)`), "Exemption 5 — Inter-agency or intra-agency privileged communications"},
	{regexp.MustCompile(`\(b\)\(6\)`), "Exemption 6 — Personal privacy"},
	{regexp.MustCompile(`\(b\)\(7\)\(A\)`), "Exemption 7(A) — Law enforcement: could interfere with proceedings"},
	{regexp.MustCompile(`\(b\)\(7\)\(B\)`), "Exemption 7(B) — Law enforcement: deprive right to fair trial"},
	{regexp.MustCompile(`\(b\)\(7\)\(C\)`), "Exemption 7(C) — Law enforcement: personal privacy"},
	{regexp.MustCompile(`\(b\)\(7\)\(D\)`), "Exemption 7(D) — Law enforcement: confidential sources"},
	{regexp.MustCompile(`\(b\)\(7\)\(E\)`), "Exemption 7(E) — Law enforcement: techniques and procedures"},
	{regexp.MustCompile(`\(b\)\(7\)\(F\)`), "Exemption 7(F) — Law enforcement: endanger life/physical safety"},
	{regexp.MustCompile(`\(b\)\(8\)`), "Exemption 8 — Financial institution examination reports"},
	{regexp.MustCompile(`\(b\)\(9\)`), "Exemption 9 — Geological and geophysical well data"},
}

// ukExemptionTable maps UK FOIA 2000 section citations to descriptions
var ukExemptionTable = []exemptionEntry{
	{regexp.MustCompile(`[Ss]ection\s+21`), "Section 21 — Information accessible by other means"},
	{regexp.MustCompile(`[Ss]ection\s+22`), "Section 22 — Information intended for future publication"},
	{regexp.MustCompile(`[Ss]ection\s+23`), "Section 23 — Security bodies"},
	{regexp.MustCompile(`[Ss]ection\s+24`), "Section 24 — National security"},
	{regexp.MustCompile(`[Ss]ection\s+26`), "Section 26 — Defence"},
	{regexp.MustCompile(`[Ss]ection\s+27`), "Section 27 — International relations"},
	{regexp.MustCompile(`[Ss]ection\s+30`), "Section 30 — Investigations and proceedings"},
	{regexp.MustCompile(`[Ss]ection\s+31`), "Section 31 — Law enforcement"},
	{regexp.MustCompile(`[Ss]ection\s+35`), "Section 35 — Formulation of government policy"},
	{regexp.MustCompile(`[Ss]ection\s+36`), "Section 36 — Prejudice to effective conduct of public affairs"},
	{regexp.MustCompile(`[Ss]ection\s+38`), "Section 38 — Health and safety"},
	{regexp.MustCompile(`[Ss]ection\s+40`), "Section 40 — Personal information"},
	{regexp.MustCompile(`[Ss]ection\s+41`), "Section 41 — Information provided in confidence"},
	{regexp.MustCompile(`[Ss]ection\s+42`), "Section 42 — Legal professional privilege"},
	{regexp.MustCompile(`[Ss]ection\s+43`), "Section 43 — Commercial interests"},
	{regexp.MustCompile(`[Ss]ection\s+44`), "Section 44 — Prohibitions on disclosure"},
}

// indiaExemptionTable maps RTI Act Section 8(1) citations to descriptions
var indiaExemptionTable = []exemptionEntry{
	{regexp.MustCompile(`[Ss]ection\s+8\(1\)\(a\)`), "Section 8(1)(a) — Sovereignty, integrity, security of India"},
	{regexp.MustCompile(`[Ss]ection\s+8\(1\)\(b\)`), "Section 8(1)(b) — Expressly forbidden by court/tribunal"},
	{regexp.MustCompile(`[Ss]ection\s+8\(1\)\(c\)`), "Section 8(1)(c) — Breach of Parliamentary privilege"},
	{regexp.MustCompile(`[Ss]ection\s+8\(1\)\(d\)`), "Section 8(1)(d) — Commercial confidence, trade secrets"},
	{regexp.MustCompile(`[Ss]ection\s+8\(1\)\(e\)`), "Section 8(1)(e) — Fiduciary relationship"},
	{regexp.MustCompile(`[Ss]ection\s+8\(1\)\(f\)`), "Section 8(1)(f) — Received in confidence from foreign govt"},
	{regexp.MustCompile(`[Ss]ection\s+8\(1\)\(g\)`), "Section 8(1)(g) — Endanger life or physical safety"},
	{regexp.MustCompile(`[Ss]ection\s+8\(1\)\(h\)`), "Section 8(1)(h) — Impede investigation or prosecution"},
	{regexp.MustCompile(`[Ss]ection\s+8\(1\)\(i\)`), "Section 8(1)(i) — Cabinet papers"},
	{regexp.MustCompile(`[Ss]ection\s+8\(1\)\(j\)`), "Section 8(1)(j) — Personal information with no public interest"},
}

// Determination phrase vocabularies, checked in priority order
var (
	fullGrantPhrases = []string{
		"full grant", "granted in full", "fully granted",
		"releasing all", "all responsive records",
	}
	partialGrantPhrases = []string{
		"partial grant", "granted in part", "partially granted",
		"releasing portions", "partial release",
		"withheld in part", "redacted",
	}
	denialPhrases = []string{
		"denied", "denial", "we are unable to", "cannot release",
		"refusing your request", "exempt from disclosure",
	}
	noRecordsPhrases = []string{
		"no responsive records", "no records responsive",
		"no documents were located", "no records located",
		"no records found",
	}
)

// Extraction patterns. All extraction is best-effort: an unmatched pattern
// or unparseable numeral degrades to a zero value, never an error.
var (
	usCitationRe    = regexp.MustCompile(`\(b\)\(\d\)(?:\([A-F]\))?`)
	usExemptionNRe  = regexp.MustCompile(`(?i)Exemption\s+(\d(?:\([A-F]\))?)`)
	ukSectionRe     = regexp.MustCompile(`[Ss]ection\s+(\d{1,2})`)
	indiaSection8Re = regexp.MustCompile(`[Ss]ection\s+8\(1\)\(([a-j])\)`)

	pagesReleasedRe = regexp.MustCompile(
		`(?i)(\d{1,6})\s+pages?\s+(?:released|provided|enclosed|produced)` +
			`|(?:releas|provid|enclos|produc)\w+\s+(\d{1,6})\s+pages?`)
	pagesWithheldRe = regexp.MustCompile(
		`(?i)(\d{1,6})\s+pages?\s+(?:withheld|redacted|denied)` +
			`|(?:withheld|redacted|denied)\s+(\d{1,6})\s+pages?`)
	pagesReferredRe = regexp.MustCompile(
		`(?i)(\d{1,6})\s+pages?\s+referred` +
			`|referred\s+(\d{1,6})\s+pages?`)

	trackingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:FOIA|FOI|RTI|ATI)[-\s]?\d{4}[-\s]?\d{3,8}`),
		regexp.MustCompile(`(?i)\d{4}[-\s](?:FOIA|FOI)[-\s]?\d{3,8}`),
		regexp.MustCompile(`(?i)(?:Case|Reference|Tracking|Request)\s*(?:No\.?|Number|#|ID)[:\s]*([A-Z0-9\-]+)`),
	}

	feePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$\s*(\d{1,6}(?:\.\d{2})?)`),
		regexp.MustCompile(`(?i)(?:fee|charge|cost)\s*(?:of|:)\s*\$?\s*(\d{1,6}(?:\.\d{2})?)`),
	}

	analystPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i:analyst|specialist|officer|processor)[:\s]+([A-Z][a-z]+\s+[A-Z][a-z]+)`),
		regexp.MustCompile(`(?i:contact|questions).*?([A-Z][a-z]+\s+[A-Z][a-z]+)\s+at`),
	}
)

// ResponseParser extracts structured data from agency response letters.
// Parse is a pure function of its inputs; the parser holds no state and is
// safe for concurrent use.
type ResponseParser struct{}

// NewResponseParser creates a new response parser
func NewResponseParser() *ResponseParser {
	return &ResponseParser{}
}

// Parse extracts structured data from one response letter
func (p *ResponseParser) Parse(text, jurisdiction string) *models.ParsedResponse {
	result := &models.ParsedResponse{RawText: text}

	result.Determination = detectDetermination(text)
	result.Exemptions = extractExemptions(text, jurisdiction)
	result.ExemptionDetails = mapExemptionDetails(result.Exemptions, jurisdiction)

	result.PagesReleased = sumPageMatches(pagesReleasedRe, text)
	result.PagesWithheldFull = sumPageMatches(pagesWithheldRe, text)
	result.PagesReferred = sumPageMatches(pagesReferredRe, text)

	result.TrackingNumber = extractTrackingNumber(text)
	result.FeeCharged = extractFee(text)
	result.FeeWaiverGranted = detectFeeWaiver(text)
	result.AssignedAnalyst = extractAnalyst(text)

	return result
}

// detectDetermination classifies the response by a prioritized phrase
// match over the lower-cased text; first category to match wins
func detectDetermination(text string) string {
	lower := strings.ToLower(text)
	if containsAny(lower, fullGrantPhrases) {
		return models.DeterminationFullGrant
	}
	if containsAny(lower, partialGrantPhrases) {
		return models.DeterminationPartialGrant
	}
	if containsAny(lower, denialPhrases) {
		return models.DeterminationDenial
	}
	if containsAny(lower, noRecordsPhrases) {
		return models.DeterminationNoRecords
	}
	return models.DeterminationUnknown
}

func containsAny(lower string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func extractExemptions(text, jurisdiction string) []string {
	var exemptions []string

	switch {
	case jurisdiction == models.JurisdictionUSFederal || strings.HasPrefix(jurisdiction, models.USStatePrefix):
		exemptions = append(exemptions, sortedUnique(usCitationRe.FindAllString(text, -1))...)
		// "Exemption N" style citations normalize to the (b)(N) form
		for _, m := range usExemptionNRe.FindAllStringSubmatch(text, -1) {
			formatted := "(b)(" + m[1] + ")"
			if !containsString(exemptions, formatted) {
				exemptions = append(exemptions, formatted)
			}
		}

	case jurisdiction == models.JurisdictionUK:
		var sections []string
		for _, m := range ukSectionRe.FindAllStringSubmatch(text, -1) {
			sections = append(sections, m[1])
		}
		for _, s := range sortedUnique(sections) {
			exemptions = append(exemptions, "Section "+s)
		}

	case jurisdiction == models.JurisdictionIndia:
		var clauses []string
		for _, m := range indiaSection8Re.FindAllStringSubmatch(text, -1) {
			clauses = append(clauses, m[1])
		}
		for _, c := range sortedUnique(clauses) {
			exemptions = append(exemptions, "Section 8(1)("+c+")")
		}
	}

	return exemptions
}

func mapExemptionDetails(exemptions []string, jurisdiction string) map[string]string {
	details := make(map[string]string)

	var table []exemptionEntry
	switch {
	case jurisdiction == models.JurisdictionUSFederal || strings.HasPrefix(jurisdiction, models.USStatePrefix):
		table = usExemptionTable
	case jurisdiction == models.JurisdictionUK:
		table = ukExemptionTable
	case jurisdiction == models.JurisdictionIndia:
		table = indiaExemptionTable
	default:
		return details
	}

	for _, exemption := range exemptions {
		for _, entry := range table {
			if entry.pattern.MatchString(exemption) {
				details[exemption] = entry.description
				break
			}
		}
	}

	return details
}

// sumPageMatches sums every numeral matched by a page-count pattern, in
// either word order ("180 pages released" and "released 180 pages")
func sumPageMatches(re *regexp.Regexp, text string) int {
	total := 0
	for _, groups := range re.FindAllStringSubmatch(text, -1) {
		for _, g := range groups[1:] {
			if g == "" {
				continue
			}
			n, err := strconv.Atoi(g)
			if err != nil {
				continue
			}
			total += n
		}
	}
	return total
}

func extractTrackingNumber(text string) string {
	for _, re := range trackingPatterns {
		if match := re.FindString(text); match != "" {
			return strings.TrimSpace(match)
		}
	}
	return ""
}

func extractFee(text string) *float64 {
	for _, re := range feePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		fee, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return &fee
	}
	return nil
}

// detectFeeWaiver returns nil when the response never mentions a fee
// waiver; absence of the phrase is unknown, not false
func detectFeeWaiver(text string) *bool {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "fee waiver") {
		return nil
	}
	if containsAny(lower, []string{"granted", "approved", "waived"}) {
		granted := true
		return &granted
	}
	if containsAny(lower, []string{"denied", "rejected", "not granted"}) {
		granted := false
		return &granted
	}
	return nil
}

func extractAnalyst(text string) string {
	for _, re := range analystPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func sortedUnique(values []string) []string {
	seen := make(map[string]bool, len(values))
	var unique []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	// lexicographic sort keeps extraction deterministic
	sort.Strings(unique)
	return unique
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
