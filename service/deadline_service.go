package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"foiatrack-backend/models"
)

// DayType selects how a response period is counted
type DayType string

const (
	DayTypeBusiness DayType = "business"
	DayTypeCalendar DayType = "calendar"
)

// HolidayFunc reports whether a date is a public holiday
type HolidayFunc func(time.Time) bool

// DeadlineRule describes one jurisdiction's statutory response timeline
type DeadlineRule struct {
	InitialDays   int
	DayType       DayType
	Holiday       HolidayFunc
	ExtensionDays int
	ExtensionType DayType
	Notes         string
}

// RuleInfo is the human-readable description of a jurisdiction's rule
type RuleInfo struct {
	Jurisdiction  string  `json:"jurisdiction"`
	InitialDays   int     `json:"initial_days"`
	DayType       DayType `json:"day_type"`
	ExtensionDays int     `json:"extension_days"`
	Notes         string  `json:"notes"`
}

// UnknownJurisdictionError is returned when no deadline rule exists for a
// jurisdiction and it does not match the state-level prefix fallback.
type UnknownJurisdictionError struct {
	Jurisdiction string
	Known        []string
}

func (e *UnknownJurisdictionError) Error() string {
	return fmt.Sprintf("no deadline rules for jurisdiction %q; known: %s",
		e.Jurisdiction, strings.Join(e.Known, ", "))
}

// jurisdictionRules is the static rule table. Rules are code-level
// constants, not externally configured.
var jurisdictionRules = map[string]DeadlineRule{
	models.JurisdictionUSFederal: {
		InitialDays:   20,
		DayType:       DayTypeBusiness,
		Holiday:       IsUSFederalHoliday,
		ExtensionDays: 10,
		ExtensionType: DayTypeBusiness,
		Notes: "5 U.S.C. Section 552(a)(6)(A)(i): 20 business days. " +
			"Extension of up to 10 additional business days under " +
			"Section 552(a)(6)(B)(i) for 'unusual circumstances.'",
	},
	models.JurisdictionIndia: {
		InitialDays:   30,
		DayType:       DayTypeCalendar,
		ExtensionDays: 0,
		ExtensionType: DayTypeCalendar,
		Notes: "RTI Act Section 7(1): 30 days from receipt. " +
			"If life/liberty at stake: 48 hours. " +
			"Transfer to another PIO: 5 days for transfer + 30 days.",
	},
	models.JurisdictionUK: {
		InitialDays:   20,
		DayType:       DayTypeBusiness,
		Holiday:       IsUKBankHoliday,
		ExtensionDays: 0,
		ExtensionType: DayTypeBusiness,
		Notes: "FOIA 2000 Section 10(1): 20 working days (excludes weekends " +
			"and bank holidays). No statutory extension, but the authority " +
			"may need 'reasonable' additional time for the public interest " +
			"test under qualified exemptions (Section 10(3)).",
	},
	models.JurisdictionEU: {
		InitialDays:   15,
		DayType:       DayTypeBusiness,
		Holiday:       nil, // EU institution holidays vary
		ExtensionDays: 15,
		ExtensionType: DayTypeBusiness,
		Notes: "Regulation 1049/2001 Article 7(1): 15 working days. " +
			"Extension of 15 working days under Article 7(3) " +
			"'in exceptional cases' with reasons given.",
	},
}

// usStateFallbackRule covers any unregistered US-State-* jurisdiction
var usStateFallbackRule = DeadlineRule{
	InitialDays:   10,
	DayType:       DayTypeBusiness,
	Holiday:       IsUSFederalHoliday,
	ExtensionDays: 0,
	ExtensionType: DayTypeBusiness,
	Notes:         "State deadlines vary. Check state-specific rules.",
}

// DeadlineCalculator computes statutory response deadlines per jurisdiction.
// It is stateless after construction and safe for concurrent use.
type DeadlineCalculator struct {
	rules map[string]DeadlineRule
}

// NewDeadlineCalculator creates a calculator with the built-in rule table
func NewDeadlineCalculator() *DeadlineCalculator {
	rules := make(map[string]DeadlineRule, len(jurisdictionRules))
	for k, v := range jurisdictionRules {
		rules[k] = v
	}
	return &DeadlineCalculator{rules: rules}
}

// Calculate returns the initial response deadline for a request filed on
// filedDate
func (c *DeadlineCalculator) Calculate(jurisdiction string, filedDate time.Time) (time.Time, error) {
	rule, err := c.rule(jurisdiction)
	if err != nil {
		return time.Time{}, err
	}
	if rule.DayType == DayTypeBusiness {
		return AddBusinessDays(filedDate, rule.InitialDays, rule.Holiday), nil
	}
	return AddCalendarDays(filedDate, rule.InitialDays), nil
}

// CalculateExtension returns the extended deadline, or nil when the
// jurisdiction allows no extension
func (c *DeadlineCalculator) CalculateExtension(jurisdiction string, deadline time.Time) (*time.Time, error) {
	rule, err := c.rule(jurisdiction)
	if err != nil {
		return nil, err
	}
	if rule.ExtensionDays == 0 {
		return nil, nil
	}
	var extended time.Time
	if rule.ExtensionType == DayTypeBusiness {
		extended = AddBusinessDays(deadline, rule.ExtensionDays, rule.Holiday)
	} else {
		extended = AddCalendarDays(deadline, rule.ExtensionDays)
	}
	return &extended, nil
}

// JurisdictionInfo returns a human-readable description of a jurisdiction's
// deadline rule
func (c *DeadlineCalculator) JurisdictionInfo(jurisdiction string) (*RuleInfo, error) {
	rule, err := c.rule(jurisdiction)
	if err != nil {
		return nil, err
	}
	return &RuleInfo{
		Jurisdiction:  jurisdiction,
		InitialDays:   rule.InitialDays,
		DayType:       rule.DayType,
		ExtensionDays: rule.ExtensionDays,
		Notes:         rule.Notes,
	}, nil
}

// Jurisdictions lists the registered jurisdiction codes, sorted
func (c *DeadlineCalculator) Jurisdictions() []string {
	known := make([]string, 0, len(c.rules))
	for k := range c.rules {
		known = append(known, k)
	}
	sort.Strings(known)
	return known
}

// rule resolves a jurisdiction: exact match first, then the US-State prefix
// fallback, otherwise UnknownJurisdictionError
func (c *DeadlineCalculator) rule(jurisdiction string) (DeadlineRule, error) {
	if rule, ok := c.rules[jurisdiction]; ok {
		return rule, nil
	}
	if strings.HasPrefix(jurisdiction, models.USStatePrefix) {
		return usStateFallbackRule, nil
	}
	return DeadlineRule{}, &UnknownJurisdictionError{
		Jurisdiction: jurisdiction,
		Known:        c.Jurisdictions(),
	}
}

// AddBusinessDays advances start by days business days, skipping weekends
// and any date matching holiday. The start date itself is never counted,
// matching "N business days after receipt".
func AddBusinessDays(start time.Time, days int, holiday HolidayFunc) time.Time {
	current := start
	added := 0
	for added < days {
		current = current.AddDate(0, 0, 1)
		if isWeekend(current) {
			continue
		}
		if holiday != nil && holiday(current) {
			continue
		}
		added++
	}
	return current
}

// AddCalendarDays advances start by plain calendar days
func AddCalendarDays(start time.Time, days int) time.Time {
	return start.AddDate(0, 0, days)
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Fixed-date US federal holidays (month, day)
var usFederalHolidaysFixed = map[[2]int]bool{
	{1, 1}:   true, // New Year's Day
	{6, 19}:  true, // Juneteenth
	{7, 4}:   true, // Independence Day
	{11, 11}: true, // Veterans Day
	{12, 25}: true, // Christmas Day
}

// IsUSFederalHoliday reports whether a date falls on a major US federal
// holiday. Floating holidays are computed from nth-weekday-of-month rules,
// not per-year tables.
func IsUSFederalHoliday(d time.Time) bool {
	if usFederalHolidaysFixed[[2]int{int(d.Month()), d.Day()}] {
		return true
	}
	// MLK Day: 3rd Monday of January
	if d.Month() == time.January && d.Weekday() == time.Monday && d.Day() >= 15 && d.Day() <= 21 {
		return true
	}
	// Presidents' Day: 3rd Monday of February
	if d.Month() == time.February && d.Weekday() == time.Monday && d.Day() >= 15 && d.Day() <= 21 {
		return true
	}
	// Memorial Day: last Monday of May
	if d.Month() == time.May && d.Weekday() == time.Monday && d.Day() >= 25 {
		return true
	}
	// Labor Day: 1st Monday of September
	if d.Month() == time.September && d.Weekday() == time.Monday && d.Day() <= 7 {
		return true
	}
	// Columbus Day: 2nd Monday of October
	if d.Month() == time.October && d.Weekday() == time.Monday && d.Day() >= 8 && d.Day() <= 14 {
		return true
	}
	// Thanksgiving: 4th Thursday of November
	if d.Month() == time.November && d.Weekday() == time.Thursday && d.Day() >= 22 && d.Day() <= 28 {
		return true
	}
	return false
}

// Fixed-date UK bank holidays (England & Wales)
var ukBankHolidaysFixed = map[[2]int]bool{
	{1, 1}:   true, // New Year's Day
	{12, 25}: true, // Christmas Day
	{12, 26}: true, // Boxing Day
}

// IsUKBankHoliday reports whether a date falls on a UK bank holiday
// (England & Wales, simplified)
func IsUKBankHoliday(d time.Time) bool {
	if ukBankHolidaysFixed[[2]int{int(d.Month()), d.Day()}] {
		return true
	}
	// Early May bank holiday: 1st Monday of May
	if d.Month() == time.May && d.Weekday() == time.Monday && d.Day() <= 7 {
		return true
	}
	// Spring bank holiday: last Monday of May
	if d.Month() == time.May && d.Weekday() == time.Monday && d.Day() >= 25 {
		return true
	}
	// Summer bank holiday: last Monday of August
	if d.Month() == time.August && d.Weekday() == time.Monday && d.Day() >= 25 {
		return true
	}
	return false
}
