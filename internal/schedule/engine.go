// Package schedule computes payroll run dates and validates schedules.
// Everything in this package is a pure function over its inputs: no I/O,
// no clock reads, safe to call from any number of goroutines.
package schedule

import (
	"fmt"
	"time"
)

// Frequency is the recurrence cadence of a pay schedule.
type Frequency string

const (
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Valid reports whether f is a known cadence.
func (f Frequency) Valid() bool {
	return f == Weekly || f == Monthly
}

// MaxItemAmount is the default per-recipient amount ceiling.
const MaxItemAmount = 1_000_000

// runHour is the local hour of day every run is pinned to.
const runHour = 9

// Item is one recipient line in a proposed schedule.
type Item struct {
	RecipientID string
	Amount      float64
}

// NextRun returns the next run instant for the cadence/pay-day pair
// relative to now. payDay must already be valid for freq (see
// ValidatePayDay); behavior is undefined otherwise.
//
// Weekly: payDay is an ISO weekday, Monday=1 through Sunday=7. When today
// is the pay day the run rolls a full week ahead; NextRun never returns
// today.
//
// Monthly: payDay is a day of month 1-31. The candidate is that day of
// now's month; when the candidate's date is on or before now's date it
// rolls to the following month, regardless of now's time of day. A
// payDay past the end of the target month clamps to the month's last
// day, so payDay 31 pays on Feb 28 (29 in leap years).
//
// The result is pinned to 09:00:00 in now's location.
func NextRun(freq Frequency, payDay int, now time.Time) time.Time {
	if freq == Weekly {
		currentDay := int(now.Weekday())
		if currentDay == 0 {
			currentDay = 7 // ISO numbering: Sunday is 7, not 0
		}
		daysUntil := payDay - currentDay
		if payDay < currentDay {
			daysUntil = 7 - currentDay + payDay
		}
		if daysUntil == 0 {
			daysUntil = 7
		}
		return time.Date(now.Year(), now.Month(), now.Day()+daysUntil, runHour, 0, 0, 0, now.Location())
	}

	candidate := monthlyCandidate(now.Year(), now.Month(), payDay, now.Location())
	if candidate.Day() <= now.Day() {
		candidate = monthlyCandidate(now.Year(), now.Month()+1, payDay, now.Location())
	}
	return candidate
}

// monthlyCandidate returns payDay of the given month at 09:00, clamped to
// the month's last day. month may be out of range (e.g. 13); time.Date
// normalizes it before clamping.
func monthlyCandidate(year int, month time.Month, payDay int, loc *time.Location) time.Time {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	day := payDay
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfMonth.Year(), firstOfMonth.Month(), day, runHour, 0, 0, 0, loc)
}

// ValidatePayDay checks payDay against the cadence's valid domain:
// 1-7 for weekly, 1-31 for monthly. Returns nil when valid.
func ValidatePayDay(freq Frequency, payDay int) *ValidationError {
	switch freq {
	case Weekly:
		if payDay < 1 || payDay > 7 {
			return &ValidationError{Kind: ErrOutOfRange, Message: "weekly pay day must be 1-7 (Monday-Sunday)"}
		}
	case Monthly:
		if payDay < 1 || payDay > 31 {
			return &ValidationError{Kind: ErrOutOfRange, Message: "monthly pay day must be 1-31"}
		}
	default:
		return &ValidationError{Kind: ErrOutOfRange, Message: fmt.Sprintf("unknown frequency %q", freq)}
	}
	return nil
}

// ValidateItems checks a recipient list against the default amount
// ceiling. See ValidateItemsLimit.
func ValidateItems(items []Item) []ValidationError {
	return ValidateItemsLimit(items, MaxItemAmount)
}

// ValidateItemsLimit accumulates every violation in items rather than
// stopping at the first: an empty list, a missing recipient id, a
// non-positive amount, an amount above maxAmount, and one aggregate
// duplicate-recipient error no matter how many lines repeat. A nil
// result means the list is valid.
func ValidateItemsLimit(items []Item, maxAmount float64) []ValidationError {
	var errs []ValidationError

	if len(items) == 0 {
		errs = append(errs, ValidationError{Kind: ErrEmptyRecipientList, Message: "at least one recipient is required"})
	}

	seen := make(map[string]int, len(items))
	hasDuplicate := false
	for i, item := range items {
		line := i + 1
		if item.RecipientID == "" {
			errs = append(errs, ValidationError{Kind: ErrMissingRecipientID, Message: fmt.Sprintf("item %d: recipient id is required", line)})
		} else {
			seen[item.RecipientID]++
			if seen[item.RecipientID] > 1 {
				hasDuplicate = true
			}
		}
		if item.Amount <= 0 {
			errs = append(errs, ValidationError{Kind: ErrNonPositiveAmount, Message: fmt.Sprintf("item %d: amount must be greater than 0", line)})
		} else if item.Amount > maxAmount {
			errs = append(errs, ValidationError{Kind: ErrAmountExceedsLimit, Message: fmt.Sprintf("item %d: amount exceeds maximum limit", line)})
		}
	}

	if hasDuplicate {
		errs = append(errs, ValidationError{Kind: ErrDuplicateRecipient, Message: "duplicate recipients are not allowed"})
	}

	return errs
}
