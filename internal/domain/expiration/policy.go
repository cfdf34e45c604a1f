// Package expiration computes audit deadlines from admin-supplied day counts.
package expiration

import (
	"errors"
	"time"

	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
)

// ErrInvalidDays is returned when the day count is not a positive integer
var ErrInvalidDays = errors.New("expiration days must be a positive integer")

// ComputeExpiry returns referenceTime + days calendar days, keeping the
// timezone of referenceTime. An AI-suggested day count may pre-seed the admin
// form, but the value reaching this function is always admin-confirmed.
func ComputeExpiry(referenceTime time.Time, days int) (time.Time, error) {
	if days < 1 {
		return time.Time{}, ErrInvalidDays
	}
	return referenceTime.AddDate(0, 0, days), nil
}

// IsOverdue reports whether the audit's deadline has passed. Overdue is a
// derived property: it never transitions the audit, and a completed or
// cancelled audit is never overdue.
func IsOverdue(audit *entity.Audit, now time.Time) bool {
	if audit.IsTerminal() {
		return false
	}
	return now.After(audit.ExpiresAt)
}
