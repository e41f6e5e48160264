package services

import (
	"time"

	"github.com/nathantkn/restockd/pkg/apperrors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// parseDate rejects anything that is not zero-padded YYYY-MM-DD. The
// zero-padded form is what makes string comparison order-correct everywhere
// else in the services.
func parseDate(s string) error {
	if len(s) != len(dateLayout) {
		return apperrors.NewValidation("date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return apperrors.NewValidation("date must be in YYYY-MM-DD format")
	}
	return nil
}

// parseClock rejects anything that is not zero-padded HH:MM.
func parseClock(s string) error {
	if len(s) != len(timeLayout) {
		return apperrors.NewValidation("time must be in HH:MM format")
	}
	if _, err := time.Parse(timeLayout, s); err != nil {
		return apperrors.NewValidation("time must be in HH:MM format")
	}
	return nil
}

// validateFutureMoment fails when date/clock is strictly before now:
// a past date, or today with a past time.
func validateFutureMoment(now time.Time, date, clock, what string) error {
	today := now.Format(dateLayout)
	nowClock := now.Format(timeLayout)

	if date < today {
		return apperrors.NewValidation(what + " date cannot be in the past")
	}
	if date == today && clock < nowClock {
		return apperrors.NewValidation(what + " time cannot be earlier than the current time")
	}
	return nil
}

// validateWindow checks an availability window: well-formed fields, end not
// before start, and no boundary in the past relative to now.
func validateWindow(now time.Time, fromDate, toDate, fromTime, toTime string) error {
	for _, d := range []string{fromDate, toDate} {
		if err := parseDate(d); err != nil {
			return err
		}
	}
	for _, t := range []string{fromTime, toTime} {
		if err := parseClock(t); err != nil {
			return err
		}
	}

	if toDate < fromDate {
		return apperrors.NewValidation("window end date cannot be earlier than start date")
	}
	if fromDate == toDate && toTime < fromTime {
		return apperrors.NewValidation("window end time cannot be earlier than start time on the same day")
	}
	if err := validateFutureMoment(now, fromDate, fromTime, "window start"); err != nil {
		return err
	}
	return validateFutureMoment(now, toDate, toTime, "window end")
}
