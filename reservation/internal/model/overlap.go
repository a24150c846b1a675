package model

import (
	"time"

	"github.com/Astemirdum/room-reservation/reservation/internal/errs"
)

// DateRange is the half-open interval [Begin, End) of nights, both bounds at midnight UTC.
type DateRange struct {
	Begin time.Time
	End   time.Time
}

func (r DateRange) Validate() error {
	if !r.Begin.Before(r.End) {
		return errs.NewValidationError(errs.MsgDateOrder, "date_begin", "date_end")
	}
	return nil
}

// Days is the number of nights in the range.
func (r DateRange) Days() int {
	return int(Date(r.End).Sub(Date(r.Begin)).Hours() / 24)
}

// Overlaps reports whether two half-open ranges share at least one night.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Begin.Before(o.End) && o.Begin.Before(r.End)
}

// Date truncates t to its calendar day in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// OverlapQuery selects reservations intersecting a possibly open-ended date window.
type OverlapQuery struct {
	Begin      *time.Time
	End        *time.Time
	Status     Status
	RoomNumber *int
	// ExcludeID skips one reservation, the one being edited.
	ExcludeID int64
}

func (q OverlapQuery) Validate() error {
	if q.Begin == nil && q.End == nil {
		return errs.ErrInvalidArgument
	}
	return nil
}

// Inverted reports a window with Begin >= End. Such a window matches the
// reservations that begin before Begin and end after End.
func (q OverlapQuery) Inverted() bool {
	return q.Begin != nil && q.End != nil && !q.Begin.Before(*q.End)
}

// Match is the in-process form of the overlap predicate the repository renders as SQL.
func (q OverlapQuery) Match(r Reservation) bool {
	if r.Status != q.Status {
		return false
	}
	if q.RoomNumber != nil && r.RoomNumber != *q.RoomNumber {
		return false
	}
	if q.ExcludeID != 0 && r.ID == q.ExcludeID {
		return false
	}
	switch {
	case q.Inverted():
		return r.DateBegin.Before(*q.Begin) && r.DateEnd.After(*q.End)
	case q.Begin != nil && q.End != nil:
		return r.DateBegin.Before(*q.End) && r.DateEnd.After(*q.Begin)
	case q.Begin != nil:
		return !r.DateBegin.Before(*q.Begin) || r.DateEnd.After(*q.Begin)
	case q.End != nil:
		return r.DateBegin.Before(*q.End) || !r.DateEnd.After(*q.End)
	}
	return false
}
