package services

import (
	"fmt"
	"time"

	"golang.org/x/exp/slices"
)

// Origin records which source produced a booked interval. It is carried for
// UI bookkeeping and diagnostics only; the overlap logic never looks at it.
type Origin string

const (
	OriginLocalStore     Origin = "local_store"
	OriginSyndicatedFeed Origin = "syndicated_feed"
)

// BookedInterval is a half-open [Start, End) range of booked nights, both
// endpoints normalized to local midnight. End is the checkout day: that
// morning is free for a new arrival.
type BookedInterval struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Origin Origin    `json:"origin"`
}

// CandidateRange is a guest's requested stay, normalized like BookedInterval.
// It lives only for the duration of one booking attempt.
type CandidateRange struct {
	Start time.Time
	End   time.Time
}

// ToMidnight truncates t to midnight in its own location. Every date that
// enters the availability engine passes through here first; comparing a
// midnight against a non-midnight time is how one-day drift bugs happen.
func ToMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseLocalDate parses a YYYY-MM-DD string as midnight in the local
// timezone. time.Parse would yield UTC and shift the calendar day for
// anyone east of Greenwich.
func ParseLocalDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Nights returns the number of nights in [start, end), never less than one.
func Nights(start, end time.Time) int {
	start = ToMidnight(start)
	end = ToMidnight(end)
	n := int(end.Sub(start).Round(24*time.Hour) / (24 * time.Hour))
	if n < 1 {
		return 1
	}
	return n
}

// NewCandidateRange normalizes the requested stay to local midnights and
// rejects an empty or inverted range.
func NewCandidateRange(start, end time.Time) (CandidateRange, error) {
	s := ToMidnight(start.In(time.Local))
	e := ToMidnight(end.In(time.Local))
	if !s.Before(e) {
		return CandidateRange{}, fmt.Errorf("start date %s must be before end date %s",
			s.Format("2006-01-02"), e.Format("2006-01-02"))
	}
	return CandidateRange{Start: s, End: e}, nil
}

func (c CandidateRange) Nights() int {
	return Nights(c.Start, c.End)
}

// IsDateBooked reports whether date falls inside any booked interval.
// The checkout day itself (date == End) is not booked.
func IsDateBooked(date time.Time, intervals []BookedInterval) bool {
	d := ToMidnight(date)
	for _, iv := range intervals {
		if !d.Before(iv.Start) && d.Before(iv.End) {
			return true
		}
	}
	return false
}

// IsRangeAvailable reports whether the half-open range [start, end) is free
// of every booked interval. Two half-open ranges [a,b) and [c,d) overlap iff
// a < d && c < b; a closed-interval comparison here would wrongly reject
// back-to-back checkout/check-in on the same day.
func IsRangeAvailable(start, end time.Time, intervals []BookedInterval) bool {
	a := ToMidnight(start)
	b := ToMidnight(end)
	for _, iv := range intervals {
		if a.Before(iv.End) && iv.Start.Before(b) {
			return false
		}
	}
	return true
}

// MergeIntervals concatenates the two sources and orders the result by start
// date. No dedup across origins: a booking present both locally and in the
// feed yields two consistent overlapping intervals, which changes nothing
// about query results.
func MergeIntervals(local, feed []BookedInterval) []BookedInterval {
	merged := make([]BookedInterval, 0, len(local)+len(feed))
	merged = append(merged, local...)
	merged = append(merged, feed...)
	slices.SortFunc(merged, func(a, b BookedInterval) int {
		return a.Start.Compare(b.Start)
	})
	return merged
}
