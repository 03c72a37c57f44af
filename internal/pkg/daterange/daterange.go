package daterange

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Range is a closed interval of calendar days: both From and To are included.
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Day drops the clock part of t and returns midnight UTC of the same calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func New(from, to time.Time) Range {
	return Range{From: Day(from), To: Day(to)}
}

func Parse(from, to string) (Range, error) {
	f, err := time.Parse(Layout, from)
	if err != nil {
		return Range{}, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	t, err := time.Parse(Layout, to)
	if err != nil {
		return Range{}, fmt.Errorf("invalid to date %q: %w", to, err)
	}
	return New(f, t), nil
}

func (r Range) Valid() bool {
	return !r.To.Before(r.From)
}

// Days lists every day of the range in ascending order.
func (r Range) Days() []time.Time {
	if !r.Valid() {
		return nil
	}
	out := make([]time.Time, 0, r.Len())
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Len is the number of days in the range, 0 when inverted.
func (r Range) Len() int {
	if !r.Valid() {
		return 0
	}
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

func (r Range) Contains(day time.Time) bool {
	day = Day(day)
	return !day.Before(r.From) && !day.After(r.To)
}

// Overlaps uses inclusive boundaries: a range ending on the day another one
// starts overlaps it.
func (r Range) Overlaps(o Range) bool {
	return !r.From.After(o.To) && !r.To.Before(o.From)
}

func (r Range) String() string {
	return r.From.Format(Layout) + ".." + r.To.Format(Layout)
}
