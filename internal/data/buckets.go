package data

import (
	"time"

	"huddleboard/internal/models"
)

const dateLayout = "2006-01-02"

// DateRange is a named, inclusive reservation date window.
type DateRange struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Contains reports whether the given date falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// DefaultDateRanges returns the standard windows the dashboard buckets
// reservations into.
func DefaultDateRanges() []DateRange {
	return []DateRange{
		{Name: "2024-05 to 2024-09", Start: date(2024, 5, 1), End: date(2024, 9, 30)},
		{Name: "2024-10 to 2024-12", Start: date(2024, 10, 1), End: date(2024, 12, 31)},
		{Name: "2025-01 to 2025-02", Start: date(2025, 1, 1), End: date(2025, 2, 28)},
		{Name: "2025-03 to 2025-05", Start: date(2025, 3, 1), End: date(2025, 5, 31)},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate converts a YYYY-MM-DD string into a time.Time.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// Buckets holds diners grouped by date range, preserving range order.
type Buckets struct {
	Names  []string
	Diners map[string][]models.Diner
}

// Get returns the diners for a bucket name.
func (b *Buckets) Get(name string) ([]models.Diner, bool) {
	diners, ok := b.Diners[name]
	return diners, ok
}

// Bucket organizes diners into the given date ranges. A diner lands in
// every range at least one of their reservations falls into, carrying a
// copy that holds only the in-range reservations. Reservations with
// unparseable dates are skipped.
func Bucket(dataset *models.Dataset, ranges []DateRange) *Buckets {
	buckets := &Buckets{
		Names:  make([]string, 0, len(ranges)),
		Diners: make(map[string][]models.Diner, len(ranges)),
	}
	for _, r := range ranges {
		buckets.Names = append(buckets.Names, r.Name)
		buckets.Diners[r.Name] = []models.Diner{}
	}

	for _, diner := range dataset.Diners {
		for _, r := range ranges {
			var inRange []models.Reservation
			for _, res := range diner.Reservations {
				t, err := ParseDate(res.Date)
				if err != nil {
					continue
				}
				if r.Contains(t) {
					inRange = append(inRange, res)
				}
			}

			if len(inRange) == 0 {
				continue
			}

			copied := diner
			copied.Reservations = inRange
			buckets.Diners[r.Name] = append(buckets.Diners[r.Name], copied)
		}
	}

	return buckets
}
