package stats

import (
	"fmt"
	"time"
)

// Bucket is one slot in a fixed-length time-partitioned output array. Total
// counts every record assigned to the slot; Kinds carries the caller-supplied
// classification sub-counts; Amount accumulates a monetary weight when the
// bucketing call supplies one.
type Bucket struct {
	Label  string         `json:"label"`
	Total  int            `json:"total"`
	Amount float64        `json:"amount,omitempty"`
	Kinds  map[string]int `json:"kinds,omitempty"`
}

// bucketSpec pairs the fixed label set with an index function. An index
// outside [0, len(labels)) drops the record: the range filter upstream should
// already have excluded it, so the bucketing step is defensive only.
type bucketSpec struct {
	labels []string
	index  func(time.Time) int
}

func bucketize[T any](records []T, dateOf func(T) time.Time, classify func(T) string, amountOf func(T) float64, spec bucketSpec) []Bucket {
	buckets := make([]Bucket, len(spec.labels))
	for i, label := range spec.labels {
		buckets[i].Label = label
	}
	for _, rec := range records {
		d := dateOf(rec)
		if d.IsZero() {
			continue
		}
		i := spec.index(d)
		if i < 0 || i >= len(buckets) {
			continue
		}
		buckets[i].Total++
		if amountOf != nil {
			buckets[i].Amount += amountOf(rec)
		}
		if classify != nil {
			if kind := classify(rec); kind != "" {
				if buckets[i].Kinds == nil {
					buckets[i].Kinds = make(map[string]int)
				}
				buckets[i].Kinds[kind]++
			}
		}
	}
	return buckets
}

// BucketByDayOfMonth partitions records into one bucket per calendar day of
// the anchor's month. The output length always equals daysInMonth(anchor),
// regardless of data sparsity.
func BucketByDayOfMonth[T any](records []T, dateOf func(T) time.Time, classify func(T) string, amountOf func(T) float64, anchor time.Time) []Bucket {
	days := daysInMonth(anchor)
	labels := make([]string, days)
	for i := range labels {
		labels[i] = fmt.Sprintf("%04d-%02d-%02d", anchor.Year(), int(anchor.Month()), i+1)
	}
	return bucketize(records, dateOf, classify, amountOf, bucketSpec{
		labels: labels,
		index: func(d time.Time) int {
			if d.Year() != anchor.Year() || d.Month() != anchor.Month() {
				return -1
			}
			return d.Day() - 1
		},
	})
}

// BucketByMonthOfQuarter partitions records into the three months of the
// anchor's quarter, in quarter order.
func BucketByMonthOfQuarter[T any](records []T, dateOf func(T) time.Time, classify func(T) string, amountOf func(T) float64, anchor time.Time) []Bucket {
	first := quarterFirstMonth(anchor.Month())
	labels := make([]string, 3)
	for i := range labels {
		labels[i] = fmt.Sprintf("%04d-%02d", anchor.Year(), int(first)+i)
	}
	return bucketize(records, dateOf, classify, amountOf, bucketSpec{
		labels: labels,
		index: func(d time.Time) int {
			if d.Year() != anchor.Year() {
				return -1
			}
			i := int(d.Month()) - int(first)
			if i < 0 || i > 2 {
				return -1
			}
			return i
		},
	})
}

// BucketByQuarterOfYear partitions records into the four calendar quarters of
// the anchor's year.
func BucketByQuarterOfYear[T any](records []T, dateOf func(T) time.Time, classify func(T) string, amountOf func(T) float64, anchor time.Time) []Bucket {
	labels := make([]string, 4)
	for i := range labels {
		labels[i] = fmt.Sprintf("%04d-Q%d", anchor.Year(), i+1)
	}
	return bucketize(records, dateOf, classify, amountOf, bucketSpec{
		labels: labels,
		index: func(d time.Time) int {
			if d.Year() != anchor.Year() {
				return -1
			}
			return quarterOf(d.Month()) - 1
		},
	})
}

// BucketByYearWindow partitions records into a rolling six-year window ending
// at the anchor's year. This is the second year-granularity sub-mode; callers
// choose it explicitly, it is never inferred.
func BucketByYearWindow[T any](records []T, dateOf func(T) time.Time, classify func(T) string, amountOf func(T) float64, anchor time.Time) []Bucket {
	const window = 6
	firstYear := anchor.Year() - window + 1
	labels := make([]string, window)
	for i := range labels {
		labels[i] = fmt.Sprintf("%04d", firstYear+i)
	}
	return bucketize(records, dateOf, classify, amountOf, bucketSpec{
		labels: labels,
		index:  func(d time.Time) int { return d.Year() - firstYear },
	})
}

func daysInMonth(anchor time.Time) int {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	return first.AddDate(0, 1, -1).Day()
}
