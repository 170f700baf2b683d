// Package membership keeps the longest observed membership duration per user.
package membership

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Tracker merges per-unit observations monotonically: a user's recorded duration never shrinks.
type Tracker struct {
	members map[string]int
}

type Summary struct {
	MemberCount  int             `json:"member_count"`
	TotalMonths  int             `json:"total_duration_months"`
	MeanMonths   float64         `json:"mean_duration_months"`
	Distribution map[int]int     `json:"distribution"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// Bucket is one bar of the duration histogram.
type Bucket struct {
	Months int `json:"months"`
	Users  int `json:"users"`
}

func NewTracker(initial map[string]int) *Tracker {
	t := &Tracker{members: make(map[string]int, len(initial))}
	t.Merge(initial)
	return t
}

// Merge folds one batch of observations in, keeping the maximum per user. It reports how many
// users were added or raised.
func (t *Tracker) Merge(observations map[string]int) int {
	changed := 0
	for user, months := range observations {
		if current, ok := t.members[user]; ok && current >= months {
			continue
		}
		t.members[user] = months
		changed++
	}
	return changed
}

func (t *Tracker) Members() map[string]int {
	out := make(map[string]int, len(t.members))
	for k, v := range t.members {
		out[k] = v
	}
	return out
}

func (t *Tracker) Len() int {
	return len(t.members)
}

// Summarize reduces the merged mapping; monthlyPrice prices one member-month.
func (t *Tracker) Summarize(monthlyPrice decimal.Decimal) Summary {
	summary := Summary{Distribution: make(map[int]int)}
	for _, months := range t.members {
		summary.MemberCount++
		summary.TotalMonths += months
		summary.Distribution[months]++
	}

	if summary.MemberCount > 0 {
		summary.MeanMonths = float64(summary.TotalMonths) / float64(summary.MemberCount)
	}
	summary.Revenue = monthlyPrice.Mul(decimal.NewFromInt(int64(summary.TotalMonths)))
	return summary
}

// Histogram returns the distribution ordered by duration.
func (s Summary) Histogram() []Bucket {
	buckets := make([]Bucket, 0, len(s.Distribution))
	for months, users := range s.Distribution {
		buckets = append(buckets, Bucket{Months: months, Users: users})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Months < buckets[j].Months })
	return buckets
}
