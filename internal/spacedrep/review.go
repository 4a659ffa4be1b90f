package spacedrep

import "time"

// BoxIntervals maps a Leitner box level (1-5) to its review interval in
// days. The box level strictly determines the interval.
var BoxIntervals = map[int]int{
	1: 1,
	2: 2,
	3: 4,
	4: 7,
	5: 14,
}

const (
	MinBox = 1
	MaxBox = 5
)

// ReviewState holds the Leitner scheduling state for a single word.
type ReviewState struct {
	Word                string    `json:"word"`
	BoxLevel            int       `json:"box_level"` // 1-5
	ReviewCount         int       `json:"review_count"`
	LastReviewDate      time.Time `json:"last_review_date"`
	NextReviewDate      time.Time `json:"next_review_date"`
	CurrentIntervalDays int       `json:"current_interval_days"`
}

// IsDue reports whether the word is at or past its next review date.
func (rs *ReviewState) IsDue(now time.Time) bool {
	return !now.Before(rs.NextReviewDate)
}

// OverdueDays returns how many days past due the word is, 0 if not yet due.
func (rs *ReviewState) OverdueDays(now time.Time) float64 {
	if now.Before(rs.NextReviewDate) {
		return 0
	}
	return now.Sub(rs.NextReviewDate).Hours() / 24.0
}

// DaysUntilReview returns whole days until the next review, 0 if due.
func (rs *ReviewState) DaysUntilReview(now time.Time) int {
	if rs.IsDue(now) {
		return 0
	}
	return int(rs.NextReviewDate.Sub(now).Hours()/24.0) + 1
}

func clampBox(box int) int {
	if box < MinBox {
		return MinBox
	}
	if box > MaxBox {
		return MaxBox
	}
	return box
}
