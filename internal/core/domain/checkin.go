package domain

import "time"

const (
	// MaxCheckInDistanceKm is how close a member must be to the gym to check in.
	MaxCheckInDistanceKm = 0.1
	// ValidationWindow is how long after creation a check-in can still be validated.
	ValidationWindow = 20 * time.Minute
	// PageSize is the fixed page length for every paginated listing.
	PageSize = 20
)

// CheckIn records a member's presence at a gym.
//
// A check-in starts CREATED (ValidatedAt == nil) and may move once to
// VALIDATED. There are no other transitions.
type CheckIn struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	GymID       string     `json:"gym_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ValidatedAt *time.Time `json:"validated_at"`
}

// IsValidated reports whether the check-in reached its terminal state.
func (c *CheckIn) IsValidated() bool {
	return c.ValidatedAt != nil
}

// ValidationExpired reports whether now falls outside the validation window.
// The window is half-open: a check-in created exactly ValidationWindow ago
// can no longer be validated.
func (c *CheckIn) ValidationExpired(now time.Time) bool {
	return now.Sub(c.CreatedAt) >= ValidationWindow
}

// CalendarDay returns the UTC date used for the one-check-in-per-day rule,
// formatted as YYYY-MM-DD.
func CalendarDay(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// DayBounds returns the [start, end) UTC instants of the calendar day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// PageOffset converts a 1-based page number into a row offset. Pages below 1
// are treated as the first page.
func PageOffset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}
