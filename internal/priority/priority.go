// Package priority derives a task's urgency tier from its due date.
// The tier is never persisted; it is recomputed from (dueDate, status)
// every time it is displayed.
package priority

import (
	"math"
	"time"

	"github.com/nhle/taskboard/internal/model"
)

// Tier is the derived urgency classification of a task.
type Tier string

const (
	// None means no tier applies: the task is done or has no due date.
	None Tier = ""

	High   Tier = "HIGH"
	Medium Tier = "MEDIUM"
	Low    Tier = "LOW"
)

// Day thresholds, inclusive. Due within highMaxDays days (or overdue) is
// HIGH; within mediumMaxDays is MEDIUM; anything later is LOW.
const (
	highMaxDays   = 2
	mediumMaxDays = 8
)

// Classify maps a due date and task status to a Tier. Done tasks and
// tasks without a due date classify as None. The reference instant is
// passed in so callers and tests control the clock.
func Classify(dueDate time.Time, status string, now time.Time) Tier {
	if status == model.TaskStatusDone {
		return None
	}
	if dueDate.IsZero() {
		return None
	}

	switch days := DaysUntil(dueDate, now); {
	case days <= highMaxDays:
		return High
	case days <= mediumMaxDays:
		return Medium
	default:
		return Low
	}
}

// DaysUntil returns ceil((dueDate - today) / 24h), where today is now
// truncated to its calendar date. Truncating only the reference instant
// keeps the count stable across the day while a due date carrying a
// time-of-day still rounds up to the next whole day.
func DaysUntil(dueDate, now time.Time) int {
	today := startOfDay(now)
	diff := dueDate.Sub(today)
	return int(math.Ceil(diff.Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
