package incentive

import (
	"fmt"
	"time"

	"liquidityEngine/internal/model"
)

// Countdown breaks a remaining interval into display units.
type Countdown struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Total   time.Duration
	Done    bool
}

// TimeRemaining returns the countdown until the incentive ends.
func TimeRemaining(key model.IncentiveKey, now time.Time) Countdown {
	return countdownTo(key.EndTime, now)
}

// TimeUntilStart returns the countdown until the incentive starts.
func TimeUntilStart(key model.IncentiveKey, now time.Time) Countdown {
	return countdownTo(key.StartTime, now)
}

func countdownTo(target uint64, now time.Time) Countdown {
	ts := now.Unix()
	if ts < 0 || uint64(ts) >= target {
		return Countdown{Done: true}
	}
	remaining := target - uint64(ts)
	return Countdown{
		Days:    int(remaining / 86400),
		Hours:   int(remaining % 86400 / 3600),
		Minutes: int(remaining % 3600 / 60),
		Seconds: int(remaining % 60),
		Total:   time.Duration(remaining) * time.Second,
	}
}

// FormatDuration renders the incentive's total duration for display.
func FormatDuration(key model.IncentiveKey) string {
	duration := key.Duration()
	days := duration / 86400
	hours := duration % 86400 / 3600
	if days > 0 {
		if hours > 0 {
			return fmt.Sprintf("%dd %dh", days, hours)
		}
		return fmt.Sprintf("%d days", days)
	}
	return fmt.Sprintf("%d hours", hours)
}
