package cache

import (
	"log/slog"
	"time"
)

// marketCloseHour is the regular session close in New York.
const marketCloseHour = 16

// TimeUntilNextMarketClose は次の米国市場の終値確定（America/New_York 16:00）までの期間を返します。
// 週末は月曜日に繰り越します。tzdata が読めない場合は1時間を返します。
func TimeUntilNextMarketClose(now time.Time) time.Duration {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		slog.Warn("failed to load America/New_York, using 1h history TTL", "error", err)
		return time.Hour
	}
	local := now.In(loc)

	next := time.Date(local.Year(), local.Month(), local.Day(), marketCloseHour, 0, 0, 0, loc)
	// 今日の16:00が既に過ぎている場合は翌日
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
