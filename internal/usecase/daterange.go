package usecase

import (
	"net/http"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// 1日の終わり（マイクロ秒精度のDBに合わせる）
const endOfDay = 24*time.Hour - time.Microsecond

// parseBound は YYYY-MM-DD（locの1日）か RFC3339 を受け付ける。
// 日付だけならstartはその日の0時、endはその日の23:59:59.999999。
func parseBound(s string, loc *time.Location, isEnd bool) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		if isEnd {
			return t.Add(endOfDay), true
		}
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// 期間の解決。未指定は「今日」。start > end は不正。
func resolveRange(start, end string, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	today := now.In(loc)
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)

	from := dayStart
	to := dayStart.Add(endOfDay)

	if strings.TrimSpace(start) != "" {
		t, ok := parseBound(start, loc, false)
		if !ok {
			return time.Time{}, time.Time{}, NewHTTPError(http.StatusBadRequest, "invalid start date")
		}
		from = t
	}
	if strings.TrimSpace(end) != "" {
		t, ok := parseBound(end, loc, true)
		if !ok {
			return time.Time{}, time.Time{}, NewHTTPError(http.StatusBadRequest, "invalid end date")
		}
		to = t
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, NewHTTPError(http.StatusBadRequest, "start must be <= end")
	}
	return from, to, nil
}

// 削除用：両方必須
func resolveRequiredRange(start, end string, loc *time.Location) (time.Time, time.Time, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return time.Time{}, time.Time{}, NewHTTPError(http.StatusBadRequest, "start_date and end_date required")
	}
	return resolveRange(start, end, loc, time.Time{})
}
