package usecase

import "time"

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// 操作した人（監査ログ・台帳に残す）
type Actor struct {
	UserID   int64
	Username string
}
