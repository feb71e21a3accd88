package model

import "strings"

// 入庫/出庫の向き。
type Direction string

const (
	// 入庫（在庫が増える）
	DirectionReceipt Direction = "receipt"
	// 出庫（在庫が減る）
	DirectionIssue Direction = "issue"
	// 絞り込み用（両方）
	DirectionBoth Direction = "both"
)

// ParseDirection はスキャナ側の別名（in/out, Masuk/Keluar/Semua）も受け付ける。
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "receipt", "in", "masuk":
		return DirectionReceipt, true
	case "issue", "out", "keluar":
		return DirectionIssue, true
	case "", "both", "all", "semua":
		return DirectionBoth, true
	default:
		return "", false
	}
}

// 数量に掛ける符号。bothは0。
func (d Direction) Sign() int64 {
	switch d {
	case DirectionReceipt:
		return 1
	case DirectionIssue:
		return -1
	default:
		return 0
	}
}

// 差分から向きを決める
func DirectionOf(delta int64) Direction {
	if delta < 0 {
		return DirectionIssue
	}
	return DirectionReceipt
}
