// Package expiry はFreeRADIUSのExpiration属性値
// （"DD Mon YYYY HH:MM:SS"、英語月名）の生成と解釈を提供する。
package expiry

import (
	"time"
)

// Layout はExpiration属性の時刻レイアウト。
const Layout = "02 Jan 2006 15:04:05"

// Format は時刻をExpiration属性値の文字列にする。
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse はExpiration属性値を解釈する。
// 想定外の形式の場合はok=falseを返す。
func Parse(value string) (time.Time, bool) {
	t, err := time.ParseInLocation(Layout, value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AddMonths は時刻部分を保ったまま月を加算する。
// 加算先の月に同じ日が存在しない場合は月末日に切り詰める
// （1/31 + 1ヶ月 → 2/28）。
func AddMonths(t time.Time, months int) time.Time {
	y, m := t.Year(), int(t.Month())
	m2 := m + months
	y2 := y + (m2-1)/12
	m2 = (m2-1)%12 + 1

	day := t.Day()
	if last := lastDayOfMonth(y2, m2); day > last {
		day = last
	}
	return time.Date(y2, time.Month(m2), day, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
}

// InMonths は現在時刻からmonthsヶ月後のExpiration属性値を返す。
// months <= 0 の場合は既に失効している値（前日）を返す。
func InMonths(months int) string {
	now := time.Now()
	if months <= 0 {
		return Format(now.AddDate(0, 0, -1))
	}
	return Format(AddMonths(now, months))
}

// Expired は値が現在時刻より過去かどうかを返す。
// 解釈できない値はfalse（失効扱いにしない）。
func Expired(value string, now time.Time) bool {
	t, ok := Parse(value)
	if !ok {
		return false
	}
	return t.Before(now)
}

// lastDayOfMonth は指定年月の末日を返す。
func lastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
