package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Totals are one user's three aggregates, computed from a single store
// snapshot and anchored at the same reference date.
type Totals struct {
	Daily   decimal.Decimal
	Weekly  decimal.Decimal
	Monthly decimal.Decimal
}

// Notification is a rendered limit-breach message for one user.
type Notification struct {
	UserID  int64
	To      string
	Period  SummaryType
	Subject string
	Body    string
	Total   decimal.Decimal
	Limit   decimal.Decimal
}

var periodSubjects = map[SummaryType]string{
	SummaryDaily:   "Günlük Harcama Limiti Aşıldı",
	SummaryWeekly:  "Haftalık Harcama Limiti Aşıldı",
	SummaryMonthly: "Aylık Harcama Limiti Aşıldı",
}

var periodPhrases = map[SummaryType]struct{ spent, limit string }{
	SummaryDaily:   {"Bugünkü harcamanız", "günlük limitiniz"},
	SummaryWeekly:  {"Bu haftaki harcamanız", "haftalık limitiniz"},
	SummaryMonthly: {"Bu ayki harcamanız", "aylık limitiniz"},
}

// EvaluateThresholds decides whether a notification is warranted and renders
// it. At most one notification results per evaluation, chosen by fixed
// precedence: monthly first, then weekly, then daily. A higher-period breach
// masks lower-period ones in the same evaluation. Comparison is strict
// greater-than: a total equal to its limit does not trigger.
func EvaluateThresholds(u User, t Totals) *Notification {
	switch {
	case t.Monthly.GreaterThan(u.MonthlyLimit):
		return renderNotification(u, SummaryMonthly, t.Monthly, u.MonthlyLimit)
	case t.Weekly.GreaterThan(u.WeeklyLimit):
		return renderNotification(u, SummaryWeekly, t.Weekly, u.WeeklyLimit)
	case t.Daily.GreaterThan(u.DailyLimit):
		return renderNotification(u, SummaryDaily, t.Daily, u.DailyLimit)
	}
	return nil
}

func renderNotification(u User, period SummaryType, total, limit decimal.Decimal) *Notification {
	phrase := periodPhrases[period]
	body := fmt.Sprintf(
		"Sayın %s,\n\n%s %s ile %s olan %s'yi aşmıştır.\nLütfen harcamalarınızı gözden geçiriniz.\n\nSaygılarımızla,\nMasraf Takip",
		u.Name, phrase.spent, FormatCurrency(total), phrase.limit, FormatCurrency(limit),
	)
	return &Notification{
		UserID:  u.ID,
		To:      u.Email,
		Period:  period,
		Subject: periodSubjects[period],
		Body:    body,
		Total:   total,
		Limit:   limit,
	}
}
