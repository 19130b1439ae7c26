package core

// DueSummaries returns the checkpoint summaries a run keyed to today must
// record for one user. The daily summary is recorded on every run. The weekly
// summary is recorded only on the week-end checkpoint day (Sunday) and carries
// the rolling seven-day total ending today. The monthly summary is recorded
// only on the last calendar day of the month and carries the month-to-date
// total. All summaries use today as their reference date.
func DueSummaries(userID int64, today Date, totals Totals) []ExpenseSummary {
	out := []ExpenseSummary{{
		UserID: userID,
		Amount: totals.Daily,
		Date:   today,
		Type:   SummaryDaily,
	}}
	if IsWeekCheckpoint(today) {
		out = append(out, ExpenseSummary{
			UserID: userID,
			Amount: totals.Weekly,
			Date:   today,
			Type:   SummaryWeekly,
		})
	}
	if IsMonthCheckpoint(today) {
		out = append(out, ExpenseSummary{
			UserID: userID,
			Amount: totals.Monthly,
			Date:   today,
			Type:   SummaryMonthly,
		})
	}
	return out
}
