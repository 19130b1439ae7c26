package core

import "testing"

func TestDueSummaries(t *testing.T) {
	totals := Totals{Daily: dec("100"), Weekly: dec("700"), Monthly: dec("3000")}

	tests := []struct {
		name      string
		today     Date
		wantTypes []SummaryType
	}{
		{
			name:      "ordinary weekday",
			today:     NewDate(2024, 7, 16), // Tuesday, mid month
			wantTypes: []SummaryType{SummaryDaily},
		},
		{
			name:      "sunday",
			today:     NewDate(2024, 7, 14),
			wantTypes: []SummaryType{SummaryDaily, SummaryWeekly},
		},
		{
			name:      "month end",
			today:     NewDate(2024, 7, 31), // a Wednesday
			wantTypes: []SummaryType{SummaryDaily, SummaryMonthly},
		},
		{
			name:      "sunday that is also month end",
			today:     NewDate(2024, 3, 31),
			wantTypes: []SummaryType{SummaryDaily, SummaryWeekly, SummaryMonthly},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DueSummaries(42, tt.today, totals)
			if len(got) != len(tt.wantTypes) {
				t.Fatalf("got %d summaries, want %d", len(got), len(tt.wantTypes))
			}
			for i, s := range got {
				if s.Type != tt.wantTypes[i] {
					t.Errorf("summary %d type = %s, want %s", i, s.Type, tt.wantTypes[i])
				}
				if s.UserID != 42 {
					t.Errorf("summary %d user = %d, want 42", i, s.UserID)
				}
				if !s.Date.Equal(tt.today.Time) {
					t.Errorf("summary %d date = %s, want %s", i, s.Date, tt.today)
				}
			}
		})
	}
}

func TestDueSummaries_Amounts(t *testing.T) {
	totals := Totals{Daily: dec("0"), Weekly: dec("700"), Monthly: dec("3000")}
	got := DueSummaries(1, NewDate(2024, 3, 31), totals)

	// Zero transactions still produce a daily summary with amount 0.
	if !got[0].Amount.Equal(dec("0")) {
		t.Errorf("daily amount = %s, want 0", got[0].Amount)
	}
	if !got[1].Amount.Equal(dec("700")) {
		t.Errorf("weekly amount = %s, want rolling seven-day total 700", got[1].Amount)
	}
	if !got[2].Amount.Equal(dec("3000")) {
		t.Errorf("monthly amount = %s, want month-to-date total 3000", got[2].Amount)
	}
}
