package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"masraf/internal/core"

	"github.com/shopspring/decimal"
)

func newJob(store *fakeStore, notifier *fakeNotifier, now time.Time, workers int) *SummaryJob {
	job := NewSummaryJob(store, store, NewAggregator(store), NewEvaluator(notifier, time.Second), workers)
	job.now = func() time.Time { return now }
	return job
}

func TestRun_DailyOnlyWeekday(t *testing.T) {
	store := newFakeStore(testUser(1, 1000, 5000, 40000), testUser(2, 1000, 5000, 40000))
	// 2024-07-15 is a Monday in mid-month: no weekly or monthly checkpoint.
	now := time.Date(2024, 7, 15, 2, 0, 0, 0, time.UTC)
	job := newJob(store, &fakeNotifier{}, now, 4)

	report, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Users != 2 {
		t.Errorf("users = %d, want 2", report.Users)
	}
	if report.SummariesWritten != 2 {
		t.Errorf("summaries written = %d, want 2 (one daily per user)", report.SummariesWritten)
	}
	for _, s := range store.summaries {
		if s.Type != core.SummaryDaily {
			t.Errorf("unexpected %s summary on a plain weekday", s.Type)
		}
	}
	if report.Failed != 0 || report.Notified != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestRun_CheckpointDayWritesAllPeriods(t *testing.T) {
	store := newFakeStore(testUser(1, 1000, 5000, 40000))
	ctx := context.Background()
	store.CreateTransaction(ctx, core.Transaction{
		UserID: 1, Amount: decimal.NewFromInt(300),
		Date: time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC),
	})

	// 2024-03-31 is both a Sunday and the last day of March.
	now := time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)
	job := newJob(store, &fakeNotifier{}, now, 2)

	report, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.SummariesWritten != 3 {
		t.Fatalf("summaries written = %d, want daily+weekly+monthly", report.SummariesWritten)
	}
	types := map[core.SummaryType]bool{}
	for _, s := range store.summaries {
		types[s.Type] = true
		if s.Date != core.NewDate(2024, 3, 31) {
			t.Errorf("%s summary dated %s, want 2024-03-31", s.Type, s.Date)
		}
	}
	if !types[core.SummaryDaily] || !types[core.SummaryWeekly] || !types[core.SummaryMonthly] {
		t.Errorf("recorded types = %v", types)
	}
}

func TestRun_SecondRunSkipsDuplicates(t *testing.T) {
	store := newFakeStore(testUser(1, 1000, 5000, 40000))
	now := time.Date(2024, 7, 15, 2, 0, 0, 0, time.UTC)
	job := newJob(store, &fakeNotifier{}, now, 1)
	ctx := context.Background()

	if _, err := job.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	report, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	// The fake store rejects duplicate keys; the run treats that as a skip.
	if report.SummariesWritten != 0 {
		t.Errorf("second run wrote %d summaries, want 0", report.SummariesWritten)
	}
	if report.Failed != 0 {
		t.Errorf("duplicate skips counted as failures: %+v", report)
	}
}

func TestRun_BreachedUserGetsNotified(t *testing.T) {
	store := newFakeStore(testUser(1, 1000, 5000, 40000), testUser(2, 1000, 5000, 40000))
	ctx := context.Background()
	store.CreateTransaction(ctx, core.Transaction{
		UserID: 1, Amount: decimal.NewFromInt(1500),
		Date: time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC),
	})

	notifier := &fakeNotifier{}
	now := time.Date(2024, 7, 15, 23, 0, 0, 0, time.UTC)
	job := newJob(store, notifier, now, 4)

	report, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Notified != 1 {
		t.Errorf("notified = %d, want 1", report.Notified)
	}
	if notifier.sentCount() != 1 || notifier.sent[0].UserID != 1 {
		t.Errorf("sent = %+v", notifier.sent)
	}
}

func TestRun_PerUserFailureDoesNotStopOthers(t *testing.T) {
	store := newFakeStore(testUser(1, 1000, 5000, 40000), testUser(2, 1000, 5000, 40000))
	store.appendErr = errors.New("disk full")
	now := time.Date(2024, 7, 15, 2, 0, 0, 0, time.UTC)
	job := newJob(store, &fakeNotifier{}, now, 2)

	report, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run must not fail on per-user errors: %v", err)
	}
	if report.Failed != 2 {
		t.Errorf("failed = %d, want 2", report.Failed)
	}
}

func TestRun_ListFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("database gone")
	job := newJob(store, &fakeNotifier{}, time.Now(), 1)

	if _, err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error when the user list cannot be loaded")
	}
}

func TestRun_ExporterReceivesRecordedSummaries(t *testing.T) {
	store := newFakeStore(testUser(1, 1000, 5000, 40000))
	exporter := &fakeExporter{}
	now := time.Date(2024, 7, 15, 2, 0, 0, 0, time.UTC)
	job := newJob(store, &fakeNotifier{}, now, 1).WithExporter(exporter)

	if _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(exporter.rows) != 1 || exporter.rows[0].Type != core.SummaryDaily {
		t.Errorf("exported rows = %+v", exporter.rows)
	}
}

func TestRun_ExportFailureIsBestEffort(t *testing.T) {
	store := newFakeStore(testUser(1, 1000, 5000, 40000))
	exporter := &fakeExporter{err: errors.New("sheets quota")}
	now := time.Date(2024, 7, 15, 2, 0, 0, 0, time.UTC)
	job := newJob(store, &fakeNotifier{}, now, 1).WithExporter(exporter)

	report, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed != 0 || report.SummariesWritten != 1 {
		t.Errorf("report = %+v, export failures must not count", report)
	}
}
