package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"masraf/internal/core"

	"github.com/shopspring/decimal"
)

func newTxService(store *fakeStore, notifier *fakeNotifier, now time.Time) *TransactionService {
	svc := NewTransactionService(store, store, NewAggregator(store), NewEvaluator(notifier, time.Second))
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreate_UnknownUser(t *testing.T) {
	svc := newTxService(newFakeStore(), &fakeNotifier{}, time.Now())

	_, err := svc.Create(context.Background(), 42, decimal.NewFromInt(10), time.Time{})
	if !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestCreate_InlineCheckCountsNewTransaction(t *testing.T) {
	store := newFakeStore(testUser(1, 1000, 5000, 40000))
	notifier := &fakeNotifier{}
	now := time.Date(2024, 7, 15, 14, 0, 0, 0, time.UTC)
	svc := newTxService(store, notifier, now)

	// 600 existing today, the new 500 pushes the daily total to 1100.
	store.CreateTransaction(context.Background(), core.Transaction{
		UserID: 1, Amount: decimal.NewFromInt(600), Date: now,
	})

	res, err := svc.Create(context.Background(), 1, decimal.NewFromInt(500), time.Time{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Transaction.ID == 0 {
		t.Error("transaction not persisted")
	}
	if res.Transaction.Date != now {
		t.Errorf("zero date not defaulted to now: %v", res.Transaction.Date)
	}
	if res.Notification == nil || res.Notification.Period != core.SummaryDaily {
		t.Fatalf("notification = %+v, want daily breach", res.Notification)
	}
	if res.Warning != "" {
		t.Errorf("unexpected warning %q", res.Warning)
	}
	if notifier.sentCount() != 1 {
		t.Errorf("notifier called %d times, want 1", notifier.sentCount())
	}
}

func TestCreate_AggregateFailureIsWarning(t *testing.T) {
	store := newFakeStore(testUser(1, 1000, 5000, 40000))
	store.sumErr = errors.New("database locked")
	svc := newTxService(store, &fakeNotifier{}, time.Now())

	res, err := svc.Create(context.Background(), 1, decimal.NewFromInt(10), time.Time{})
	if err != nil {
		t.Fatalf("Create must not fail when only the check fails: %v", err)
	}
	if res.Transaction.ID == 0 {
		t.Error("transaction not persisted")
	}
	if res.Warning == "" {
		t.Error("expected a warning for the skipped limit check")
	}
}

func TestCreate_NotifyFailureIsWarning(t *testing.T) {
	store := newFakeStore(testUser(1, 1000, 5000, 40000))
	notifier := &fakeNotifier{err: errors.New("smtp refused")}
	now := time.Date(2024, 7, 15, 14, 0, 0, 0, time.UTC)
	svc := newTxService(store, notifier, now)

	res, err := svc.Create(context.Background(), 1, decimal.NewFromInt(2000), time.Time{})
	if err != nil {
		t.Fatalf("Create must not fail when delivery fails: %v", err)
	}
	if res.Notification == nil {
		t.Error("breach details missing from result")
	}
	if res.Warning == "" {
		t.Error("expected a warning for the failed notification")
	}
}

func TestListByUser_UnknownUser(t *testing.T) {
	svc := newTxService(newFakeStore(), &fakeNotifier{}, time.Now())
	if _, err := svc.ListByUser(context.Background(), 42); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
