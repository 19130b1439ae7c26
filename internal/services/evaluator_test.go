package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"masraf/internal/core"

	"github.com/shopspring/decimal"
)

func TestEvaluate_NoBreachSendsNothing(t *testing.T) {
	notifier := &fakeNotifier{}
	ev := NewEvaluator(notifier, time.Second)

	n, err := ev.Evaluate(context.Background(), testUser(1, 1000, 5000, 40000), core.Totals{
		Daily:   decimal.NewFromInt(1000), // equal never triggers
		Weekly:  decimal.NewFromInt(100),
		Monthly: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if n != nil {
		t.Errorf("got notification %+v, want none", n)
	}
	if notifier.sentCount() != 0 {
		t.Errorf("notifier called %d times", notifier.sentCount())
	}
}

func TestEvaluate_SendsHighestBreachedPeriod(t *testing.T) {
	notifier := &fakeNotifier{}
	ev := NewEvaluator(notifier, time.Second)

	n, err := ev.Evaluate(context.Background(), testUser(1, 1000, 5000, 40000), core.Totals{
		Daily:   decimal.NewFromInt(2000),
		Weekly:  decimal.NewFromInt(6000),
		Monthly: decimal.NewFromInt(6000),
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if n == nil || n.Period != core.SummaryWeekly {
		t.Fatalf("notification = %+v, want weekly", n)
	}
	if notifier.sentCount() != 1 {
		t.Fatalf("notifier called %d times, want 1", notifier.sentCount())
	}
	if notifier.sent[0].To != "ayse@example.com" {
		t.Errorf("sent to %q", notifier.sent[0].To)
	}
}

func TestEvaluate_SendFailureReturnsNotificationAndError(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("broker down")}
	ev := NewEvaluator(notifier, time.Second)

	n, err := ev.Evaluate(context.Background(), testUser(1, 1000, 5000, 40000), core.Totals{
		Daily: decimal.NewFromInt(2000),
	})
	if err == nil {
		t.Fatal("expected error from failed send")
	}
	if n == nil || n.Period != core.SummaryDaily {
		t.Errorf("notification = %+v, want daily breach details despite failure", n)
	}
}
