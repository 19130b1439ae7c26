package services

import (
	"context"
	"sync"
	"time"

	"masraf/internal/core"

	"github.com/shopspring/decimal"
)

type fakeStore struct {
	mu        sync.Mutex
	users     map[int64]core.User
	txs       map[int64]core.Transaction
	summaries []core.ExpenseSummary
	nextID    int64

	sumErr      error
	appendErr   error
	listErr     error
	seenWindows [][]core.Window
}

func newFakeStore(users ...core.User) *fakeStore {
	s := &fakeStore{
		users: make(map[int64]core.User),
		txs:   make(map[int64]core.Transaction),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeStore) GetUser(ctx context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, core.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeStore) ListUsers(ctx context.Context) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []core.User
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeStore) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = s.nextID
	s.txs[t.ID] = t
	return t, nil
}

func (s *fakeStore) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	return t, nil
}

func (s *fakeStore) ListTransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.txs {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateTransaction(ctx context.Context, id int64, amount decimal.Decimal, date time.Time) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	t.Amount = amount
	t.Date = date
	s.txs[id] = t
	return t, nil
}

func (s *fakeStore) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[id]; !ok {
		return core.ErrTransactionNotFound
	}
	delete(s.txs, id)
	return nil
}

// SumAmountInWindows sums the in-memory transactions per window.
func (s *fakeStore) SumAmountInWindows(ctx context.Context, userID int64, windows []core.Window) ([]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sumErr != nil {
		return nil, s.sumErr
	}
	s.seenWindows = append(s.seenWindows, windows)
	sums := make([]decimal.Decimal, len(windows))
	for i, w := range windows {
		sums[i] = decimal.Zero
		for _, t := range s.txs {
			if t.UserID == userID && w.Contains(t.Date) {
				sums[i] = sums[i].Add(t.Amount)
			}
		}
	}
	return sums, nil
}

func (s *fakeStore) AppendSummary(ctx context.Context, sum core.ExpenseSummary) (core.ExpenseSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return core.ExpenseSummary{}, s.appendErr
	}
	for _, existing := range s.summaries {
		if existing.UserID == sum.UserID && existing.Type == sum.Type && existing.Date.Equal(sum.Date.Time) {
			return core.ExpenseSummary{}, core.ErrDuplicateSummary
		}
	}
	s.nextID++
	sum.ID = s.nextID
	s.summaries = append(s.summaries, sum)
	return sum, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []core.Notification
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, n core.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeExporter struct {
	mu   sync.Mutex
	rows []core.ExpenseSummary
	err  error
}

func (f *fakeExporter) AppendSummary(ctx context.Context, s core.ExpenseSummary) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.rows = append(f.rows, s)
	return "Summaries!A1:D1", nil
}

func testUser(id int64, daily, weekly, monthly int64) core.User {
	return core.User{
		ID:           id,
		Name:         "Ayşe",
		Email:        "ayse@example.com",
		DailyLimit:   decimal.NewFromInt(daily),
		WeeklyLimit:  decimal.NewFromInt(weekly),
		MonthlyLimit: decimal.NewFromInt(monthly),
	}
}
