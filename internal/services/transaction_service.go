package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"masraf/internal/core"

	"github.com/shopspring/decimal"
)

// TransactionService handles the transaction lifecycle and runs the inline
// limit check after every write that can push a total over a limit.
type TransactionService struct {
	users      UserStore
	txs        TransactionStore
	aggregator *Aggregator
	evaluator  *Evaluator
	now        func() time.Time
}

func NewTransactionService(users UserStore, txs TransactionStore, aggregator *Aggregator, evaluator *Evaluator) *TransactionService {
	return &TransactionService{
		users:      users,
		txs:        txs,
		aggregator: aggregator,
		evaluator:  evaluator,
		now:        time.Now,
	}
}

// CreateResult is the outcome of recording a transaction. The write succeeded
// whenever err is nil; Notification is the breach message the inline check
// produced, if any, and Warning carries a non-fatal check or delivery failure.
type CreateResult struct {
	Transaction  core.Transaction
	Notification *core.Notification
	Warning      string
}

// Create persists a transaction and immediately re-evaluates the user's
// limits against today's totals. The transaction itself participates in the
// evaluation. Check and notification failures never roll back the write.
func (s *TransactionService) Create(ctx context.Context, userID int64, amount decimal.Decimal, date time.Time) (CreateResult, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return CreateResult{}, err
	}
	if date.IsZero() {
		date = s.now()
	}

	tx, err := s.txs.CreateTransaction(ctx, core.Transaction{
		UserID: userID,
		Amount: amount,
		Date:   date,
	})
	if err != nil {
		return CreateResult{}, fmt.Errorf("record transaction: %w", err)
	}

	res := CreateResult{Transaction: tx}
	today := core.DateOf(s.now())

	totals, err := s.aggregator.Totals(ctx, userID, today)
	if err != nil {
		slog.WarnContext(ctx, "Inline limit check skipped", "user_id", userID, "error", err)
		res.Warning = fmt.Sprintf("limit check failed: %v", err)
		return res, nil
	}

	n, err := s.evaluator.Evaluate(ctx, user, totals)
	res.Notification = n
	if err != nil {
		slog.WarnContext(ctx, "Inline notification failed", "user_id", userID, "error", err)
		res.Warning = fmt.Sprintf("notification failed: %v", err)
	}
	return res, nil
}

func (s *TransactionService) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.txs.GetTransaction(ctx, id)
}

func (s *TransactionService) ListByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.txs.ListTransactionsByUser(ctx, userID)
}

// Update rewrites a transaction's amount and date. Past summaries are
// checkpoints and are deliberately not recomputed.
func (s *TransactionService) Update(ctx context.Context, id int64, amount decimal.Decimal, date time.Time) (core.Transaction, error) {
	return s.txs.UpdateTransaction(ctx, id, amount, date)
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	return s.txs.DeleteTransaction(ctx, id)
}
