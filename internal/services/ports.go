// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"time"

	"masraf/internal/core"

	"github.com/shopspring/decimal"
)

// Store ports. The sqlite repository satisfies all of them; tests substitute
// in-package fakes.
type (
	UserStore interface {
		GetUser(ctx context.Context, id int64) (core.User, error)
		ListUsers(ctx context.Context) ([]core.User, error)
	}

	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		ListTransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error)
		UpdateTransaction(ctx context.Context, id int64, amount decimal.Decimal, date time.Time) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id int64) error
	}

	AggregateStore interface {
		SumAmountInWindows(ctx context.Context, userID int64, windows []core.Window) ([]decimal.Decimal, error)
	}

	SummaryStore interface {
		AppendSummary(ctx context.Context, s core.ExpenseSummary) (core.ExpenseSummary, error)
	}
)
