package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"masraf/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// DuplicatePolicy controls what AppendSummary does when a summary for the
// same (user, period type, date) key already exists. The periodic run has no
// guard against being invoked twice on the same day; Allow reproduces the
// original double-row behavior, Reject turns the second write into
// core.ErrDuplicateSummary.
type DuplicatePolicy string

const (
	AllowDuplicates  DuplicatePolicy = "allow"
	RejectDuplicates DuplicatePolicy = "reject"
)

func (p DuplicatePolicy) Validate() error {
	switch p {
	case AllowDuplicates, RejectDuplicates:
		return nil
	}
	return fmt.Errorf("unknown duplicate policy: %s", string(p))
}

type SQLiteRepository struct {
	db     *sql.DB
	policy DuplicatePolicy
}

func NewSQLiteRepository(dbPath string, policy DuplicatePolicy) (*SQLiteRepository, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, policy: policy}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, daily_limit, weekly_limit, monthly_limit)
		 VALUES (?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.DailyLimit.String(), u.WeeklyLimit.String(), u.MonthlyLimit.String(),
	)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("user insert id: %w", err)
	}
	u.ID = id

	slog.InfoContext(ctx, "User created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, daily_limit, weekly_limit, monthly_limit FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, daily_limit, weekly_limit, monthly_limit FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUserLimits overwrites the limits that are non-nil and leaves the
// others untouched. New limits take effect on the next evaluation, never
// retroactively.
func (r *SQLiteRepository) UpdateUserLimits(ctx context.Context, id int64, daily, weekly, monthly *decimal.Decimal) (core.User, error) {
	u, err := r.GetUser(ctx, id)
	if err != nil {
		return core.User{}, err
	}
	if daily != nil {
		u.DailyLimit = *daily
	}
	if weekly != nil {
		u.WeeklyLimit = *weekly
	}
	if monthly != nil {
		u.MonthlyLimit = *monthly
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET daily_limit = ?, weekly_limit = ?, monthly_limit = ? WHERE id = ?`,
		u.DailyLimit.String(), u.WeeklyLimit.String(), u.MonthlyLimit.String(), id,
	)
	if err != nil {
		return core.User{}, fmt.Errorf("update user limits: %w", err)
	}

	slog.InfoContext(ctx, "User limits updated",
		"user_id", id,
		"daily_limit", u.DailyLimit.String(),
		"weekly_limit", u.WeeklyLimit.String(),
		"monthly_limit", u.MonthlyLimit.String())
	return u, nil
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, amount, occurred_at, day) VALUES (?, ?, ?, ?)`,
		t.UserID, t.Amount.String(), t.Date.UTC().Format(time.RFC3339), core.DateOf(t.Date).String(),
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction insert id: %w", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"user_id", t.UserID,
		"amount", t.Amount.String(),
		"day", core.DateOf(t.Date).String())
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount, occurred_at FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListTransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount, occurred_at FROM transactions
		 WHERE user_id = ? ORDER BY occurred_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions for user %d: %w", userID, err)
	}
	return txs, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id int64, amount decimal.Decimal, date time.Time) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount = ?, occurred_at = ?, day = ? WHERE id = ?`,
		amount.String(), date.UTC().Format(time.RFC3339), core.DateOf(date).String(), id,
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	return r.GetTransaction(ctx, id)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrTransactionNotFound
	}
	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id)
	return nil
}

// --- aggregation ---

// SumAmountInRange sums a user's transaction amounts over the closed date
// interval [start, end]. Returns zero, not an error, when the range is empty.
func (r *SQLiteRepository) SumAmountInRange(ctx context.Context, userID int64, start, end core.Date) (decimal.Decimal, error) {
	return sumRange(ctx, r.db, userID, start, end)
}

// SumAmountInWindows computes one sum per window inside a single read
// transaction, so a user's daily, weekly and monthly totals always reflect
// the same store state even while transactions are concurrently written.
func (r *SQLiteRepository) SumAmountInWindows(ctx context.Context, userID int64, windows []core.Window) ([]decimal.Decimal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin aggregate snapshot: %w", err)
	}
	defer tx.Rollback()

	sums := make([]decimal.Decimal, len(windows))
	for i, w := range windows {
		sums[i], err = sumRange(ctx, tx, userID, w.Start, w.End)
		if err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit aggregate snapshot: %w", err)
	}
	return sums, nil
}

// TotalExpenses sums every transaction the user ever made.
func (r *SQLiteRepository) TotalExpenses(ctx context.Context, userID int64) (decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT amount FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total expenses for user %d: %w", userID, err)
	}
	defer rows.Close()
	return sumAmountRows(rows)
}

// --- summaries ---

// AppendSummary persists one immutable checkpoint record. Under
// RejectDuplicates a second summary for the same (user, type, date) key
// returns core.ErrDuplicateSummary.
func (r *SQLiteRepository) AppendSummary(ctx context.Context, s core.ExpenseSummary) (core.ExpenseSummary, error) {
	if err := s.Type.Validate(); err != nil {
		return core.ExpenseSummary{}, err
	}

	if r.policy == RejectDuplicates {
		var exists bool
		err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM expense_summaries WHERE user_id = ? AND summary_type = ? AND date = ?)`,
			s.UserID, string(s.Type), s.Date.String(),
		).Scan(&exists)
		if err != nil {
			return core.ExpenseSummary{}, fmt.Errorf("check summary key: %w", err)
		}
		if exists {
			return core.ExpenseSummary{}, core.ErrDuplicateSummary
		}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expense_summaries (user_id, amount, date, summary_type) VALUES (?, ?, ?, ?)`,
		s.UserID, s.Amount.String(), s.Date.String(), string(s.Type),
	)
	if err != nil {
		return core.ExpenseSummary{}, fmt.Errorf("append summary: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.ExpenseSummary{}, fmt.Errorf("summary insert id: %w", err)
	}
	s.ID = id

	slog.InfoContext(ctx, "Summary recorded",
		"summary_id", s.ID,
		"user_id", s.UserID,
		"summary_type", string(s.Type),
		"date", s.Date.String(),
		"amount", s.Amount.String())
	return s, nil
}

// ListSummaries returns a user's summaries, optionally filtered by type.
// Pass an empty type for all periods.
func (r *SQLiteRepository) ListSummaries(ctx context.Context, userID int64, typ core.SummaryType) ([]core.ExpenseSummary, error) {
	query := `SELECT id, user_id, amount, date, summary_type FROM expense_summaries WHERE user_id = ?`
	args := []any{userID}
	if typ != "" {
		if err := typ.Validate(); err != nil {
			return nil, err
		}
		query += ` AND summary_type = ?`
		args = append(args, string(typ))
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list summaries for user %d: %w", userID, err)
	}
	defer rows.Close()

	var sums []core.ExpenseSummary
	for rows.Next() {
		var (
			s         core.ExpenseSummary
			amountStr string
			dateStr   string
			typeStr   string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &amountStr, &dateStr, &typeStr); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		if s.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("parse summary amount %q: %w", amountStr, err)
		}
		if s.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("parse summary date %q: %w", dateStr, err)
		}
		s.Type = core.SummaryType(typeStr)
		sums = append(sums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list summaries for user %d: %w", userID, err)
	}
	return sums, nil
}

// --- scanning helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func sumRange(ctx context.Context, q querier, userID int64, start, end core.Date) (decimal.Decimal, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT amount FROM transactions WHERE user_id = ? AND day >= ? AND day <= ?`,
		userID, start.String(), end.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum range [%s, %s] for user %d: %w", start, end, userID, err)
	}
	defer rows.Close()
	return sumAmountRows(rows)
}

func sumAmountRows(rows *sql.Rows) (decimal.Decimal, error) {
	total := decimal.Zero
	for rows.Next() {
		var amountStr string
		if err := rows.Scan(&amountStr); err != nil {
			return decimal.Zero, fmt.Errorf("scan amount: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse amount %q: %w", amountStr, err)
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("iterate amounts: %w", err)
	}
	return total, nil
}

func scanUser(row rowScanner) (core.User, error) {
	var (
		u       core.User
		daily   string
		weekly  string
		monthly string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &daily, &weekly, &monthly); err != nil {
		return core.User{}, err
	}
	var err error
	if u.DailyLimit, err = decimal.NewFromString(daily); err != nil {
		return core.User{}, fmt.Errorf("parse daily limit %q: %w", daily, err)
	}
	if u.WeeklyLimit, err = decimal.NewFromString(weekly); err != nil {
		return core.User{}, fmt.Errorf("parse weekly limit %q: %w", weekly, err)
	}
	if u.MonthlyLimit, err = decimal.NewFromString(monthly); err != nil {
		return core.User{}, fmt.Errorf("parse monthly limit %q: %w", monthly, err)
	}
	return u, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		amountStr  string
		occurredAt string
	)
	if err := row.Scan(&t.ID, &t.UserID, &amountStr, &occurredAt); err != nil {
		return core.Transaction{}, err
	}
	var err error
	if t.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amountStr, err)
	}
	if t.Date, err = time.Parse(time.RFC3339, occurredAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse occurred_at %q: %w", occurredAt, err)
	}
	return t, nil
}
