package core

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	SummaryDaily   SummaryType = "daily"
	SummaryWeekly  SummaryType = "weekly"
	SummaryMonthly SummaryType = "monthly"
)

// Default limits applied when a user is created without explicit values.
var (
	DefaultDailyLimit   = decimal.NewFromInt(1000)
	DefaultWeeklyLimit  = decimal.NewFromInt(100000)
	DefaultMonthlyLimit = decimal.NewFromInt(1000000)
)

type (
	SummaryType string

	// Date is a calendar day. The embedded time is always midnight UTC.
	Date struct {
		time.Time
	}

	User struct {
		ID           int64
		Name         string
		Email        string
		DailyLimit   decimal.Decimal
		WeeklyLimit  decimal.Decimal
		MonthlyLimit decimal.Decimal
	}

	// Transaction is a single monetary movement. Amount is sign-unconstrained:
	// negative amounts (refunds) reduce aggregated totals.
	Transaction struct {
		ID     int64
		UserID int64
		Amount decimal.Decimal
		Date   time.Time
	}

	// ExpenseSummary is an immutable checkpoint written by the periodic run.
	// Date is the period's reference date: the day itself for daily summaries,
	// the week-end date for weekly, the month-end date for monthly.
	ExpenseSummary struct {
		ID     int64
		UserID int64
		Amount decimal.Decimal
		Date   Date
		Type   SummaryType
	}
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateSummary    = errors.New("summary already recorded for period")
	ErrEmptyName           = errors.New("empty name")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidSummaryType  = errors.New("invalid summary type")
)

// NewUser builds a user with the default limits.
func NewUser(name, email string) User {
	return User{
		Name:         name,
		Email:        email,
		DailyLimit:   DefaultDailyLimit,
		WeeklyLimit:  DefaultWeeklyLimit,
		MonthlyLimit: DefaultMonthlyLimit,
	}
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func (st SummaryType) Validate() error {
	switch st {
	case SummaryDaily, SummaryWeekly, SummaryMonthly:
		return nil
	}
	return ErrInvalidSummaryType
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}
