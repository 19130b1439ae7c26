package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"masraf/internal/core"
	"masraf/internal/export"

	"golang.org/x/sync/errgroup"
)

// SummaryJob is the periodic run: for every user it computes totals, records
// the due summary checkpoints and evaluates limits. Users are processed
// concurrently with a bounded worker count; one user's failure never stops
// the others.
type SummaryJob struct {
	users      UserStore
	summaries  SummaryStore
	aggregator *Aggregator
	evaluator  *Evaluator
	exporter   export.SummaryWriter // optional
	workers    int
	now        func() time.Time
}

func NewSummaryJob(users UserStore, summaries SummaryStore, aggregator *Aggregator, evaluator *Evaluator, workers int) *SummaryJob {
	if workers < 1 {
		workers = 1
	}
	return &SummaryJob{
		users:      users,
		summaries:  summaries,
		aggregator: aggregator,
		evaluator:  evaluator,
		workers:    workers,
		now:        time.Now,
	}
}

// WithExporter attaches a best-effort sheet exporter for recorded summaries.
func (j *SummaryJob) WithExporter(w export.SummaryWriter) *SummaryJob {
	j.exporter = w
	return j
}

// RunReport summarizes one run.
type RunReport struct {
	Today            core.Date
	Users            int
	SummariesWritten int
	Notified         int
	Failed           int
}

// Run executes one summary run keyed to today. Listing the users is the only
// hard failure; per-user errors are logged, counted and skipped.
func (j *SummaryJob) Run(ctx context.Context) (RunReport, error) {
	today := core.DateOf(j.now())

	users, err := j.users.ListUsers(ctx)
	if err != nil {
		return RunReport{}, fmt.Errorf("list users for summary run: %w", err)
	}

	report := RunReport{Today: today, Users: len(users)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.workers)

	for _, u := range users {
		g.Go(func() error {
			written, notified, err := j.processUser(gctx, u, today)
			mu.Lock()
			defer mu.Unlock()
			report.SummariesWritten += written
			if notified {
				report.Notified++
			}
			if err != nil {
				report.Failed++
				slog.ErrorContext(gctx, "Summary run failed for user",
					"user_id", u.ID, "date", today.String(), "error", err)
			}
			return nil
		})
	}
	g.Wait()

	slog.InfoContext(ctx, "Summary run finished",
		"date", today.String(),
		"users", report.Users,
		"summaries_written", report.SummariesWritten,
		"notified", report.Notified,
		"failed", report.Failed)
	return report, nil
}

func (j *SummaryJob) processUser(ctx context.Context, u core.User, today core.Date) (written int, notified bool, err error) {
	totals, err := j.aggregator.Totals(ctx, u.ID, today)
	if err != nil {
		return 0, false, err
	}

	for _, s := range core.DueSummaries(u.ID, today, totals) {
		recorded, err := j.summaries.AppendSummary(ctx, s)
		if errors.Is(err, core.ErrDuplicateSummary) {
			slog.DebugContext(ctx, "Summary already recorded, skipping",
				"user_id", u.ID, "summary_type", string(s.Type), "date", s.Date.String())
			continue
		}
		if err != nil {
			return written, false, fmt.Errorf("append %s summary: %w", s.Type, err)
		}
		written++
		j.exportSummary(ctx, recorded)
	}

	n, err := j.evaluator.Evaluate(ctx, u, totals)
	if err != nil {
		// The summaries are already durable; a failed notification only
		// marks the user as failed in the report.
		return written, false, err
	}
	return written, n != nil, nil
}

func (j *SummaryJob) exportSummary(ctx context.Context, s core.ExpenseSummary) {
	if j.exporter == nil {
		return
	}
	ref, err := j.exporter.AppendSummary(ctx, s)
	if err != nil {
		slog.WarnContext(ctx, "Summary export failed",
			"user_id", s.UserID, "summary_type", string(s.Type), "error", err)
		return
	}
	slog.DebugContext(ctx, "Summary exported", "row_ref", ref)
}
