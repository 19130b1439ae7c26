package export

import (
	"context"

	"masraf/internal/core"
)

// SummaryWriter appends recorded summary checkpoints to an external sheet.
// Export is best effort: the summary run never fails because a write to the
// sheet failed.
type SummaryWriter interface {
	AppendSummary(ctx context.Context, s core.ExpenseSummary) (rowRef string, err error)
}
