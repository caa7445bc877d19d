package introspection

import (
	"context"

	"github.com/xinsproject/servicecall/journal"
)

// CallJournal serves the recent calls endpoint
type CallJournal interface {
	RecentCalls(ctx context.Context, limit int) ([]*journal.CallRow, error)
}
