package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/poddubnyoleg/lightdash-mcp/internal/lightdash"
	"github.com/poddubnyoleg/lightdash-mcp/pkg/core"
)

// awaitQuery drives a submitted async query to a terminal state. Polls are
// strictly sequential at a fixed interval with no backoff; exhausting the
// attempt budget returns ErrTimeout without cancelling the remote query.
func (e *Engine) awaitQuery(ctx context.Context, queryUUID string) (*lightdash.QueryStatus, error) {
	for attempt := 1; attempt <= e.maxPollAttempts; attempt++ {
		status, err := e.api.GetQueryStatus(ctx, queryUUID)
		if err != nil {
			return nil, fmt.Errorf("poll query %s: %w", queryUUID, err)
		}

		switch status.Status {
		case lightdash.QueryStatusReady:
			return status, nil
		case lightdash.QueryStatusError, lightdash.QueryStatusFailed:
			if status.Error != "" {
				return nil, fmt.Errorf("query %s: %w: %s", queryUUID, core.ErrQueryFailed, status.Error)
			}
			return nil, fmt.Errorf("query %s: %w", queryUUID, core.ErrQueryFailed)
		}

		e.logger.Debug("query not ready", "query_uuid", queryUUID, "status", status.Status, "attempt", attempt)

		if attempt == e.maxPollAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.pollInterval):
		}
	}
	return nil, fmt.Errorf("query %s not ready after %d attempts: %w", queryUUID, e.maxPollAttempts, core.ErrTimeout)
}
