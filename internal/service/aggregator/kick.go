package aggregator

import (
	"context"

	"stream_tab_watcher/internal/models"
)

// fetchKick is the Kick stage. The client already absorbs failures at
// per-channel granularity, so this stage can never fail the cycle.
func (as *AggregatorService) fetchKick(ctx context.Context, logins []models.Login, added []string) []models.Channel {
	if models.FindLogin(logins, models.AccountTypeKick) == nil {
		return nil
	}

	if len(added) == 0 {
		return nil
	}

	return as.kickClient.FetchLiveChannels(ctx, added)
}
