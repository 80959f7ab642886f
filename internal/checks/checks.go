// Package checks reads statistics from the confirmed-checks feed channel.
package checks

import (
	"context"
	"fmt"

	"github.com/louisbranch/partyfinder/internal/gateway"
	"github.com/louisbranch/partyfinder/internal/platform/errors"
)

// Stats summarizes the checks feed.
type Stats struct {
	Confirmed int
}

// Read counts the confirmed checks posted to the feed channel. The feed is
// read-only: the bot never writes to it.
func Read(ctx context.Context, gw gateway.Gateway, feed gateway.ChannelID) (Stats, error) {
	if feed == "" {
		return Stats{}, errors.New(errors.CodeNotFound, "checks feed channel is not configured")
	}
	count, err := gw.MessageCount(ctx, feed)
	if err != nil {
		return Stats{}, errors.Wrap(errors.CodeExternalIO, fmt.Sprintf("count checks in %s", feed), err)
	}
	return Stats{Confirmed: count}, nil
}
