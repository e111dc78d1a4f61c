package commands

import (
	"context"

	"staybook/internal/domain/booking"
	"staybook/internal/infra/channel"
)

// ChannelGateway is the outbound hotel-distribution port. The infra adapter
// satisfies it; command tests mock it.
type ChannelGateway interface {
	Submit(ctx context.Context, n *booking.Notification) (channel.SubmissionResult, error)
	Cancel(ctx context.Context, s *booking.State, reason string) (channel.CancellationResult, error)
	CheckStatus(ctx context.Context, token string) (channel.StatusResult, error)
}
