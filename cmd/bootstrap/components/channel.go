package components

import (
	"staybook/internal/infra/channel"
	"staybook/internal/infra/ota"
	"staybook/internal/pkg/config"
	"staybook/internal/usecase/commands"

	"go.uber.org/fx"
)

// ChannelModule wires the OTA codec and the HTTP client into the outbound
// gateway the booking commands use.
var ChannelModule = fx.Module("channel",
	fx.Provide(
		func(cfg config.Config) config.ChannelConfig {
			return cfg.Channel
		},
		ota.NewCodec,
		channel.NewClient,
		fx.Annotate(
			channel.NewAdapter,
			fx.As(new(commands.ChannelGateway)),
		),
	),
)
