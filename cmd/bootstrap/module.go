package bootstrap

import (
	"staybook/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	components.PersistenceModule,
	components.ChannelModule,
	components.UseCaseModule,
	components.HandlerModule,
)
