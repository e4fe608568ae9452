//go:build wireinject

package socket

import (
	"Pulse/pkg/rocketmq"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewRouter,
	NewManager,
	rocketmq.InitConsumer,
	wire.Struct(new(WsHandler), "*"),

	// process
	wire.Struct(new(SubServers), "*"),
	wire.Struct(new(Subscriber), "*"),
	NewHealthSubscribe,
	NewServer,

	// AppProvider
	wire.Struct(new(AppProvider), "*"),
)
