//go:build wireinject

package cache

import (
	"Pulse/service"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewUnreadStorage,
	NewClientStorage,
	NewServerStorage,

	wire.Bind(new(service.UnreadCounter), new(*UnreadStorage)),
)
