//go:build wireinject
// +build wireinject

package main

import (
	"Pulse/config"
	"Pulse/dao"
	"Pulse/dao/cache"
	"Pulse/pkg/client"
	"Pulse/pkg/database"
	"Pulse/pkg/rocketmq"
	"Pulse/service"
	"Pulse/socket"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) *socket.AppProvider {
	wire.Build(

		client.NewRedisClient,
		config.ProvideRocketMQConfig,
		rocketmq.NewQueue,
		wire.Bind(new(service.EventQueue), new(*rocketmq.Queue)),
		cache.ProviderSet,

		dao.ProviderSet,
		service.ProviderSet,

		socket.ProviderSet,
		database.NewDB,
	)
	return nil
}
