//go:build wireinject
// +build wireinject

package main

import (
	"Pulse/config"
	"Pulse/dao"
	"Pulse/dao/cache"
	"Pulse/handler"
	"Pulse/pkg/client"
	"Pulse/pkg/database"
	"Pulse/pkg/rocketmq"
	"Pulse/pkg/server"
	"Pulse/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) *server.AppProvider {
	wire.Build(

		client.NewRedisClient,
		config.ProvideRocketMQConfig,
		rocketmq.NewQueue,
		wire.Bind(new(service.EventQueue), new(*rocketmq.Queue)),
		server.NewGinEngine,
		cache.ProviderSet,
		wire.Struct(new(handler.Auth), "*"),
		wire.Struct(new(handler.PostHandler), "*"),
		wire.Struct(new(handler.CommentHandler), "*"),
		wire.Struct(new(handler.ReactionHandler), "*"),
		wire.Struct(new(handler.NotificationHandler), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),

		dao.ProviderSet,

		service.ProviderSet,
		database.NewDB,
	)
	return nil
}
