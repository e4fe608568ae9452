//go:build wireinject

package dao

import (
	"Pulse/service"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewUsers,
	NewPostDAO,
	NewPostStatsDAO,
	NewCommentDAO,
	NewReactionDAO,
	NewNotificationDAO,
	NewSourceReader,

	wire.Bind(new(service.ReactionStore), new(*ReactionDAO)),
	wire.Bind(new(service.PostStore), new(*PostDAO)),
	wire.Bind(new(service.CommentStore), new(*CommentDAO)),
	wire.Bind(new(service.NotificationStore), new(*NotificationDAO)),
	wire.Bind(new(service.SourceResolver), new(*SourceReader)),
	wire.Bind(new(service.MentionSource), new(*SourceReader)),
	wire.Bind(new(service.MentionUserResolver), new(*Users)),
	wire.Bind(new(service.UserReader), new(*Users)),
)
