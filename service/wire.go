package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(BroadcastService), "*"),
	wire.Bind(new(IBroadcastService), new(*BroadcastService)),

	wire.Struct(new(NotificationService), "*"),
	wire.Bind(new(INotificationService), new(*NotificationService)),

	wire.Struct(new(ReactionService), "*"),
	wire.Bind(new(IReactionService), new(*ReactionService)),

	wire.Struct(new(MentionService), "*"),
	wire.Bind(new(IMentionService), new(*MentionService)),

	wire.Struct(new(PostService), "*"),
	wire.Bind(new(IPostService), new(*PostService)),

	wire.Struct(new(CommentService), "*"),
	wire.Bind(new(ICommentService), new(*CommentService)),

	wire.Struct(new(ContentEventService), "*"),
	wire.Bind(new(IContentEventService), new(*ContentEventService)),
)
