package server

import (
	"Pulse/handler"
)

type Handlers struct {
	Auth         *handler.Auth
	Post         *handler.PostHandler
	Comment      *handler.CommentHandler
	Reaction     *handler.ReactionHandler
	Notification *handler.NotificationHandler
}
