package routes

import (
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/handlers"
	"github.com/gofiber/fiber/v2"
)

// NewApp builds the fiber app every entrypoint serves from. Params, Query
// and header strings are copied because the repositories keep them past
// the request.
func NewApp(bodyLimit int) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "snapshoot",
		BodyLimit:    bodyLimit,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Immutable:    true,
	})
}

type Options struct {
	// Auth guards every route except health, register and login.
	Auth fiber.Handler
	// RateLimit, when set, applies to everything under /api.
	RateLimit fiber.Handler
	// Metrics, when set, is served at /metrics.
	Metrics fiber.Handler
	// Media, when set, serves stored objects at /media/<key>.
	Media fiber.Handler
}

// Register mounts the HTTP surface on app. Literal segments such as
// /messages/groups and /stories/nearby are registered before the
// parameterised routes they would otherwise shadow.
func Register(app *fiber.App, h *handlers.Handler, o Options) {
	if o.Metrics != nil {
		app.Get("/metrics", o.Metrics)
	}
	if o.Media != nil {
		app.Get("/media/*", o.Media)
	}

	api := app.Group("/api")
	if o.RateLimit != nil {
		api.Use(o.RateLimit)
	}
	api.Get("/health", h.Health)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", h.Register)
	authRoutes.Post("/login", h.Login)

	users := api.Group("/users", o.Auth)
	users.Get("/", h.ListUsers)
	users.Post("/", h.CreateUser)
	users.Get("/me", h.Me)
	users.Put("/me", h.UpdateMe)
	users.Delete("/me", h.DeleteMe)
	users.Get("/:id", h.GetUser)
	users.Put("/:id", h.UpdateUser)
	users.Delete("/:id", h.DeleteUser)

	friends := api.Group("/friends", o.Auth)
	friends.Get("/", h.ListFriends)
	friends.Get("/requests", h.ListFriendRequests)
	friends.Post("/find", h.FindUser)
	friends.Post("/request/:user_id", h.SendFriendRequest)
	friends.Patch("/accept/:request_id", h.AcceptFriendRequest)
	friends.Delete("/:user_id", h.RemoveFriend)

	groups := api.Group("/groups", o.Auth)
	groups.Get("/", h.ListGroups)
	groups.Post("/", h.CreateGroup)
	groups.Get("/:group_id", h.GetGroup)
	groups.Put("/:group_id", h.RenameGroup)
	groups.Delete("/:group_id", h.DeleteGroup)
	groups.Post("/:group_id/members", h.AddGroupMembers)
	groups.Delete("/:group_id/members/:user_id", h.RemoveGroupMember)

	messages := api.Group("/messages", o.Auth)
	messages.Get("/groups/:group_id", h.ListGroupMessages)
	messages.Post("/groups/:group_id", h.SendGroupMessage)
	messages.Post("/groups/:group_id/media", h.SendGroupMedia)
	messages.Get("/:recipient_id", h.ListDirectMessages)
	messages.Post("/:recipient_id", h.SendDirectMessage)
	messages.Post("/:recipient_id/media", h.SendDirectMedia)
	messages.Delete("/:message_id", h.DeleteMessage)

	stories := api.Group("/stories", o.Auth)
	stories.Get("/", h.ListFriendsStories)
	stories.Get("/nearby", h.ListNearbyStories)
	stories.Post("/", h.CreateStory)
	stories.Post("/media", h.CreateStoryMedia)
	stories.Get("/:story_id", h.GetStory)
	stories.Delete("/:story_id", h.DeleteStory)

	location := api.Group("/location", o.Auth)
	location.Post("/update", h.UpdateLocation)
	location.Get("/nearby/users", h.NearbyUsers)
}
