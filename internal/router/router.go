package router

import (
	"github.com/gin-gonic/gin"

	"bullpen/internal/db"
	"bullpen/internal/forum"
	"bullpen/internal/handlers"
	"bullpen/internal/live"
	"bullpen/internal/middleware"
	"bullpen/internal/store"
)

// RegisterRoutes wires every handler onto the gin engine. The moderation
// engine and mention processor are built here, on top of the gorm-backed
// stores, and shared by the handlers that need them.
func RegisterRoutes(r *gin.Engine, stream *live.Stream) {
	profiles := store.NewProfileStore(db.DB)
	reports := store.NewReportStore(db.DB)
	content := store.NewContentStore(db.DB)
	audit := store.NewAuditStore(db.DB)
	stewards := store.NewStewardStore(db.DB)
	notifications := store.NewNotificationStore(db.DB)

	engine := forum.NewEngine(profiles, reports, content, audit, stewards)
	mentions := forum.NewMentionProcessor(profiles, notifications)

	authHandler := handlers.NewAuthHandler()
	threadHandler := handlers.NewThreadHandler(engine, mentions)
	commentHandler := handlers.NewCommentHandler(mentions, stream)
	likeHandler := handlers.NewLikeHandler()
	pollHandler := handlers.NewPollHandler()
	reportHandler := handlers.NewReportHandler(engine)
	adminHandler := handlers.NewAdminHandler(engine)
	stewardHandler := handlers.NewStewardHandler(engine)
	notificationHandler := handlers.NewNotificationHandler(notifications)
	userHandler := handlers.NewUserHandler()
	marketHandler := handlers.NewMarketHandler()

	api := r.Group("/api")

	// Public routes. Restricted categories still gate inside the handler.
	api.POST("/signup", authHandler.Signup)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)

	api.GET("/categories", threadHandler.ListCategories)
	api.GET("/categories/:slug/threads", threadHandler.List)
	api.GET("/categories/:slug/access", stewardHandler.CheckLounge)
	api.GET("/threads/:tid", threadHandler.Get)
	api.GET("/threads/:tid/comments", commentHandler.List)
	api.GET("/threads/:tid/comments/live", commentHandler.Live)
	api.GET("/users/:username", userHandler.Profile)
	api.GET("/market/headlines", marketHandler.Headlines)

	// Session required.
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/me", authHandler.Me)
		authorized.POST("/me/onboard", authHandler.Onboard)
		authorized.GET("/me/studio-access", userHandler.StudioAccess)

		authorized.POST("/threads", threadHandler.Create)
		authorized.PUT("/threads/:tid", threadHandler.Update)
		authorized.DELETE("/threads/:tid", threadHandler.Delete)
		authorized.POST("/threads/:tid/comments", commentHandler.Create)
		authorized.DELETE("/comments/:id", commentHandler.Delete)

		authorized.POST("/threads/:tid/like", likeHandler.LikeThread)
		authorized.DELETE("/threads/:tid/like", likeHandler.UnlikeThread)
		authorized.POST("/threads/:tid/downvote", likeHandler.DownvoteThread)
		authorized.POST("/comments/:id/like", likeHandler.LikeComment)
		authorized.DELETE("/comments/:id/like", likeHandler.UnlikeComment)
		authorized.POST("/comments/:id/downvote", likeHandler.DownvoteComment)

		authorized.POST("/threads/:tid/poll", pollHandler.Create)
		authorized.POST("/polls/:id/vote", pollHandler.Vote)
		authorized.POST("/polls/:id/close", pollHandler.Close)

		authorized.POST("/reports", reportHandler.Create)

		authorized.GET("/notifications", notificationHandler.List)
		authorized.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		authorized.POST("/notifications/:id/read", notificationHandler.MarkRead)
		authorized.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	}

	// Moderation surface. The engine re-checks the role on every call; the
	// group only guarantees a session exists.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired())
	{
		admin.GET("/reports", adminHandler.ListReports)
		admin.POST("/reports/:id/resolve", adminHandler.ResolveReport)
		admin.POST("/reports/:id/ban-author", adminHandler.BanReportAuthor)
		admin.POST("/users/:id/ban", adminHandler.BanUser)
		admin.POST("/users/:id/unban", adminHandler.UnbanUser)
		admin.DELETE("/content/:type/:id", adminHandler.DeleteContent)
		admin.GET("/users", adminHandler.GetUsers)
		admin.GET("/logs", adminHandler.GetAdminLogs)

		admin.POST("/stewards", stewardHandler.Assign)
		admin.DELETE("/stewards", stewardHandler.Remove)
	}

	// Steward actions sit outside /admin: a steward is often a plain user.
	steward := api.Group("/steward")
	steward.Use(middleware.AuthRequired())
	{
		steward.POST("/threads/:id/pin", stewardHandler.PinThread)
		steward.POST("/threads/:id/lock", stewardHandler.LockThread)
	}
}
