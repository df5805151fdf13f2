package router

import (
	"kindling/internal/handlers"
	"kindling/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	commentHandler := handlers.NewCommentHandler()
	voteHandler := handlers.NewVoteHandler()

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.GET("/logout", authHandler.Logout)
		auth.GET("/user", middleware.AuthRequired(), authHandler.CurrentUser)
	}

	post := api.Group("/post")
	{
		post.GET("", postHandler.List)
		post.GET("/:id", postHandler.Get)
		post.GET("/:id/comments", postHandler.ListComments)

		authorized := post.Group("")
		authorized.Use(middleware.AuthRequired())
		{
			authorized.POST("", postHandler.Create)
			authorized.POST("/:id/upvote", voteHandler.TogglePost)
			authorized.POST("/:id/comment", postHandler.CreateComment)
		}
	}

	comment := api.Group("/comment")
	{
		comment.GET("/:id/comments", commentHandler.ListReplies)

		authorized := comment.Group("")
		authorized.Use(middleware.AuthRequired())
		{
			authorized.POST("/:id", commentHandler.CreateReply)
			authorized.POST("/:id/upvote", voteHandler.ToggleComment)
		}
	}
}
